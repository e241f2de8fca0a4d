// Package format renders output records to the host: newline-delimited JSON
// for machine consumption, or an aligned table for human inspection.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/brunotm/elasticsplunk/internal/model"
)

// RecordStream is the forward-only record sequence the writers consume.
type RecordStream interface {
	Next() bool
	Record() model.Record
	Err() error
}

// WriteNDJSON streams records to w as newline-delimited JSON, one object per
// record, in arrival order. It returns the number of records written and the
// stream error, if any; records written before a mid-stream failure remain
// written.
func WriteNDJSON(w io.Writer, s RecordStream) (int, error) {
	enc := json.NewEncoder(w)
	n := 0
	for s.Next() {
		if err := enc.Encode(s.Record()); err != nil {
			return n, fmt.Errorf("encode record: %w", err)
		}
		n++
	}
	return n, s.Err()
}

var (
	colorGray  = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f8fafc")
	colorAlt   = lipgloss.Color("#0f172a")
)

var (
	styleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleTableRow    = lipgloss.NewStyle().Foreground(colorWhite)
	styleTableRowAlt = lipgloss.NewStyle().Foreground(colorWhite).Background(colorAlt)
)

// WriteTable renders the stream as an aligned table. Unlike WriteNDJSON it
// materializes every record before rendering, so it suits the human
// inspection path, not large scans. A mid-stream failure renders nothing.
func WriteTable(w io.Writer, s RecordStream) (int, error) {
	var records []model.Record
	for s.Next() {
		records = append(records, s.Record())
	}
	if err := s.Err(); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	cols := columns(records)

	t := ltable.New().
		Headers(cols...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return styleTableHeader
			}
			if row%2 == 1 {
				return styleTableRowAlt
			}
			return styleTableRow
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	for _, rec := range records {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cellValue(rec[c])
		}
		t = t.Row(cells...)
	}

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return 0, fmt.Errorf("write table: %w", err)
	}
	return len(records), nil
}

// columns returns the union of record keys with _time first and the rest
// sorted, so every record renders into the same column set.
func columns(records []model.Record) []string {
	merged := model.Record{}
	for _, rec := range records {
		for k := range rec {
			merged[k] = nil
		}
	}
	return merged.Keys()
}

// cellValue renders one record value for a table cell. Integral floats, the
// usual shape of decoded JSON numbers, drop their decimal part.
func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
