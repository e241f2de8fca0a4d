package format

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunotm/elasticsplunk/internal/model"
)

// sliceStream implements RecordStream over a fixed record slice, optionally
// failing after the last record.
type sliceStream struct {
	records []model.Record
	pos     int
	err     error
}

func (s *sliceStream) Next() bool {
	if s.pos >= len(s.records) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceStream) Record() model.Record { return s.records[s.pos-1] }
func (s *sliceStream) Err() error           { return s.err }

func TestWriteNDJSON(t *testing.T) {
	stream := &sliceStream{records: []model.Record{
		{"_time": float64(1000), "user": "a"},
		{"_time": float64(1001), "user": "b", "level": "error"},
	}}

	var buf bytes.Buffer
	n, err := WriteNDJSON(&buf, stream)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]any
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		lines = append(lines, rec)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, float64(1000), lines[0]["_time"])
	assert.Equal(t, "a", lines[0]["user"])
	assert.Equal(t, "error", lines[1]["level"])
}

func TestWriteNDJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteNDJSON(&buf, &sliceStream{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Zero(t, buf.Len())
}

func TestWriteNDJSON_StreamErrorAfterRecords(t *testing.T) {
	streamErr := errors.New("cursor lost")
	stream := &sliceStream{
		records: []model.Record{{"_time": float64(1000)}},
		err:     streamErr,
	}

	var buf bytes.Buffer
	n, err := WriteNDJSON(&buf, stream)
	assert.ErrorIs(t, err, streamErr)
	// The record yielded before the failure stays written.
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), `"_time":1000`)
}

func TestWriteTable(t *testing.T) {
	stream := &sliceStream{records: []model.Record{
		{"_time": float64(1000), "user": "alice", "level": "warn"},
		{"_time": float64(1001), "user": "bob"},
	}}

	var buf bytes.Buffer
	n, err := WriteTable(&buf, stream)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.Contains(t, out, "_time")
	assert.Contains(t, out, "level")
	assert.Contains(t, out, "user")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "1001")
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteTable(&buf, &sliceStream{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Zero(t, buf.Len())
}

func TestWriteTable_StreamError(t *testing.T) {
	streamErr := errors.New("cursor lost")
	stream := &sliceStream{
		records: []model.Record{{"_time": float64(1000)}},
		err:     streamErr,
	}

	var buf bytes.Buffer
	n, err := WriteTable(&buf, stream)
	assert.ErrorIs(t, err, streamErr)
	assert.Equal(t, 0, n)
	assert.Zero(t, buf.Len())
}

func TestColumns(t *testing.T) {
	cols := columns([]model.Record{
		{"_time": 1, "user": "a"},
		{"level": "error", "_time": 2},
		{"agent": "curl"},
	})
	assert.Equal(t, []string{"_time", "agent", "level", "user"}, cols)
}

func TestColumns_NoTimeField(t *testing.T) {
	cols := columns([]model.Record{{"b": 1, "a": 2}})
	assert.Equal(t, []string{"a", "b"}, cols)
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"integral_float", float64(1718445600), "1718445600"},
		{"fractional_float", 10.5, "10.5"},
		{"int64", int64(-42), "-42"},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"negative_integral_float", float64(-3), "-3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cellValue(tc.input))
		})
	}
}
