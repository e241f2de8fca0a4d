// Package timeexpr resolves relative and absolute time expressions into
// epoch seconds.
package timeexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// unitSeconds maps relative-expression unit letters to seconds.
// Months count as 30 days, years as 360 days.
var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"M": 2592000,
	"y": 31104000,
}

var (
	reEpoch      = regexp.MustCompile(`^\d+$`)
	reRelative   = regexp.MustCompile(`^now-(\d+)([a-zA-Z])$`)
	reDate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reDateHour   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}$`)
	reDateMinute = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)
	reDateSecond = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)
)

// Resolve converts a time expression into absolute epoch seconds. Exactly one
// form must match, tested in this order:
//
//   - a bare integer: already-resolved epoch seconds, passed through unchanged
//   - the literal "now": the anchor instant
//   - "now-<n><unit>": the anchor minus n×unit seconds (units s m h d M y)
//   - "2006-01-02", "2006-01-02T15", "2006-01-02T15:04", "2006-01-02T15:04:05":
//     interpreted in the local time zone
//
// The anchor is the instant relative expressions are measured from: wall-clock
// now when resolving an upper bound, or the already-resolved upper bound when
// resolving a lower bound against it.
func Resolve(expr string, anchor time.Time) (int64, error) {
	switch {
	case reEpoch.MatchString(expr):
		v, err := strconv.ParseInt(expr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("epoch value %q: %w", expr, err)
		}
		return v, nil

	case expr == "now":
		return anchor.Unix(), nil

	case reRelative.MatchString(expr):
		m := reRelative.FindStringSubmatch(expr)
		multi, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("relative multiplier in %q: %w", expr, err)
		}
		unit, ok := unitSeconds[m[2]]
		if !ok {
			return 0, fmt.Errorf("unknown time unit %q in %q", m[2], expr)
		}
		return anchor.Unix() - multi*unit, nil

	case reDate.MatchString(expr):
		return parseLocal("2006-01-02", expr)
	case reDateHour.MatchString(expr):
		return parseLocal("2006-01-02T15", expr)
	case reDateMinute.MatchString(expr):
		return parseLocal("2006-01-02T15:04", expr)
	case reDateSecond.MatchString(expr):
		return parseLocal("2006-01-02T15:04:05", expr)
	}

	return 0, fmt.Errorf("unrecognized time expression %q", expr)
}

func parseLocal(layout, expr string) (int64, error) {
	t, err := time.ParseInLocation(layout, expr, time.Local)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %w", expr, err)
	}
	return t.Unix(), nil
}
