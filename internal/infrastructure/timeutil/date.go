package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// localDateTimeLayouts are tried in order by ParseLocalDateTime.
var localDateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatShortDate formats a time as "Mon 10 Nov" for table headers.
func FormatShortDate(t time.Time) string {
	return t.Format("Mon 02 Jan")
}

// ParseLocalDateTime parses an airport-local timestamp. Values without an
// offset are read as UTC wall-clock time, which keeps the hour of day intact.
func ParseLocalDateTime(s string) (time.Time, error) {
	for _, layout := range localDateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime %q", s)
}

// DurationUntil returns how long from now until t, or zero when t has passed.
func DurationUntil(now, t time.Time) time.Duration {
	if d := t.Sub(now); d > 0 {
		return d
	}
	return 0
}
