package sqlite

import (
	"time"
)

// TimeLayout is a fixed-width UTC layout. Every stored value has the same
// length, so comparing the text in SQL orders timestamps chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimeForDB formats a time.Time value in UTC for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FormatTimePtrForDB formats a *time.Time value, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// ParseTimeFromDB parses a stored timestamp. RFC3339 values written by
// other tools are accepted too.
func ParseTimeFromDB(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
