// Package timeutil provides calendar-date utilities for streak tracking.
// Streaks are keyed by calendar date in UTC, not wall-clock time.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// StartOfDay returns the start of the day (00:00:00) in UTC.
func StartOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// DaysBetween returns the whole number of calendar days from `from` to `to`.
// Negative when `to` is an earlier date than `from` (clock skew, backdated
// timestamps).
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24)
}

// FormatDate formats a time as a date-only string (YYYY-MM-DD) in UTC.
func FormatDate(t time.Time) string {
	return StartOfDay(t).Format("2006-01-02")
}

// ParseDate parses a date-only string (YYYY-MM-DD) as a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
