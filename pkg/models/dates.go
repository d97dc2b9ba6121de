package models

import (
	"strings"
	"time"
)

// DayLayout is the ISO calendar-day key used by every store.
const DayLayout = "2006-01-02"

// ParseDay parses "YYYY-MM-DD" (or an ISO datetime, whose date part is kept) to UTC midnight.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return t, nil
}

// NormalizeDay returns the canonical key for s, or "" when s is malformed.
func NormalizeDay(s string) string {
	t, err := ParseDay(s)
	if err != nil {
		return ""
	}
	return FormatDay(t)
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// DayOf drops the time of day, keeping the calendar date as seen in t's location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns whole days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}

func AddDays(t time.Time, n int) time.Time {
	return DayOf(t).AddDate(0, 0, n)
}
