package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// WeekBounds returns the Sunday..Saturday window containing t. Used as the
// default reporting range when a session is opened without explicit dates.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	t = t.In(time.Local)
	start := t.AddDate(0, 0, -int(t.Weekday()))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 0, 6)
}
