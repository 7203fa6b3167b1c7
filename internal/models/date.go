package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in record files.
const DateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a calendar date from the first len(DateLayout) characters
// of s, so values stored with a time-of-day suffix remain readable.
func ParseDate(s string) (time.Time, error) {
	if len(s) < len(DateLayout) {
		return time.Time{}, fmt.Errorf("date %q too short", s)
	}
	return time.Parse(DateLayout, s[:len(DateLayout)])
}
