package model

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for calendar dates. Time-of-day is never
// part of a booking date.
const dateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. A Date produced by ParseDate
// or DateOf is always normalized, so ordering comparisons are plain string
// comparisons.
type Date string

// ParseDate validates and normalizes a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(t.Format(dateLayout)), nil
}

// DateOf truncates a point in time to its calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return string(d) > string(other)
}

func (d Date) String() string {
	return string(d)
}
