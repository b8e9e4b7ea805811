package core

import (
	"fmt"
	"time"
)

// DayFormat is the wire and storage format for calendar dates.
const DayFormat = "2006-01-02"

// Day represents a calendar date in league-local time, stored as YYYY-MM-DD.
// It is string-typed so it round-trips through SQL and JSON unchanged.
type Day string

// ParseDay validates and normalizes a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day(t.Format(DayFormat)), nil
}

// DayOf converts a time.Time to a Day.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayFormat))
}

// Today returns the current calendar date.
func Today() Day {
	return DayOf(time.Now())
}

// Time returns midnight of the day. Invalid days yield the zero time.
func (d Day) Time() time.Time {
	t, err := time.Parse(DayFormat, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other. The YYYY-MM-DD
// encoding makes lexicographic order equal to chronological order.
func (d Day) Before(other Day) bool {
	return string(d) < string(other)
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return string(d) > string(other)
}

func (d Day) String() string {
	return string(d)
}

// SeasonTagLen is the number of leading contest-id characters that identify
// the season a contest belongs to.
const SeasonTagLen = 4

// SeasonTagOf extracts the 4-digit season tag from a contest id.
func SeasonTagOf(contestID string) string {
	if len(contestID) < SeasonTagLen {
		return ""
	}
	return contestID[:SeasonTagLen]
}

// SeasonForDay derives the season tag a date falls in: seasons start in the
// autumn, so dates before July belong to the previous year's tag.
func SeasonForDay(d Day) string {
	t := d.Time()
	year := t.Year()
	if t.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%04d", year)
}
