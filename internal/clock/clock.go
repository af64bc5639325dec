// Package clock provides the time source used for every "today" decision and
// the date-only helpers shared by the scheduling and aggregation code.
package clock

import (
	"fmt"
	"time"
)

// DateLayout is the wire and map-key format for date-only values.
const DateLayout = "2006-01-02"

// Clock returns the current instant in the user-facing location.
type Clock interface {
	Now() time.Time
}

// System is the production clock. A nil Location means UTC.
type System struct {
	Location *time.Location
}

// NewSystem returns a clock reporting time in loc.
func NewSystem(loc *time.Location) System {
	return System{Location: loc}
}

func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(s.Location)
}

// Fixed always reports the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time { return f.At }

// DateOf strips the clock reading from t, keeping its calendar date in t's
// own location. The result is midnight UTC so dates compare and subtract
// cleanly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the calendar date of c.Now().
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// LocalDate returns the calendar date an instant falls on in c's location.
func LocalDate(c Clock, t time.Time) time.Time {
	return DateOf(t.In(c.Now().Location()))
}

// StartOfDay returns the first instant of date in c's location.
func StartOfDay(c Clock, date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Now().Location())
}

// EndOfDay returns the last instant of date in c's location.
func EndOfDay(c Clock, date time.Time) time.Time {
	return StartOfDay(c, date).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DaysBetween counts calendar days from a to b. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// ElapsedDays counts whole 24h periods between two instants.
func ElapsedDays(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// Key formats a date for use as a map key or JSON value.
func Key(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a date-only value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
