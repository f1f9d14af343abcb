// Package calendar maps absolute timestamps onto timezone-local calendar days.
//
// Every same-day comparison in Horizon goes through Day. Raw timestamps are
// never compared for "same day" logic: two instants 23 hours apart can share
// a day, and two instants one minute apart can straddle midnight or a DST
// transition.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimezone is returned by LoadLocation for unknown IANA names.
var ErrInvalidTimezone = errors.New("invalid timezone")

// Day is a local calendar date with no time-of-day component.
// The zero Day is not a valid date; use IsZero to detect it.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayKey returns the calendar day on which t falls in loc.
// A nil loc is treated as UTC.
func DayKey(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// LoadLocation resolves an IANA timezone name. An empty name is rejected
// rather than silently falling back to UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayKey(t, time.UTC), nil
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d == Day{}
}

// AddDays returns the day n calendar days after d (n may be negative).
// The arithmetic is done at UTC noon so it is independent of DST.
func (d Day) AddDays(n int) Day {
	return DayKey(d.noonUTC().AddDate(0, 0, n), time.UTC)
}

// Weekday returns the day of the week for d.
func (d Day) Weekday() time.Weekday {
	return d.noonUTC().Weekday()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to
// or after other.
func (d Day) Compare(other Day) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool { return d.Compare(other) > 0 }

// DaysBetween returns the number of calendar days from a to b.
// It is negative when b is before a.
func DaysBetween(a, b Day) int {
	return int(b.civil() - a.civil())
}

// MarshalText implements encoding.TextMarshaler so Day works as a JSON map key.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Day) noonUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// civil returns the number of days since 1970-01-01 (days_from_civil).
func (d Day) civil() int64 {
	y := int64(d.Year)
	m := int64(d.Month)
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era = (y - 399) / 400
	}
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + int64(d.Day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
