// internal/pkg/clock/clock.go
package clock

import "time"

// Clock abstracts "now" so calendar rules can be tested.
type Clock interface {
	Now() time.Time
}

type system struct{ loc *time.Location }

// System returns the wall clock in loc (local time when nil).
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return system{loc: loc}
}

func (s system) Now() time.Time { return time.Now().In(s.loc) }

// Fixed is a Clock frozen at T.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }

// StartOfDay is 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is 23:59:59.999 of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// AddDays returns the calendar date n days after t, at start of day.
func AddDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, n)
}

// Date drops the clock part of t, keeping its calendar day as UTC midnight.
// Date-only columns are stored this way.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayIn places the calendar day of a date-only value into loc.
func DayIn(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
