// Package holiday implements the calendar rules that drive seasonal effects:
// fixed dates, nth-weekday-of-month dates, and Easter-relative dates, each
// with a display window around the computed day.
package holiday

import "time"

// Rule computes a holiday's date for a given year. Dates are civil-calendar,
// date-only values pinned to UTC midnight; time zones play no part.
type Rule interface {
	DateIn(year int) time.Time
}

// FixedDate is a holiday on the same month/day every year.
type FixedDate struct {
	Month time.Month
	Day   int
}

func (r FixedDate) DateIn(year int) time.Time {
	return time.Date(year, r.Month, r.Day, 0, 0, 0, 0, time.UTC)
}

// NthWeekday is a holiday like "4th Thursday of November". N is 1..4, or -1
// for the last such weekday in the month.
type NthWeekday struct {
	Month   time.Month
	Weekday time.Weekday
	N       int
}

func (r NthWeekday) DateIn(year int) time.Time {
	if r.N == -1 {
		// Walk back from the last day of the month.
		d := time.Date(year, r.Month+1, 0, 0, 0, 0, 0, time.UTC)
		for d.Weekday() != r.Weekday {
			d = d.AddDate(0, 0, -1)
		}
		return d
	}
	d := time.Date(year, r.Month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != r.Weekday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(r.N-1))
}

// EasterOffset is a holiday a fixed number of days from Easter Sunday.
// Days 0 is Easter itself; negative is before (Good Friday is -2).
type EasterOffset struct {
	Days int
}

func (r EasterOffset) DateIn(year int) time.Time {
	return Easter(year).AddDate(0, 0, r.Days)
}

// Easter returns Western (Gregorian) Easter Sunday, computed with Gauss's
// algorithm including both boundary corrections.
func Easter(year int) time.Time {
	a := year % 19
	b := year % 4
	c := year % 7
	k := year / 100
	p := (13 + 8*k) / 25
	q := k / 4
	m := (15 - p + k - q) % 30
	n := (4 + k - q) % 7
	d := (19*a + m) % 30
	e := (2*b + 4*c + 6*d + n) % 7

	if d == 29 && e == 6 {
		return time.Date(year, time.April, 19, 0, 0, 0, 0, time.UTC)
	}
	if d == 28 && e == 6 && (11*m+11)%30 < 19 {
		return time.Date(year, time.April, 18, 0, 0, 0, 0, time.UTC)
	}

	day := 22 + d + e
	if day > 31 {
		return time.Date(year, time.April, day-31, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, time.March, day, 0, 0, 0, 0, time.UTC)
}

// dateOnly truncates t to its civil date at UTC midnight.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
