package holiday

import (
	"time"
)

// EffectKind names the seasonal overlay shown during a holiday window.
type EffectKind string

const (
	EffectNone      EffectKind = "none"
	EffectFireworks EffectKind = "fireworks"
	EffectSnow      EffectKind = "snow"
	EffectHearts    EffectKind = "hearts"
	EffectSparkle   EffectKind = "sparkle"
)

// ValidEffect reports whether s names a known effect.
func ValidEffect(s string) bool {
	switch EffectKind(s) {
	case EffectNone, EffectFireworks, EffectSnow, EffectHearts, EffectSparkle:
		return true
	}
	return false
}

// Window is the span around a holiday's date in which its effect shows.
type Window struct {
	DaysBefore int `yaml:"days_before"`
	DaysAfter  int `yaml:"days_after"`
}

// Holiday couples a date rule with a display window and effect.
type Holiday struct {
	Name   string
	Rule   Rule
	Window Window
	Effect EffectKind
}

// DateFor returns the holiday's date in the given year.
func DateFor(h Holiday, year int) time.Time {
	return h.Rule.DateIn(year)
}

// WindowFor returns the inclusive start and end dates of the holiday's
// display window in the given year. Windows may cross year boundaries (New
// Year's window starts in December).
func WindowFor(h Holiday, year int) (start, end time.Time) {
	d := DateFor(h, year)
	return d.AddDate(0, 0, -h.Window.DaysBefore), d.AddDate(0, 0, h.Window.DaysAfter)
}

// Set is an ordered collection of holidays.
type Set struct {
	holidays []Holiday
}

// NewSet builds a set from the given holidays, preserving order.
func NewSet(holidays ...Holiday) *Set {
	return &Set{holidays: holidays}
}

// Builtin returns the standard US holiday set. Memorial Day and Labor Day
// carry no effect; they exist for trip-season boundaries.
func Builtin() *Set {
	return NewSet(
		Holiday{Name: "New Year's Day", Rule: FixedDate{time.January, 1}, Window: Window{DaysBefore: 6, DaysAfter: 1}, Effect: EffectFireworks},
		Holiday{Name: "Valentine's Day", Rule: FixedDate{time.February, 14}, Window: Window{DaysBefore: 3}, Effect: EffectHearts},
		Holiday{Name: "St. Patrick's Day", Rule: FixedDate{time.March, 17}, Window: Window{DaysBefore: 2}, Effect: EffectSparkle},
		Holiday{Name: "Easter", Rule: EasterOffset{}, Window: Window{DaysBefore: 2, DaysAfter: 1}, Effect: EffectSparkle},
		Holiday{Name: "Memorial Day", Rule: NthWeekday{time.May, time.Monday, -1}, Effect: EffectNone},
		Holiday{Name: "Independence Day", Rule: FixedDate{time.July, 4}, Window: Window{DaysBefore: 3, DaysAfter: 1}, Effect: EffectFireworks},
		Holiday{Name: "Labor Day", Rule: NthWeekday{time.September, time.Monday, 1}, Effect: EffectNone},
		Holiday{Name: "Halloween", Rule: FixedDate{time.October, 31}, Window: Window{DaysBefore: 7}, Effect: EffectSparkle},
		Holiday{Name: "Thanksgiving", Rule: NthWeekday{time.November, time.Thursday, 4}, Window: Window{DaysBefore: 1, DaysAfter: 1}, Effect: EffectSparkle},
		Holiday{Name: "Christmas", Rule: FixedDate{time.December, 25}, Window: Window{DaysBefore: 14, DaysAfter: 6}, Effect: EffectSnow},
	)
}

// Add appends holidays to the set (custom holidays are additive).
func (s *Set) Add(holidays ...Holiday) {
	s.holidays = append(s.holidays, holidays...)
}

// All returns the holidays in set order.
func (s *Set) All() []Holiday {
	out := make([]Holiday, len(s.holidays))
	copy(out, s.holidays)
	return out
}

// occurrence is a holiday window anchored to one concrete date.
type occurrence struct {
	h     Holiday
	date  time.Time
	start time.Time
	end   time.Time
}

// occurrencesAround lists each holiday's occurrence for the years adjacent to
// date, so windows crossing a year boundary match on both sides.
func (s *Set) occurrencesAround(date time.Time) []occurrence {
	var occs []occurrence
	for _, h := range s.holidays {
		for _, year := range []int{date.Year() - 1, date.Year(), date.Year() + 1} {
			d := DateFor(h, year)
			start, end := WindowFor(h, year)
			occs = append(occs, occurrence{h: h, date: d, start: start, end: end})
		}
	}
	return occs
}

// Active returns the holidays whose display window contains date, in set
// order. A holiday appears at most once.
func (s *Set) Active(date time.Time) []Holiday {
	day := dateOnly(date)
	var active []Holiday
	seen := make(map[string]bool)
	for _, occ := range s.occurrencesAround(date) {
		if seen[occ.h.Name] {
			continue
		}
		if !day.Before(occ.start) && !day.After(occ.end) {
			active = append(active, occ.h)
			seen[occ.h.Name] = true
		}
	}
	return active
}

// CurrentEffect returns the effect to display on date. When several windows
// overlap, the holiday whose date is nearest wins; ties go to set order.
// Returns EffectNone when no window is active.
func (s *Set) CurrentEffect(date time.Time) EffectKind {
	day := dateOnly(date)
	best := EffectNone
	bestDist := -1
	for _, occ := range s.occurrencesAround(date) {
		if day.Before(occ.start) || day.After(occ.end) {
			continue
		}
		dist := int(day.Sub(occ.date).Hours() / 24)
		if dist < 0 {
			dist = -dist
		}
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = occ.h.Effect
		}
	}
	return best
}

// Next returns the first holiday strictly after date and its date. The zero
// Holiday is returned only for an empty set.
func (s *Set) Next(date time.Time) (Holiday, time.Time) {
	day := dateOnly(date)
	var bestH Holiday
	var bestDate time.Time
	for _, h := range s.holidays {
		for _, year := range []int{day.Year(), day.Year() + 1} {
			d := DateFor(h, year)
			if !d.After(day) {
				continue
			}
			if bestDate.IsZero() || d.Before(bestDate) {
				bestH, bestDate = h, d
			}
			break
		}
	}
	return bestH, bestDate
}
