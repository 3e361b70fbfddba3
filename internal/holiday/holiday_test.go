package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holidayNames(hs []Holiday) []string {
	names := make([]string, len(hs))
	for i, h := range hs {
		names[i] = h.Name
	}
	return names
}

func TestWindowFor(t *testing.T) {
	t.Parallel()

	christmas := Holiday{
		Name:   "Christmas",
		Rule:   FixedDate{time.December, 25},
		Window: Window{DaysBefore: 14, DaysAfter: 6},
	}
	start, end := WindowFor(christmas, 2025)
	assert.Equal(t, date(2025, time.December, 11), start)
	assert.Equal(t, date(2025, time.December, 31), end)

	newYear := Holiday{
		Name:   "New Year's Day",
		Rule:   FixedDate{time.January, 1},
		Window: Window{DaysBefore: 6, DaysAfter: 1},
	}
	start, end = WindowFor(newYear, 2026)
	assert.Equal(t, date(2025, time.December, 26), start, "window reaches back into the prior year")
	assert.Equal(t, date(2026, time.January, 2), end)
}

func TestActive(t *testing.T) {
	t.Parallel()

	set := Builtin()

	tests := []struct {
		name string
		on   time.Time
		want []string
	}{
		{"plain summer day", date(2026, time.August, 15), nil},
		{"july 4th window", date(2026, time.July, 2), []string{"Independence Day"}},
		{"valentine window", date(2026, time.February, 12), []string{"Valentine's Day"}},
		{"memorial day has a zero-width window", date(2026, time.May, 25), []string{"Memorial Day"}},
		{"day before memorial day", date(2026, time.May, 24), nil},
		{
			"late december overlap",
			date(2025, time.December, 28),
			[]string{"New Year's Day", "Christmas"},
		},
		{"new year window across boundary", date(2026, time.January, 2), []string{"New Year's Day"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := set.Active(tt.on)
			assert.ElementsMatch(t, tt.want, holidayNames(got))
		})
	}
}

func TestActiveIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	set := Builtin()
	lateEvening := time.Date(2026, time.July, 4, 23, 59, 0, 0, time.FixedZone("MST", -7*3600))
	got := set.Active(lateEvening)
	assert.Contains(t, holidayNames(got), "Independence Day")
}

func TestCurrentEffect(t *testing.T) {
	t.Parallel()

	set := Builtin()

	tests := []struct {
		name string
		on   time.Time
		want EffectKind
	}{
		{"no window active", date(2026, time.August, 15), EffectNone},
		{"july 4th", date(2026, time.July, 4), EffectFireworks},
		{"valentine", date(2026, time.February, 14), EffectHearts},
		{"christmas week", date(2025, time.December, 20), EffectSnow},
		{"dec 28 is nearer christmas than new year", date(2025, time.December, 28), EffectSnow},
		{"dec 31 is nearer new year than christmas", date(2025, time.December, 31), EffectFireworks},
		{"jan 2 still in new year window", date(2026, time.January, 2), EffectFireworks},
		{"jan 3 back to nothing", date(2026, time.January, 3), EffectNone},
		{"memorial day shows nothing", date(2026, time.May, 25), EffectNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, set.CurrentEffect(tt.on))
		})
	}
}

func TestNext(t *testing.T) {
	t.Parallel()

	set := Builtin()

	h, d := set.Next(date(2026, time.January, 2))
	assert.Equal(t, "Valentine's Day", h.Name)
	assert.Equal(t, date(2026, time.February, 14), d)

	h, d = set.Next(date(2026, time.December, 26))
	assert.Equal(t, "New Year's Day", h.Name)
	assert.Equal(t, date(2027, time.January, 1), d, "next wraps into the following year")

	h, d = set.Next(date(2026, time.July, 4))
	assert.Equal(t, "Labor Day", h.Name, "next is strictly after the given date")
	assert.Equal(t, date(2026, time.September, 7), d)
}

func TestNextEmptySet(t *testing.T) {
	t.Parallel()

	set := NewSet()
	h, d := set.Next(date(2026, time.January, 1))
	assert.Empty(t, h.Name)
	assert.True(t, d.IsZero())
}

func TestAddCustom(t *testing.T) {
	t.Parallel()

	set := Builtin()
	set.Add(Holiday{
		Name:   "Festivus",
		Rule:   FixedDate{time.December, 23},
		Window: Window{DaysBefore: 1},
		Effect: EffectSparkle,
	})

	got := set.Active(date(2026, time.December, 22))
	assert.Contains(t, holidayNames(got), "Festivus")
}

func TestParseCustom(t *testing.T) {
	t.Parallel()

	doc := `
holidays:
  - name: Festivus
    rule:
      kind: fixed
      month: 12
      day: 23
    window:
      days_before: 1
    effect: sparkle
  - name: Trail Days
    rule:
      kind: nth_weekday
      month: 6
      weekday: saturday
      n: 2
    window:
      days_before: 0
      days_after: 1
  - name: Good Friday
    rule:
      kind: easter_offset
      days: -2
    effect: none
`
	holidays, err := ParseCustom([]byte(doc))
	require.NoError(t, err)
	require.Len(t, holidays, 3)

	assert.Equal(t, "Festivus", holidays[0].Name)
	assert.Equal(t, date(2026, time.December, 23), DateFor(holidays[0], 2026))
	assert.Equal(t, EffectSparkle, holidays[0].Effect)

	// Second Saturday of June 2026 is the 13th.
	assert.Equal(t, date(2026, time.June, 13), DateFor(holidays[1], 2026))
	assert.Equal(t, EffectSparkle, holidays[1].Effect, "effect defaults to sparkle")

	assert.Equal(t, date(2026, time.April, 3), DateFor(holidays[2], 2026))
	assert.Equal(t, EffectNone, holidays[2].Effect)
}

func TestParseCustomRejectsBadRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "feb 29",
			doc: `
holidays:
  - name: Leap Party
    rule:
      kind: fixed
      month: 2
      day: 29
`,
			wantErr: "day 29 invalid for month 2",
		},
		{
			name: "april 31",
			doc: `
holidays:
  - name: Phantom Day
    rule:
      kind: fixed
      month: 4
      day: 31
`,
			wantErr: "day 31 invalid for month 4",
		},
		{
			name: "month 13",
			doc: `
holidays:
  - name: Undecimber Fest
    rule:
      kind: fixed
      month: 13
      day: 1
`,
			wantErr: "month 13 out of range",
		},
		{
			name: "fifth weekday",
			doc: `
holidays:
  - name: Fifth Friday
    rule:
      kind: nth_weekday
      month: 3
      weekday: friday
      n: 5
`,
			wantErr: "n must be 1..4 or -1",
		},
		{
			name: "bad weekday name",
			doc: `
holidays:
  - name: Someday
    rule:
      kind: nth_weekday
      month: 3
      weekday: caturday
      n: 1
`,
			wantErr: `unknown weekday "caturday"`,
		},
		{
			name: "unknown kind",
			doc: `
holidays:
  - name: Mystery
    rule:
      kind: lunar
`,
			wantErr: `unknown rule kind "lunar"`,
		},
		{
			name: "unknown effect",
			doc: `
holidays:
  - name: Confetti Day
    rule:
      kind: fixed
      month: 5
      day: 5
    effect: confetti
`,
			wantErr: `unknown effect "confetti"`,
		},
		{
			name: "missing name",
			doc: `
holidays:
  - rule:
      kind: fixed
      month: 5
      day: 5
`,
			wantErr: "missing name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCustom([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCustomMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCustom("/nonexistent/holidays.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holiday: read custom file")
}
