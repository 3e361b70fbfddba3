package holiday

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEaster(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year int
		want time.Time
	}{
		{2024, date(2024, time.March, 31)},
		{2025, date(2025, time.April, 20)},
		{2026, date(2026, time.April, 5)},
		{2027, date(2027, time.March, 28)},
		{2000, date(2000, time.April, 23)},
		// Correction cases in Gauss's algorithm.
		{1981, date(1981, time.April, 19)},
		{1954, date(1954, time.April, 18)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.year), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Easter(tt.year))
		})
	}
}

func TestFixedDate(t *testing.T) {
	t.Parallel()

	r := FixedDate{Month: time.July, Day: 4}
	assert.Equal(t, date(2025, time.July, 4), r.DateIn(2025))
	assert.Equal(t, date(2030, time.July, 4), r.DateIn(2030))
}

func TestNthWeekday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule NthWeekday
		year int
		want time.Time
	}{
		{"thanksgiving 2025", NthWeekday{time.November, time.Thursday, 4}, 2025, date(2025, time.November, 27)},
		{"thanksgiving 2026", NthWeekday{time.November, time.Thursday, 4}, 2026, date(2026, time.November, 26)},
		{"memorial day 2025", NthWeekday{time.May, time.Monday, -1}, 2025, date(2025, time.May, 26)},
		{"memorial day 2026", NthWeekday{time.May, time.Monday, -1}, 2026, date(2026, time.May, 25)},
		{"memorial day 2027 falls on the 31st", NthWeekday{time.May, time.Monday, -1}, 2027, date(2027, time.May, 31)},
		{"labor day 2025", NthWeekday{time.September, time.Monday, 1}, 2025, date(2025, time.September, 1)},
		{"labor day 2026", NthWeekday{time.September, time.Monday, 1}, 2026, date(2026, time.September, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rule.DateIn(tt.year))
		})
	}
}

func TestEasterOffset(t *testing.T) {
	t.Parallel()

	goodFriday := EasterOffset{Days: -2}
	assert.Equal(t, date(2026, time.April, 3), goodFriday.DateIn(2026))

	easterItself := EasterOffset{}
	assert.Equal(t, Easter(2025), easterItself.DateIn(2025))
}
