package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	d, err := parseDay("2026-07-04")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.July, d.Month())
	assert.Equal(t, 4, d.Day())
}

func TestParseDay_Invalid(t *testing.T) {
	for _, s := range []string{"07/04/2026", "2026-7-4", "tomorrow"} {
		_, err := parseDay(s)
		require.Error(t, err, s)
		assert.Contains(t, err.Error(), "YYYY-MM-DD")
	}
}

func TestDateSeed(t *testing.T) {
	d := time.Date(2026, time.August, 25, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, int64(20260825), dateSeed(d))

	// Clock time never changes the seed.
	assert.Equal(t, dateSeed(d), dateSeed(d.Add(-23*time.Hour)))
}

func TestEffectsRenderCommand_Flags(t *testing.T) {
	for _, name := range []string{"kind", "date", "out", "seed"} {
		assert.NotNil(t, effectsRenderCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "effect.svg", effectsRenderCmd.Flags().Lookup("out").DefValue)
}
