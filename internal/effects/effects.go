// Package effects renders the animated seasonal SVG overlays the dashboard
// shows during holiday windows. Every generator is a pure function of
// (Config, seed): the same inputs produce byte-identical SVG on any platform,
// and all animation runs on SMIL timelines that loop in under twelve seconds.
//
// Output uses viewBox-relative coordinates with no fixed width or height, so
// the overlays scale to whatever container embeds them.
package effects

import (
	"fmt"
	"strings"
	"time"

	"github.com/sworrl/WanderMage-sub002/internal/holiday"
)

const (
	defaultWidth     = 800
	defaultHeight    = 600
	defaultParticles = 24
)

// Config sizes the effect canvas and its particle budget. Zero values fall
// back to the dashboard defaults.
type Config struct {
	Width     int
	Height    int
	Particles int
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.Particles <= 0 {
		c.Particles = defaultParticles
	}
	return c
}

// burstPalette is the festive color set fireworks draw from. Index choice is
// seeded, so a given (cfg, seed) always fires the same colors.
var burstPalette = []string{
	"#ffd166", "#ef476f", "#06d6a0", "#4cc9f0", "#f4845f", "#b388eb",
}

// heartPalette covers the Valentine overlay.
var heartPalette = []string{"#e75480", "#ff9eb5", "#d64161", "#ff6f91"}

// ForKind renders one effect by name. EffectNone and unknown kinds yield nil.
func ForKind(kind holiday.EffectKind, cfg Config, seed int64) []byte {
	switch kind {
	case holiday.EffectFireworks:
		return Fireworks(cfg, seed)
	case holiday.EffectSnow:
		return Snowfall(cfg, seed)
	case holiday.EffectHearts:
		return Hearts(cfg, seed)
	case holiday.EffectSparkle:
		return Sparkle(cfg, seed)
	default:
		return nil
	}
}

// ForDate renders the overlay for whatever holiday window covers date.
// Returns nil when nothing is active, so callers can skip writing a file.
func ForDate(set *holiday.Set, date time.Time, cfg Config, seed int64) []byte {
	return ForKind(set.CurrentEffect(date), cfg, seed)
}

func openSVG(b *strings.Builder, c Config) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, c.Width, c.Height)
	b.WriteByte('\n')
}
