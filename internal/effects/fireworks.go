package effects

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Fireworks renders a looping burst show. All animations share one timeline
// (dur = the loop length) and each burst occupies its own keyTimes window
// within it, so the whole document repeats cleanly without drift.
func Fireworks(cfg Config, seed int64) []byte {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(seed))

	loop := 8.0 + rng.Float64()*2.0
	bursts := 3 + rng.Intn(3)

	var b strings.Builder
	openSVG(&b, cfg)
	for i := 0; i < bursts; i++ {
		writeBurst(&b, rng, cfg, loop, i, bursts)
	}
	writeTwinkles(&b, rng, cfg)
	b.WriteString("</svg>\n")
	return []byte(b.String())
}

// writeBurst emits one launch trail plus a fan of particles. The trail rises
// from the bottom edge and hands off to the particles at the apex; outside
// its window the whole burst sits at opacity zero.
func writeBurst(b *strings.Builder, rng *rand.Rand, c Config, loop float64, index, total int) {
	w, h := float64(c.Width), float64(c.Height)
	cx := w * (0.15 + rng.Float64()*0.70)
	cy := h * (0.12 + rng.Float64()*0.33)
	radius := (0.10 + rng.Float64()*0.08) * math.Min(w, h)
	color := burstPalette[rng.Intn(len(burstPalette))]

	start := (float64(index) + 0.05 + rng.Float64()*0.15) / float64(total)
	end := start + 0.30 + rng.Float64()*0.10
	if end > 0.98 {
		end = 0.98
	}
	lift := start - 0.08
	if lift < 0 {
		lift = 0
	}

	fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="2" fill="#fff8e7" opacity="0">`, cx, h+8)
	fmt.Fprintf(b, `<animate attributeName="cy" values="%.2f;%.2f;%.2f;%.2f" keyTimes="0;%.3f;%.3f;1" dur="%.2fs" repeatCount="indefinite"/>`,
		h+8, h+8, cy, cy, lift, start, loop)
	fmt.Fprintf(b, `<animate attributeName="opacity" values="0;0;0.85;0.85;0;0" keyTimes="0;%.3f;%.3f;%.3f;%.3f;1" dur="%.2fs" repeatCount="indefinite"/>`,
		lift, lift, start, start, loop)
	b.WriteString("</circle>\n")

	step := 2 * math.Pi / float64(c.Particles)
	for i := 0; i < c.Particles; i++ {
		angle := step*float64(i) + (rng.Float64()-0.5)*step*0.5
		dist := radius * (0.85 + rng.Float64()*0.30)
		dx := math.Cos(angle) * dist
		dy := math.Sin(angle) * dist
		if i%3 == 0 {
			writeRay(b, cx, cy, dx, dy, color, start, end, loop)
			continue
		}
		r := 1.6 + rng.Float64()*1.2
		fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" opacity="0">`, cx, cy, r, color)
		fmt.Fprintf(b, `<animateTransform attributeName="transform" type="translate" values="0 0;0 0;%.2f %.2f;%.2f %.2f" keyTimes="0;%.3f;%.3f;1" dur="%.2fs" repeatCount="indefinite"/>`,
			dx, dy, dx, dy, start, end, loop)
		writeParticleFade(b, start, end, loop)
		b.WriteString("</circle>\n")
	}
}

// writeRay draws a streak that extends from the apex toward its endpoint
// while fading, interleaved between the dot particles.
func writeRay(b *strings.Builder, cx, cy, dx, dy float64, color string, start, end, loop float64) {
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.8" stroke-linecap="round" opacity="0">`,
		cx, cy, cx, cy, color)
	fmt.Fprintf(b, `<animate attributeName="x2" values="%.2f;%.2f;%.2f;%.2f" keyTimes="0;%.3f;%.3f;1" dur="%.2fs" repeatCount="indefinite"/>`,
		cx, cx, cx+dx, cx+dx, start, end, loop)
	fmt.Fprintf(b, `<animate attributeName="y2" values="%.2f;%.2f;%.2f;%.2f" keyTimes="0;%.3f;%.3f;1" dur="%.2fs" repeatCount="indefinite"/>`,
		cy, cy, cy+dy, cy+dy, start, end, loop)
	writeParticleFade(b, start, end, loop)
	b.WriteString("</line>\n")
}

// writeParticleFade snaps opacity to full at the burst instant and fades it
// out across the expansion window.
func writeParticleFade(b *strings.Builder, start, end, loop float64) {
	fmt.Fprintf(b, `<animate attributeName="opacity" values="0;0;1;0;0" keyTimes="0;%.3f;%.3f;%.3f;1" dur="%.2fs" repeatCount="indefinite"/>`,
		start, start, end, loop)
}

// writeTwinkles scatters ambient sparkle dots over the upper sky. Each dot
// runs its own short cycle with a negative begin offset, so they never pulse
// in unison.
func writeTwinkles(b *strings.Builder, rng *rand.Rand, c Config) {
	w, h := float64(c.Width), float64(c.Height)
	for i := 0; i < c.Particles/2; i++ {
		x := rng.Float64() * w
		y := rng.Float64() * h * 0.7
		r := 0.8 + rng.Float64()
		dur := 1.2 + rng.Float64()*1.6
		begin := -rng.Float64() * dur
		fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#fff8e7">`, x, y, r)
		fmt.Fprintf(b, `<animate attributeName="opacity" values="0.1;0.9;0.1" dur="%.2fs" begin="%.2fs" repeatCount="indefinite"/>`, dur, begin)
		b.WriteString("</circle>\n")
	}
}
