package effects

import (
	"fmt"
	"math/rand"
	"strings"
)

// Hearts floats rising hearts with a side-to-side sway. Each heart climbs
// from below the frame to above it on its own cycle, fading in near the
// bottom and out near the top.
func Hearts(cfg Config, seed int64) []byte {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(seed))
	w, h := float64(cfg.Width), float64(cfg.Height)

	var b strings.Builder
	openSVG(&b, cfg)
	for i := 0; i < cfg.Particles; i++ {
		x := w * (0.05 + rng.Float64()*0.90)
		k := 0.9 + rng.Float64()*1.3
		rise := 7.0 + rng.Float64()*4.0
		sway := 6.0 + rng.Float64()*14.0
		begin := -rng.Float64() * rise
		color := heartPalette[rng.Intn(len(heartPalette))]

		fmt.Fprintf(&b, `<path d="%s" fill="%s" opacity="0">`, heartPath(k), color)
		fmt.Fprintf(&b, `<animateTransform attributeName="transform" type="translate" values="%.2f %.2f;%.2f %.2f;%.2f %.2f;%.2f %.2f;%.2f %.2f" dur="%.2fs" begin="%.2fs" repeatCount="indefinite"/>`,
			x, h+12, x+sway, h*0.72, x-sway, h*0.45, x+sway, h*0.20, x, -16.0, rise, begin)
		fmt.Fprintf(&b, `<animate attributeName="opacity" values="0;0.9;0.9;0" keyTimes="0;0.12;0.75;1" dur="%.2fs" begin="%.2fs" repeatCount="indefinite"/>`,
			rise, begin)
		b.WriteString("</path>\n")
	}
	b.WriteString("</svg>\n")
	return []byte(b.String())
}

// heartPath traces a two-lobed heart centered near the origin, half-width 4k,
// tip pointing down. Callers position it with a translate animation.
func heartPath(k float64) string {
	return fmt.Sprintf("M0 %.2fC0 %.2f %.2f 0 %.2f %.2fC%.2f %.2f %.2f %.2f 0 %.2fC%.2f %.2f %.2f %.2f %.2f %.2fC%.2f 0 0 %.2f 0 %.2fZ",
		4*k,
		4*k, -4*k, -4*k, -2*k,
		-4*k, -4*k, -2*k, -4*k, -2*k,
		2*k, -4*k, 4*k, -4*k, 4*k, -2*k,
		4*k, 4*k, 4*k)
}
