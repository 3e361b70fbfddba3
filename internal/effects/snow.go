package effects

import (
	"fmt"
	"math/rand"
	"strings"
)

// Snowfall renders drifting flakes over the full frame plus a shallow
// accumulation bank along the bottom edge. Fall is linear top to bottom;
// a slower sway cycle moves each flake side to side while it drops.
func Snowfall(cfg Config, seed int64) []byte {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(seed))
	w, h := float64(cfg.Width), float64(cfg.Height)

	var b strings.Builder
	openSVG(&b, cfg)
	for i := 0; i < cfg.Particles*2; i++ {
		x := rng.Float64() * w
		r := 1.2 + rng.Float64()*2.2
		fall := 6.0 + rng.Float64()*5.0
		drift := 8.0 + rng.Float64()*18.0
		sway := 2.0 + rng.Float64()*2.5
		begin := -rng.Float64() * fall
		opacity := 0.55 + rng.Float64()*0.40

		fmt.Fprintf(&b, `<circle cx="%.2f" cy="-6" r="%.2f" fill="#ffffff" opacity="%.2f">`, x, r, opacity)
		fmt.Fprintf(&b, `<animate attributeName="cy" values="-6;%.2f" dur="%.2fs" begin="%.2fs" repeatCount="indefinite"/>`,
			h+6, fall, begin)
		fmt.Fprintf(&b, `<animate attributeName="cx" values="%.2f;%.2f;%.2f;%.2f;%.2f" dur="%.2fs" begin="%.2fs" repeatCount="indefinite"/>`,
			x, x+drift, x, x-drift, x, sway, begin)
		b.WriteString("</circle>\n")
	}
	fmt.Fprintf(&b, `<rect x="0" y="%.2f" width="%.2f" height="7" rx="3.5" fill="#ffffff" opacity="0.85"/>`, h-7, w)
	b.WriteString("\n</svg>\n")
	return []byte(b.String())
}
