package effects

import (
	"fmt"
	"math/rand"
	"strings"
)

// Sparkle scatters faint four-point stars that twinkle out of phase. Peak
// opacity stays below 0.7 so the overlay reads as a shimmer, not a show.
func Sparkle(cfg Config, seed int64) []byte {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(seed))
	w, h := float64(cfg.Width), float64(cfg.Height)

	var b strings.Builder
	openSVG(&b, cfg)
	for i := 0; i < cfg.Particles; i++ {
		x := rng.Float64() * w
		y := rng.Float64() * h
		s := 2.0 + rng.Float64()*3.0
		dur := 1.4 + rng.Float64()*1.8
		begin := -rng.Float64() * dur
		peak := 0.35 + rng.Float64()*0.35

		dot := i%4 == 0
		if dot {
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#fffbe8">`, x, y, s*0.4)
		} else {
			fmt.Fprintf(&b, `<path d="%s" fill="#fffbe8">`, starPath(x, y, s))
		}
		fmt.Fprintf(&b, `<animate attributeName="opacity" values="0.05;%.2f;0.05" dur="%.2fs" begin="%.2fs" repeatCount="indefinite"/>`,
			peak, dur, begin)
		if dot {
			b.WriteString("</circle>\n")
		} else {
			b.WriteString("</path>\n")
		}
	}
	b.WriteString("</svg>\n")
	return []byte(b.String())
}

// starPath draws a four-point star (a pinched diamond) around (x, y) with
// tip radius s.
func starPath(x, y, s float64) string {
	p := s * 0.28
	return fmt.Sprintf("M%.2f %.2fL%.2f %.2fL%.2f %.2fL%.2f %.2fL%.2f %.2fL%.2f %.2fL%.2f %.2fL%.2f %.2fZ",
		x, y-s, x+p, y-p, x+s, y, x+p, y+p, x, y+s, x-p, y+p, x-s, y, x-p, y-p)
}
