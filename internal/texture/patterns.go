package texture

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Pattern tile edge in user units. Generators keep their geometry inside one
// tile so the pattern repeats cleanly.
const tile = 24.0

// crosshatchLayer draws two perpendicular line families. The caller rotates
// the whole pattern (45° plus jitter) to slant them.
func crosshatchLayer(rng *rand.Rand, t float64, stroke string, opacity float64) string {
	spacing := lerp(8, 3, t)
	width := 0.8 + rng.Float64()*0.6

	var b strings.Builder
	b.WriteString(`<path d="`)
	for x := 0.0; x < tile; x += spacing {
		fmt.Fprintf(&b, "M%.2f 0V%.2f", x, tile)
	}
	for y := 0.0; y < tile; y += spacing {
		fmt.Fprintf(&b, "M0 %.2fH%.2f", y, tile)
	}
	fmt.Fprintf(&b, `" stroke="%s" stroke-width="%.2f" opacity="%.2f" fill="none"/>`, stroke, width, opacity)
	return b.String()
}

// houndstoothLayer tessellates check squares with tooth triangles. Cell sizes
// divide the tile so blocks never straddle the seam.
func houndstoothLayer(rng *rand.Rand, t float64, fill string, opacity float64) string {
	var cell float64
	switch {
	case t < 0.34:
		cell = 12
	case t < 0.67:
		cell = 6
	default:
		cell = 4
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<g fill="%s" opacity="%.2f">`, fill, opacity)
	for y := 0.0; y < tile; y += cell * 2 {
		for x := 0.0; x < tile; x += cell * 2 {
			fmt.Fprintf(&b, `<path d="M%.2f %.2fh%.2fv%.2fh-%.2fZ"/>`, x, y, cell, cell, cell)
			fmt.Fprintf(&b, `<path d="M%.2f %.2fh%.2fv%.2fh-%.2fZ"/>`, x+cell, y+cell, cell, cell, cell)
			fmt.Fprintf(&b, `<path d="M%.2f %.2fL%.2f %.2fL%.2f %.2fZ"/>`, x+cell, y, x+cell*2, y, x+cell, y+cell)
			fmt.Fprintf(&b, `<path d="M%.2f %.2fL%.2f %.2fL%.2f %.2fZ"/>`, x, y+cell, x+cell, y+cell*2, x, y+cell*2)
		}
	}
	b.WriteString(`</g>`)
	return b.String()
}

// scatterLayer places dots uniformly with radius jitter.
func scatterLayer(rng *rand.Rand, t float64, fill string, opacity float64) string {
	count := int(math.Round(lerp(8, 22, t)))

	var b strings.Builder
	fmt.Fprintf(&b, `<g fill="%s" opacity="%.2f">`, fill, opacity)
	for i := 0; i < count; i++ {
		x := rng.Float64() * tile
		y := rng.Float64() * tile
		r := 1.1 + rng.Float64()*0.9
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f"/>`, x, y, r)
	}
	b.WriteString(`</g>`)
	return b.String()
}

// stippleLayer is scatter's denser, finer sibling.
func stippleLayer(rng *rand.Rand, t float64, fill string, opacity float64) string {
	count := int(math.Round(lerp(26, 54, t)))

	var b strings.Builder
	fmt.Fprintf(&b, `<g fill="%s" opacity="%.2f">`, fill, opacity)
	for i := 0; i < count; i++ {
		x := rng.Float64() * tile
		y := rng.Float64() * tile
		r := 0.4 + rng.Float64()*0.5
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f"/>`, x, y, r)
	}
	b.WriteString(`</g>`)
	return b.String()
}
