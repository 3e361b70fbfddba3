// Package choropleth assembles standalone SVG choropleth maps of the US:
// state shapes from internal/borders filled with deterministic textures from
// internal/texture, plus labels, title, and a legend ramp. Identical inputs
// produce byte-identical output.
package choropleth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sworrl/WanderMage-sub002/internal/borders"
	"github.com/sworrl/WanderMage-sub002/internal/texture"
)

const (
	defaultSimplify = 1.5
	titleBand       = 34.0

	paperFill  = "#fbfaf7"
	borderInk  = "#6b675e"
	textInk    = "#3d3a34"
	fontFamily = "Helvetica, Arial, sans-serif"
)

// Renderer draws one choropleth product. Height derives from the projection
// aspect at the configured width.
type Renderer struct {
	Width      float64
	Scale      texture.Scale
	Title      string
	Labels     bool
	SimplifyPx float64
}

// Render projects the geographic shapes, textures each state by its value,
// and returns the SVG document. States missing from values render as
// unvisited; negative values clamp to zero.
func (r Renderer) Render(shapes []borders.StateShape, values map[string]int) ([]byte, error) {
	if len(shapes) == 0 {
		return nil, eris.New("choropleth: no shapes to render")
	}

	tol := r.SimplifyPx
	if tol == 0 {
		tol = defaultSimplify
	}
	prepared, width, mapH, err := borders.Prepare(shapes, r.Width, tol)
	if err != nil {
		return nil, eris.Wrap(err, "choropleth: prepare shapes")
	}

	sort.Slice(prepared, func(i, j int) bool { return prepared[i].Code < prepared[j].Code })

	maxVal := 0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}

	top := 0.0
	if r.Title != "" {
		top = titleBand
	}
	height := mapH + top

	var defs, paths, labels strings.Builder
	for _, s := range prepared {
		v := values[s.Code]
		if v < 0 {
			v = 0
		}
		fill := texture.For(s.Code, v, maxVal, r.Scale)

		ref := fill.Color
		if !fill.Flat {
			ref = "url(#" + fill.ID + ")"
			defs.WriteString(fill.Def)
			defs.WriteString("\n")
		}
		fmt.Fprintf(&paths, "<path d=\"%s\" fill=\"%s\"/>\n", pathData(s.Rings), ref)

		if r.Labels {
			c := s.Centroid()
			fmt.Fprintf(&labels, "<text x=\"%.2f\" y=\"%.2f\">%s</text>\n", c.X, c.Y+4, s.Code)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%.0f\" height=\"%.0f\" viewBox=\"0 0 %.0f %.0f\">\n", width, height, width, height)
	fmt.Fprintf(&b, "<rect width=\"%.0f\" height=\"%.0f\" fill=\"%s\"/>\n", width, height, paperFill)

	if defs.Len() > 0 {
		b.WriteString("<defs>\n")
		b.WriteString(defs.String())
		b.WriteString("</defs>\n")
	}

	if r.Title != "" {
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" font-family=\"%s\" font-size=\"18\" font-weight=\"bold\" fill=\"%s\" text-anchor=\"middle\">%s</text>\n",
			width/2, titleBand-12, fontFamily, textInk, xmlEscape(r.Title))
	}

	fmt.Fprintf(&b, "<g transform=\"translate(0 %.0f)\" stroke=\"%s\" stroke-width=\"0.75\" stroke-linejoin=\"round\">\n", top, borderInk)
	b.WriteString(paths.String())
	b.WriteString("</g>\n")

	if r.Labels {
		fmt.Fprintf(&b, "<g transform=\"translate(0 %.0f)\" font-family=\"%s\" font-size=\"11\" fill=\"%s\" text-anchor=\"middle\">\n", top, fontFamily, textInk)
		b.WriteString(labels.String())
		b.WriteString("</g>\n")
	}

	r.legend(&b, maxVal, width, height)
	b.WriteString("</svg>\n")

	return []byte(b.String()), nil
}

// legend draws a 5-stop ramp in the bottom-right corner, bracketed by the
// zero and maximum values.
func (r Renderer) legend(b *strings.Builder, maxVal int, width, height float64) {
	const (
		swatch = 20.0
		stops  = 5
	)
	x := width - 0.02*width - stops*swatch - 30
	y := height - 34

	fmt.Fprintf(b, "<g font-family=\"%s\" font-size=\"10\" fill=\"%s\">\n", fontFamily, textInk)
	for i, c := range r.Scale.Ramp(stops) {
		fmt.Fprintf(b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"12\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.5\"/>\n",
			x+float64(i)*swatch, y, swatch, c.Hex(), borderInk)
	}
	fmt.Fprintf(b, "<text x=\"%.2f\" y=\"%.2f\" text-anchor=\"end\">0</text>\n", x-5, y+10)
	fmt.Fprintf(b, "<text x=\"%.2f\" y=\"%.2f\">%d</text>\n", x+stops*swatch+5, y+10, maxVal)
	b.WriteString("</g>\n")
}

// pathData renders rings as one SVG path: M/L commands at fixed precision,
// one closed subpath per ring.
func pathData(rings [][]borders.Point) string {
	var d strings.Builder
	for _, ring := range rings {
		if len(ring) < 2 {
			continue
		}
		fmt.Fprintf(&d, "M%.2f %.2f", ring[0].X, ring[0].Y)
		for _, p := range ring[1 : len(ring)-1] {
			fmt.Fprintf(&d, "L%.2f %.2f", p.X, p.Y)
		}
		d.WriteString("Z")
	}
	return d.String()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
