// Package texture generates deterministic procedural SVG fills for the
// choropleth maps. Every state's pattern is a pure function of (state code,
// value, scale): the seed derives from code and value, so re-rendering the
// same data yields byte-identical output on any platform.
package texture

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"
)

// Kind names a pattern generator.
type Kind string

const (
	Crosshatch  Kind = "crosshatch"
	Houndstooth Kind = "houndstooth"
	Scatter     Kind = "scatter"
	Stipple     Kind = "stipple"
)

var kinds = []Kind{Crosshatch, Houndstooth, Scatter, Stipple}

// UnvisitedFill is the flat color for zero-value states.
const UnvisitedFill = "#ece7df"

// Seed derives the PRNG seed for a state/value pair with FNV-1a.
func Seed(stateCode string, value int) int64 {
	h := fnv.New64a()
	h.Write([]byte(stateCode))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(value)))
	return int64(h.Sum64())
}

// Fill describes how one state is painted. Flat fills have no pattern; the
// rest reference Def (a <pattern> element) by ID.
type Fill struct {
	Flat  bool
	Color string // base hex color (the flat fill itself when Flat)
	ID    string
	Def   string
}

// For builds the fill for a state. Value 0 (or below) is the flat unvisited
// fill; anything higher gets the scale color under one or two seeded texture
// layers. Values above max saturate the scale.
func For(stateCode string, value, max int, scale Scale) Fill {
	if value <= 0 {
		return Fill{Flat: true, Color: UnvisitedFill}
	}
	if max < 1 {
		max = 1
	}

	rng := rand.New(rand.NewSource(Seed(stateCode, value)))

	t := float64(value) / float64(max)
	if t > 1 {
		t = 1
	}

	base := scale.Color(value, max)
	accent := HSL{
		H: base.H + rng.Float64()*16 - 8,
		S: clamp01(base.S + 0.15),
		L: clamp01(base.L - 0.18 - rng.Float64()*0.12),
	}

	primary := kinds[rng.Intn(len(kinds))]
	angle := rng.Float64()*16 - 8
	if primary == Crosshatch {
		angle += 45
	}

	layers := renderLayer(primary, rng, t, accent.Hex(), 0.35+rng.Float64()*0.30)

	// A second, quieter layer on roughly half of all states.
	if rng.Float64() < 0.5 {
		secondary := kinds[(indexOf(primary)+1+rng.Intn(len(kinds)-1))%len(kinds)]
		soft := HSL{H: base.H, S: clamp01(base.S + 0.05), L: clamp01(base.L + 0.10)}
		layers += renderLayer(secondary, rng, t*0.7, soft.Hex(), 0.15+rng.Float64()*0.15)
	}

	id := "tex-" + strings.ToLower(stateCode)

	var b strings.Builder
	fmt.Fprintf(&b, `<pattern id="%s" width="%d" height="%d" patternUnits="userSpaceOnUse" patternTransform="rotate(%.2f)">`,
		id, int(tile), int(tile), angle)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, int(tile), int(tile), base.Hex())
	b.WriteString(layers)
	b.WriteString(`</pattern>`)

	return Fill{Color: base.Hex(), ID: id, Def: b.String()}
}

func renderLayer(kind Kind, rng *rand.Rand, t float64, color string, opacity float64) string {
	switch kind {
	case Crosshatch:
		return crosshatchLayer(rng, t, color, opacity)
	case Houndstooth:
		return houndstoothLayer(rng, t, color, opacity)
	case Scatter:
		return scatterLayer(rng, t, color, opacity)
	default:
		return stippleLayer(rng, t, color, opacity)
	}
}

func indexOf(k Kind) int {
	for i, kind := range kinds {
		if kind == k {
			return i
		}
	}
	return 0
}
