package texture

import (
	"fmt"
	"math"
)

// HSL is a hue/saturation/lightness color. H is in degrees [0,360); S and L
// are fractions in [0,1].
type HSL struct {
	H, S, L float64
}

// RGB converts to 8-bit channels.
func (c HSL) RGB() (r, g, b uint8) {
	h := math.Mod(math.Mod(c.H, 360)+360, 360) / 360
	s := clamp01(c.S)
	l := clamp01(c.L)

	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	rf := hueChannel(p, q, h+1.0/3)
	gf := hueChannel(p, q, h)
	bf := hueChannel(p, q, h-1.0/3)
	return uint8(math.Round(rf * 255)), uint8(math.Round(gf * 255)), uint8(math.Round(bf * 255))
}

// Hex renders the color as #rrggbb.
func (c HSL) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hueChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Scale maps a value in [0,max] onto colors at a fixed hue. Low values render
// pale (LightMax), high values deep (LightMin); saturation climbs with value.
type Scale struct {
	Name     string
	Hue      float64
	SatMin   float64
	SatMax   float64
	LightMin float64
	LightMax float64
}

// VisitedGreens colors the states-visited map.
var VisitedGreens = Scale{Name: "greens", Hue: 140, SatMin: 0.25, SatMax: 0.55, LightMin: 0.32, LightMax: 0.82}

// DesertAmbers colors the POI-density map.
var DesertAmbers = Scale{Name: "ambers", Hue: 36, SatMin: 0.35, SatMax: 0.75, LightMin: 0.38, LightMax: 0.85}

// Color returns the scale color for value out of max. Values below zero clamp
// to zero; max below one is treated as one.
func (s Scale) Color(value, max int) HSL {
	if value < 0 {
		value = 0
	}
	if max < 1 {
		max = 1
	}
	t := float64(value) / float64(max)
	if t > 1 {
		t = 1
	}
	return HSL{
		H: s.Hue,
		S: lerp(s.SatMin, s.SatMax, t),
		L: lerp(s.LightMax, s.LightMin, t),
	}
}

// Ramp returns n evenly spaced colors from pale to deep, for legends.
func (s Scale) Ramp(n int) []HSL {
	if n < 2 {
		n = 2
	}
	colors := make([]HSL, n)
	for i := range colors {
		t := float64(i) / float64(n-1)
		colors[i] = HSL{
			H: s.Hue,
			S: lerp(s.SatMin, s.SatMax, t),
			L: lerp(s.LightMax, s.LightMin, t),
		}
	}
	return colors
}
