package borders

import (
	"math"

	"github.com/rotisserie/eris"
)

// Rect is a placement box in canvas coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Layout projects geographic shapes onto a canvas: the lower 48 fill the
// width under an equirectangular projection with cos(lat0) aspect
// correction, and Alaska and Hawaii are rescaled into insets along a band
// below the map.
type Layout struct {
	Width  float64
	Height float64

	lower48 transform
	insets  map[string]transform
}

// transform maps lon/lat to canvas pixels with a fixed scale and offset.
type transform struct {
	minLon  float64
	maxLat  float64
	cosLat  float64
	scale   float64
	offX    float64
	offY    float64
	foldLon bool
}

func (t transform) apply(p Point) Point {
	lon := p.X
	if t.foldLon && lon > 0 {
		// Aleutian islands east of the antimeridian fold to the west.
		lon -= 360
	}
	return Point{
		X: t.offX + (lon-t.minLon)*t.cosLat*t.scale,
		Y: t.offY + (t.maxLat-p.Y)*t.scale,
	}
}

type bounds struct {
	minLon, minLat, maxLon, maxLat float64
}

// NewLayout computes the composite layout for the given geographic shapes
// at the target pixel width. Alaska and Hawaii may be absent; their insets
// are simply skipped.
func NewLayout(shapes []StateShape, width float64) (*Layout, error) {
	if len(shapes) == 0 {
		return nil, eris.New("borders: no shapes to lay out")
	}
	if width <= 0 {
		width = 960
	}

	var lower48, alaska, hawaii []StateShape
	for _, s := range shapes {
		switch s.Code {
		case "AK":
			alaska = append(alaska, s)
		case "HI":
			hawaii = append(hawaii, s)
		default:
			lower48 = append(lower48, s)
		}
	}
	if len(lower48) == 0 {
		return nil, eris.New("borders: no continental shapes")
	}

	b := geoBounds(lower48, false)
	cosLat0 := math.Cos((b.minLat + b.maxLat) / 2 * math.Pi / 180)

	pad := 0.02 * width
	innerW := width - 2*pad
	scale := innerW / ((b.maxLon - b.minLon) * cosLat0)
	h48 := (b.maxLat - b.minLat) * scale
	band := 0.26 * h48

	l := &Layout{
		Width:  width,
		Height: 2*pad + h48 + band,
		lower48: transform{
			minLon: b.minLon,
			maxLat: b.maxLat,
			cosLat: cosLat0,
			scale:  scale,
			offX:   pad,
			offY:   pad,
		},
		insets: make(map[string]transform, 2),
	}

	if len(alaska) > 0 {
		box := Rect{X: pad, Y: pad + h48, W: 0.34 * innerW, H: band}
		l.insets["AK"] = fitBox(alaska, box, true)
	}
	if len(hawaii) > 0 {
		box := Rect{X: pad + 0.40*innerW, Y: pad + h48 + 0.12*band, W: 0.16 * innerW, H: 0.76 * band}
		l.insets["HI"] = fitBox(hawaii, box, false)
	}
	return l, nil
}

// Project maps a geographic shape into canvas coordinates.
func (l *Layout) Project(s StateShape) StateShape {
	t := l.lower48
	if it, ok := l.insets[s.Code]; ok {
		t = it
	}

	out := StateShape{Code: s.Code, Name: s.Name, FIPS: s.FIPS}
	out.Rings = make([][]Point, len(s.Rings))
	for i, ring := range s.Rings {
		proj := make([]Point, len(ring))
		for j, p := range ring {
			proj[j] = t.apply(p)
		}
		out.Rings[i] = proj
	}
	return out
}

// ProjectAll maps every shape into canvas coordinates.
func (l *Layout) ProjectAll(shapes []StateShape) []StateShape {
	out := make([]StateShape, len(shapes))
	for i, s := range shapes {
		out[i] = l.Project(s)
	}
	return out
}

// fitBox scales a shape group to fit inside box, centered, preserving the
// cos-corrected aspect ratio.
func fitBox(shapes []StateShape, box Rect, fold bool) transform {
	b := geoBounds(shapes, fold)
	cosLat0 := math.Cos((b.minLat + b.maxLat) / 2 * math.Pi / 180)

	w := (b.maxLon - b.minLon) * cosLat0
	h := b.maxLat - b.minLat
	scale := math.Min(box.W/w, box.H/h)

	return transform{
		minLon:  b.minLon,
		maxLat:  b.maxLat,
		cosLat:  cosLat0,
		scale:   scale,
		offX:    box.X + (box.W-w*scale)/2,
		offY:    box.Y + (box.H-h*scale)/2,
		foldLon: fold,
	}
}

func geoBounds(shapes []StateShape, fold bool) bounds {
	b := bounds{
		minLon: math.Inf(1), minLat: math.Inf(1),
		maxLon: math.Inf(-1), maxLat: math.Inf(-1),
	}
	for _, s := range shapes {
		for _, ring := range s.Rings {
			for _, p := range ring {
				lon := p.X
				if fold && lon > 0 {
					lon -= 360
				}
				b.minLon = math.Min(b.minLon, lon)
				b.maxLon = math.Max(b.maxLon, lon)
				b.minLat = math.Min(b.minLat, p.Y)
				b.maxLat = math.Max(b.maxLat, p.Y)
			}
		}
	}
	return b
}
