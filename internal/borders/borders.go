// Package borders acquires US state boundary geometry from Census Bureau
// cartographic boundary files and prepares it for SVG rendering: download,
// shapefile parse, disk cache, ring simplification, and projection into a
// composite lower-48 + Alaska/Hawaii inset layout.
package borders

import "math"

// Point is a coordinate pair. Before projection X is longitude and Y is
// latitude; after projection both are canvas pixels.
type Point struct {
	X float64
	Y float64
}

// StateShape is the boundary of one state: one or more closed rings
// (first point == last point). Mainland plus islands.
type StateShape struct {
	Code  string
	Name  string
	FIPS  string
	Rings [][]Point
}

// Centroid returns the area centroid of the shape's largest ring. Used for
// label placement; islands do not pull the label offshore.
func (s StateShape) Centroid() Point {
	ring := s.largestRing()
	if len(ring) == 0 {
		return Point{}
	}

	var a, cx, cy float64
	for i := 0; i < len(ring)-1; i++ {
		cross := ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
		a += cross
		cx += (ring[i].X + ring[i+1].X) * cross
		cy += (ring[i].Y + ring[i+1].Y) * cross
	}
	if a == 0 {
		// Degenerate ring: fall back to the vertex mean.
		var sx, sy float64
		for _, p := range ring {
			sx += p.X
			sy += p.Y
		}
		n := float64(len(ring))
		return Point{X: sx / n, Y: sy / n}
	}
	return Point{X: cx / (3 * a), Y: cy / (3 * a)}
}

func (s StateShape) largestRing() []Point {
	var best []Point
	var bestArea float64
	for _, ring := range s.Rings {
		if a := ringArea(ring); a > bestArea {
			bestArea = a
			best = ring
		}
	}
	if best == nil && len(s.Rings) > 0 {
		best = s.Rings[0]
	}
	return best
}

// ringArea returns the absolute shoelace area of a closed ring.
func ringArea(ring []Point) float64 {
	if len(ring) < 4 {
		return 0
	}
	var sum float64
	for i := 0; i < len(ring)-1; i++ {
		sum += ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
	}
	return math.Abs(sum) / 2
}
