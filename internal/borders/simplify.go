package borders

import "math"

// SimplifyShapes thins ring vertices by radial-distance culling at the given
// pixel tolerance and drops islands whose area falls below the floor. Every
// shape keeps at least its largest ring, so small states never vanish.
func SimplifyShapes(shapes []StateShape, tolerance float64) []StateShape {
	if tolerance <= 0 {
		return shapes
	}
	minArea := 8 * tolerance * tolerance

	out := make([]StateShape, len(shapes))
	for i, s := range shapes {
		largest := largestRingIndex(s.Rings)

		kept := make([][]Point, 0, len(s.Rings))
		for idx, ring := range s.Rings {
			if idx != largest && ringArea(ring) < minArea {
				continue
			}
			thin := simplifyRing(ring, tolerance)
			if thin == nil {
				if idx != largest {
					continue
				}
				thin = ring
			}
			kept = append(kept, thin)
		}

		out[i] = StateShape{Code: s.Code, Name: s.Name, FIPS: s.FIPS, Rings: kept}
	}
	return out
}

// simplifyRing keeps the first point, then only points at least tolerance
// away from the last kept point, then the closing point. Returns nil when
// the result degenerates below a closed triangle.
func simplifyRing(ring []Point, tolerance float64) []Point {
	if len(ring) <= 4 {
		return ring
	}

	out := make([]Point, 0, len(ring))
	out = append(out, ring[0])
	last := ring[0]
	for _, p := range ring[1 : len(ring)-1] {
		if math.Hypot(p.X-last.X, p.Y-last.Y) < tolerance {
			continue
		}
		out = append(out, p)
		last = p
	}
	out = append(out, ring[len(ring)-1])

	if len(out) < 4 {
		return nil
	}
	return out
}

func largestRingIndex(rings [][]Point) int {
	best := -1
	var bestArea float64
	for idx, ring := range rings {
		a := ringArea(ring)
		if best == -1 || a > bestArea {
			best = idx
			bestArea = a
		}
	}
	return best
}
