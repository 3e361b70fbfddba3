package geo

import (
	"math"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

const (
	earthRadiusMiles = 3958.8
	milesPerDegree   = earthRadiusMiles * math.Pi / 180
	rad              = math.Pi / 180
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceMiles returns the great-circle distance between two points
// (haversine formula).
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// SegmentDistanceMiles returns the distance from p to the segment ab,
// computed on a flat projection centered at the segment's mean latitude.
// The error stays well under a percent at trip-corridor scales.
func SegmentDistanceMiles(p, a, b Point) float64 {
	mx := milesPerDegree * math.Cos((a.Lat+b.Lat)/2*rad)
	ax, ay := a.Lon*mx, a.Lat*milesPerDegree
	bx, by := b.Lon*mx, b.Lat*milesPerDegree
	px, py := p.Lon*mx, p.Lat*milesPerDegree

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// RouteDistanceMiles returns the distance from p to the nearest leg of a
// route. A single waypoint degenerates to point distance; an empty route is
// infinitely far away.
func RouteDistanceMiles(p Point, route []Point) float64 {
	switch len(route) {
	case 0:
		return math.Inf(1)
	case 1:
		return DistanceMiles(p.Lat, p.Lon, route[0].Lat, route[0].Lon)
	}
	best := math.Inf(1)
	for i := 0; i+1 < len(route); i++ {
		if d := SegmentDistanceMiles(p, route[i], route[i+1]); d < best {
			best = d
		}
	}
	return best
}

// Window returns a bounding box spanning radiusMiles around a point, for use
// as a cheap SQL prefilter before exact distance checks. Latitude clamps at
// the poles; near them the longitude span opens to the full circle.
func Window(lat, lon, radiusMiles float64) model.BBox {
	dLat := radiusMiles / milesPerDegree
	box := model.BBox{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
	}
	cosLat := math.Cos(lat * rad)
	if cosLat < 0.01 {
		box.MinLon, box.MaxLon = -180, 180
		return box
	}
	dLon := radiusMiles / (milesPerDegree * cosLat)
	box.MinLon = math.Max(lon-dLon, -180)
	box.MaxLon = math.Min(lon+dLon, 180)
	return box
}
