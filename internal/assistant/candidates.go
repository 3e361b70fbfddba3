package assistant

import (
	"sort"

	"github.com/sworrl/WanderMage-sub002/internal/geo"
	"github.com/sworrl/WanderMage-sub002/internal/model"
)

// NearRoute returns candidates within radiusMiles of the trip's route,
// nearest first, capped at limit. POIs already planned as stops are excluded.
// An empty route yields nothing: there is no corridor to search.
func NearRoute(pois []model.POI, trip model.Trip, radiusMiles float64, limit int) []model.POI {
	route := RoutePoints(trip)
	if len(route) == 0 {
		return nil
	}

	planned := make(map[string]bool, len(trip.Stops))
	for _, s := range trip.Stops {
		if s.POIID != "" {
			planned[s.POIID] = true
		}
	}

	type scored struct {
		poi  model.POI
		dist float64
	}
	var matches []scored
	for _, p := range pois {
		if planned[p.ID] {
			continue
		}
		d := geo.RouteDistanceMiles(geo.Point{Lat: p.Latitude, Lon: p.Longitude}, route)
		if d <= radiusMiles {
			matches = append(matches, scored{poi: p, dist: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]model.POI, len(matches))
	for i, m := range matches {
		out[i] = m.poi
	}
	return out
}

// RoutePoints extracts the ordered stop coordinates. Stops without
// coordinates are skipped.
func RoutePoints(trip model.Trip) []geo.Point {
	var pts []geo.Point
	for _, s := range trip.Stops {
		if s.Latitude == 0 && s.Longitude == 0 {
			continue
		}
		pts = append(pts, geo.Point{Lat: s.Latitude, Lon: s.Longitude})
	}
	return pts
}
