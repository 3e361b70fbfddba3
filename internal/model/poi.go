package model

import "time"

// POIType classifies a point of interest.
type POIType string

const (
	POIFuel        POIType = "fuel"
	POICampground  POIType = "campground"
	POIRestArea    POIType = "rest_area"
	POIDumpStation POIType = "dump_station"
	POIPropane     POIType = "propane"
	POIAttraction  POIType = "attraction"
)

// POITypes lists every known POI type, in display order.
var POITypes = []POIType{
	POIFuel,
	POICampground,
	POIRestArea,
	POIDumpStation,
	POIPropane,
	POIAttraction,
}

// ValidPOIType reports whether s names a known POI type.
func ValidPOIType(s string) bool {
	for _, t := range POITypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// POI is a mappable location record returned by the backend (fuel station,
// campground, etc.).
type POI struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      POIType   `json:"type"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	State     string    `json:"state"` // USPS code, e.g. "CO"
	Rating    float64   `json:"rating,omitempty"`
	Amenities []string  `json:"amenities,omitempty"`
	Source    string    `json:"source,omitempty"` // scraper that produced the record
	UpdatedAt time.Time `json:"updated_at"`
}

// BBox is a geographic bounding box in WGS84 degrees.
type BBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// POIQuery filters a POI listing. Zero values mean "no filter".
type POIQuery struct {
	State  string  `json:"state,omitempty"`
	Type   POIType `json:"type,omitempty"`
	BBox   *BBox   `json:"bbox,omitempty"`
	Lat    float64 `json:"lat,omitempty"`
	Lon    float64 `json:"lon,omitempty"`
	Radius float64 `json:"radius,omitempty"` // miles; only meaningful with Lat/Lon
	Limit  int     `json:"limit,omitempty"`
}

// Near reports whether the query is a proximity search.
func (q POIQuery) Near() bool {
	return q.Radius > 0 && (q.Lat != 0 || q.Lon != 0)
}
