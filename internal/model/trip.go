package model

import "time"

// TripStatus represents the lifecycle state of a trip.
type TripStatus string

const (
	TripDraft     TripStatus = "draft"
	TripPlanned   TripStatus = "planned"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
)

// Trip is a planned or taken RV trip.
type Trip struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    TripStatus `json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Stops     []Stop     `json:"stops,omitempty"`
	Miles     float64    `json:"miles,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Stop is one ordered waypoint on a trip. Either POIID references a backend
// POI, or Lat/Lon plus Label describe a free-form stop.
type Stop struct {
	Order     int     `json:"order"`
	POIID     string  `json:"poi_id,omitempty"`
	Label     string  `json:"label,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	State     string  `json:"state,omitempty"`
	Nights    int     `json:"nights,omitempty"`
}

// TripFilter selects trips for listing. Zero values mean "no filter".
type TripFilter struct {
	Status TripStatus `json:"status,omitempty"`
	Year   int        `json:"year,omitempty"`
	Limit  int        `json:"limit,omitempty"`
}
