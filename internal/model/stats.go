package model

import "time"

// StateVisit records how often a state has been visited across all trips.
type StateVisit struct {
	State        string     `json:"state"` // USPS code
	Visits       int        `json:"visits"`
	FirstVisited *time.Time `json:"first_visited,omitempty"`
	LastVisited  *time.Time `json:"last_visited,omitempty"`
}

// SummaryStats is the backend's aggregate dashboard summary.
type SummaryStats struct {
	TotalTrips    int             `json:"total_trips"`
	ActiveTrips   int             `json:"active_trips"`
	TotalMiles    float64         `json:"total_miles"`
	POICount      int             `json:"poi_count"`
	POIByType     map[POIType]int `json:"poi_by_type,omitempty"`
	StatesVisited int             `json:"states_visited"`
	LastScrapeAt  *time.Time      `json:"last_scrape_at,omitempty"`
}
