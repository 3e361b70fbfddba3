package model

import "time"

// ScraperState represents the backend-reported state of a data scraper.
// The scraper itself is backend-owned; the client only observes and controls it.
type ScraperState string

const (
	ScraperIdle     ScraperState = "idle"
	ScraperQueued   ScraperState = "queued"
	ScraperRunning  ScraperState = "running"
	ScraperFailed   ScraperState = "failed"
	ScraperDisabled ScraperState = "disabled"
)

// Terminal reports whether the state is settled (not queued/running).
func (s ScraperState) Terminal() bool {
	return s == ScraperIdle || s == ScraperFailed || s == ScraperDisabled
}

// ScraperStatus is one scraper's status snapshot as reported by the backend.
type ScraperStatus struct {
	Name         string       `json:"name"`
	State        ScraperState `json:"state"`
	LastRun      *time.Time   `json:"last_run,omitempty"`
	LastSuccess  *time.Time   `json:"last_success,omitempty"`
	ItemsScraped int          `json:"items_scraped"`
	TotalItems   int          `json:"total_items,omitempty"`
	Error        string       `json:"error,omitempty"`
	Progress     float64      `json:"progress"` // 0..1; meaningful while running
	EnabledAt    *time.Time   `json:"enabled_at,omitempty"`
}
