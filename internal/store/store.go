// Package store mirrors backend data locally so dashboards and maps keep
// working without connectivity. Two drivers implement the same interface:
// SQLite for the zero-config default and Postgres for users pointing the
// client at their own database.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/sworrl/WanderMage-sub002/internal/geo"
	"github.com/sworrl/WanderMage-sub002/internal/model"
)

// Snapshot is one stored dashboard snapshot blob.
type Snapshot struct {
	TakenAt time.Time `json:"taken_at"`
	Data    []byte    `json:"data"`
}

// SyncRecord logs one mirror sync run.
type SyncRecord struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Trips     int           `json:"trips"`
	POIs      int           `json:"pois"`
	Visits    int           `json:"visits"`
	Error     string        `json:"error,omitempty"`
}

// Counts reports mirror row counts for status output.
type Counts struct {
	Trips  int `json:"trips"`
	POIs   int `json:"pois"`
	Visits int `json:"visits"`
}

// Store defines the persistence interface for the offline mirror. Save
// methods upsert by ID (state visits replace the whole table, since a
// re-count can shrink); List methods accept the same filters the API does.
type Store interface {
	// Trips
	SaveTrips(ctx context.Context, trips []model.Trip) (int, error)
	ListTrips(ctx context.Context, filter model.TripFilter) ([]model.Trip, error)

	// POIs
	SavePOIs(ctx context.Context, pois []model.POI) (int, error)
	ListPOIs(ctx context.Context, query model.POIQuery) ([]model.POI, error)

	// State visits
	SaveStateVisits(ctx context.Context, visits []model.StateVisit) (int, error)
	ListStateVisits(ctx context.Context) ([]model.StateVisit, error)

	// Dashboard snapshots
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LatestSnapshot(ctx context.Context) (*Snapshot, error)

	// Sync log
	RecordSync(ctx context.Context, rec SyncRecord) error
	LastSync(ctx context.Context) (*SyncRecord, error)
	Counts(ctx context.Context) (Counts, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// snapshotKeep bounds snapshot history per mirror.
const snapshotKeep = 20

// tripInYear reports whether a trip belongs to a listing year. The start
// date decides when set; otherwise the record's creation year.
func tripInYear(t model.Trip, year int) bool {
	if t.StartDate != nil {
		return t.StartDate.Year() == year
	}
	return t.CreatedAt.Year() == year
}

// nearFilter keeps POIs within the query radius, ordered nearest first.
// Callers prefilter with a bounding box; this applies the exact distance.
func nearFilter(pois []model.POI, q model.POIQuery) []model.POI {
	type candidate struct {
		poi   model.POI
		miles float64
	}
	cands := make([]candidate, 0, len(pois))
	for _, p := range pois {
		d := geo.DistanceMiles(q.Lat, q.Lon, p.Latitude, p.Longitude)
		if d <= q.Radius {
			cands = append(cands, candidate{poi: p, miles: d})
		}
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].miles < cands[j].miles })

	out := make([]model.POI, len(cands))
	for i, c := range cands {
		out[i] = c.poi
	}
	return out
}

func applyLimit(pois []model.POI, limit int) []model.POI {
	if limit > 0 && len(pois) > limit {
		return pois[:limit]
	}
	return pois
}
