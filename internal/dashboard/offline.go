package dashboard

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/store"
)

// StoreBackend serves snapshot sections from the offline mirror instead of
// the live API. Visits and POI density are derived from the mirrored tables;
// summary and scraper state are inherently backend-computed, so those come
// from the snapshot blob saved by the last mirror sync.
type StoreBackend struct {
	st store.Store
}

var _ Backend = (*StoreBackend)(nil)

func NewStoreBackend(st store.Store) *StoreBackend {
	return &StoreBackend{st: st}
}

// ErrNoMirror marks sections the mirror cannot answer until a sync has run.
var ErrNoMirror = eris.New("dashboard: no mirrored snapshot (run `wandermage mirror sync` first)")

func (b *StoreBackend) Summary(ctx context.Context) (*model.SummaryStats, error) {
	snap, err := b.lastSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Summary == nil {
		return nil, eris.Wrap(ErrNoMirror, "dashboard: summary")
	}
	return snap.Summary, nil
}

func (b *StoreBackend) ListScrapers(ctx context.Context) ([]model.ScraperStatus, error) {
	snap, err := b.lastSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Scrapers, nil
}

func (b *StoreBackend) StateVisits(ctx context.Context) ([]model.StateVisit, error) {
	return b.st.ListStateVisits(ctx)
}

// POIDensity counts mirrored POIs per state. Unlike the summary this is
// recomputed locally, so it reflects the mirror even when the saved snapshot
// predates the last POI sync.
func (b *StoreBackend) POIDensity(ctx context.Context) (map[string]int, error) {
	pois, err := b.st.ListPOIs(ctx, model.POIQuery{})
	if err != nil {
		return nil, err
	}
	density := make(map[string]int)
	for _, p := range pois {
		if p.State != "" {
			density[p.State]++
		}
	}
	return density, nil
}

func (b *StoreBackend) lastSnapshot(ctx context.Context) (*Snapshot, error) {
	rec, err := b.st.LatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoMirror
	}
	var snap Snapshot
	if err := json.Unmarshal(rec.Data, &snap); err != nil {
		return nil, eris.Wrap(err, "dashboard: decode mirrored snapshot")
	}
	return &snap, nil
}
