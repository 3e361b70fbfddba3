package dashboard

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/store"
)

func newMirror(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func saveSnapshotBlob(t *testing.T, st store.Store, snap *Snapshot) {
	t.Helper()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, st.SaveSnapshot(context.Background(), store.Snapshot{
		TakenAt: snap.TakenAt,
		Data:    data,
	}))
}

func TestStoreBackend_SummaryFromSnapshot(t *testing.T) {
	st := newMirror(t)
	saveSnapshotBlob(t, st, &Snapshot{
		TakenAt:  time.Date(2026, 7, 3, 15, 0, 0, 0, time.UTC),
		Summary:  testSummary(),
		Scrapers: testScrapers(),
	})

	backend := NewStoreBackend(st)

	sum, err := backend.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 132, sum.TotalTrips)
	assert.Equal(t, 37, sum.StatesVisited)

	scrapers, err := backend.ListScrapers(context.Background())
	require.NoError(t, err)
	require.Len(t, scrapers, 3)
	assert.Equal(t, "harvest-hosts", scrapers[0].Name)
}

func TestStoreBackend_NoSnapshotYet(t *testing.T) {
	backend := NewStoreBackend(newMirror(t))

	_, err := backend.Summary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMirror)

	_, err = backend.ListScrapers(context.Background())
	assert.ErrorIs(t, err, ErrNoMirror)
}

func TestStoreBackend_StateVisitsFromTables(t *testing.T) {
	st := newMirror(t)
	_, err := st.SaveStateVisits(context.Background(), testVisits())
	require.NoError(t, err)

	backend := NewStoreBackend(st)
	visits, err := backend.StateVisits(context.Background())
	require.NoError(t, err)
	assert.Len(t, visits, 3)
}

func TestStoreBackend_POIDensityDerived(t *testing.T) {
	st := newMirror(t)
	_, err := st.SavePOIs(context.Background(), []model.POI{
		{ID: "p1", Name: "Cedar Breaks RV Park", Type: model.POICampground, State: "TX", Latitude: 30.1, Longitude: -97.8},
		{ID: "p2", Name: "Buc-ee's Temple", Type: model.POIFuel, State: "TX", Latitude: 31.1, Longitude: -97.4},
		{ID: "p3", Name: "Elephant Butte SP", Type: model.POICampground, State: "NM", Latitude: 33.2, Longitude: -107.2},
		{ID: "p4", Name: "Floating Dock", Type: model.POIAttraction, Latitude: 26.0, Longitude: -82.0}, // no state
	})
	require.NoError(t, err)

	backend := NewStoreBackend(st)
	density, err := backend.POIDensity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"TX": 2, "NM": 1}, density)
}

func TestStoreBackend_DecodeError(t *testing.T) {
	st := newMirror(t)
	require.NoError(t, st.SaveSnapshot(context.Background(), store.Snapshot{
		TakenAt: time.Now(),
		Data:    []byte("not json"),
	}))

	backend := NewStoreBackend(st)
	_, err := backend.Summary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode mirrored snapshot")
}

func TestStoreBackend_FeedsCollector(t *testing.T) {
	st := newMirror(t)
	saveSnapshotBlob(t, st, &Snapshot{TakenAt: time.Now(), Summary: testSummary()})
	_, err := st.SaveStateVisits(context.Background(), testVisits())
	require.NoError(t, err)

	snap, err := NewCollector(NewStoreBackend(st)).Collect(context.Background())
	require.NoError(t, err)

	// Summary and visits resolve from the mirror; density is empty but not
	// an error (no POIs synced yet).
	assert.NotNil(t, snap.Summary)
	assert.Len(t, snap.Visits, 3)
	assert.Empty(t, snap.Density)
	assert.True(t, snap.Complete())
}
