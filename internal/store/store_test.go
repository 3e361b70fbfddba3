package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "mirror.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testTrip(id, name string, status model.TripStatus, start time.Time) model.Trip {
	s := start
	return model.Trip{
		ID:     id,
		Name:   name,
		Status: status,
		StartDate: &s,
		Stops: []model.Stop{
			{Order: 1, Label: "Home", Latitude: 39.7392, Longitude: -104.9903, State: "CO"},
			{Order: 2, Label: "Garden of the Gods", Latitude: 38.8784, Longitude: -104.8698, State: "CO", Nights: 2},
		},
		Miles:     142,
		CreatedAt: start.Add(-30 * 24 * time.Hour),
		UpdatedAt: start,
	}
}

func testPOI(id, name string, typ model.POIType, state string, lat, lon float64) model.POI {
	return model.POI{
		ID:        id,
		Name:      name,
		Type:      typ,
		State:     state,
		Latitude:  lat,
		Longitude: lon,
		Rating:    4.2,
		UpdatedAt: time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC),
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("TripsRoundTrip", func(t *testing.T) {
		s := newStore(t)

		a := testTrip("trip-1", "Rockies Loop", model.TripCompleted, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		b := testTrip("trip-2", "Desert Run", model.TripPlanned, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

		n, err := s.SaveTrips(ctx, []model.Trip{a, b})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		trips, err := s.ListTrips(ctx, model.TripFilter{})
		require.NoError(t, err)
		require.Len(t, trips, 2)
		// Most recently updated first.
		assert.Equal(t, b, trips[0])
		assert.Equal(t, a, trips[1])
	})

	t.Run("TripsUpsertOverwrites", func(t *testing.T) {
		s := newStore(t)

		tr := testTrip("trip-1", "Rockies Loop", model.TripPlanned, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
		_, err := s.SaveTrips(ctx, []model.Trip{tr})
		require.NoError(t, err)

		tr.Name = "Rockies Loop (revised)"
		tr.Status = model.TripActive
		_, err = s.SaveTrips(ctx, []model.Trip{tr})
		require.NoError(t, err)

		trips, err := s.ListTrips(ctx, model.TripFilter{})
		require.NoError(t, err)
		require.Len(t, trips, 1)
		assert.Equal(t, "Rockies Loop (revised)", trips[0].Name)
		assert.Equal(t, model.TripActive, trips[0].Status)
	})

	t.Run("TripsFilters", func(t *testing.T) {
		s := newStore(t)

		_, err := s.SaveTrips(ctx, []model.Trip{
			testTrip("trip-1", "Old", model.TripCompleted, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)),
			testTrip("trip-2", "Current", model.TripActive, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
			testTrip("trip-3", "Upcoming", model.TripPlanned, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)

		active, err := s.ListTrips(ctx, model.TripFilter{Status: model.TripActive})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Current", active[0].Name)

		thisYear, err := s.ListTrips(ctx, model.TripFilter{Year: 2026})
		require.NoError(t, err)
		assert.Len(t, thisYear, 2)

		limited, err := s.ListTrips(ctx, model.TripFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("POIsRoundTrip", func(t *testing.T) {
		s := newStore(t)

		pois := []model.POI{
			testPOI("poi-1", "Cherry Creek SP", model.POICampground, "CO", 39.6333, -104.8653),
			testPOI("poi-2", "Love's Limon", model.POIFuel, "CO", 39.2639, -103.6927),
		}
		n, err := s.SavePOIs(ctx, pois)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := s.ListPOIs(ctx, model.POIQuery{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Cherry Creek SP", got[0].Name)
	})

	t.Run("POIsFilterStateAndType", func(t *testing.T) {
		s := newStore(t)

		_, err := s.SavePOIs(ctx, []model.POI{
			testPOI("poi-1", "Cherry Creek SP", model.POICampground, "CO", 39.6333, -104.8653),
			testPOI("poi-2", "Love's Limon", model.POIFuel, "CO", 39.2639, -103.6927),
			testPOI("poi-3", "Lake McConaughy", model.POICampground, "NE", 41.2500, -101.8000),
		})
		require.NoError(t, err)

		camps, err := s.ListPOIs(ctx, model.POIQuery{Type: model.POICampground})
		require.NoError(t, err)
		assert.Len(t, camps, 2)

		coCamps, err := s.ListPOIs(ctx, model.POIQuery{State: "CO", Type: model.POICampground})
		require.NoError(t, err)
		require.Len(t, coCamps, 1)
		assert.Equal(t, "poi-1", coCamps[0].ID)
	})

	t.Run("POIsBBox", func(t *testing.T) {
		s := newStore(t)

		_, err := s.SavePOIs(ctx, []model.POI{
			testPOI("poi-1", "Denver East", model.POIFuel, "CO", 39.75, -104.80),
			testPOI("poi-2", "Salt Lake", model.POIFuel, "UT", 40.76, -111.89),
		})
		require.NoError(t, err)

		got, err := s.ListPOIs(ctx, model.POIQuery{
			BBox: &model.BBox{MinLat: 37, MaxLat: 41, MinLon: -109, MaxLon: -102},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "poi-1", got[0].ID)
	})

	t.Run("POIsNearOrdersByDistance", func(t *testing.T) {
		s := newStore(t)

		_, err := s.SavePOIs(ctx, []model.POI{
			testPOI("cos", "Colorado Springs", model.POIFuel, "CO", 38.8339, -104.8214),
			testPOI("boulder", "Boulder", model.POIFuel, "CO", 40.0150, -105.2705),
			testPOI("cheyenne", "Cheyenne", model.POIFuel, "WY", 41.1400, -104.8202),
			testPOI("slc", "Salt Lake City", model.POIFuel, "UT", 40.7608, -111.8910),
		})
		require.NoError(t, err)

		// From Denver, 150 mile radius excludes Salt Lake City.
		got, err := s.ListPOIs(ctx, model.POIQuery{Lat: 39.7392, Lon: -104.9903, Radius: 150})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "boulder", got[0].ID)
		assert.Equal(t, "cos", got[1].ID)
		assert.Equal(t, "cheyenne", got[2].ID)

		// Limit trims after the distance sort.
		top, err := s.ListPOIs(ctx, model.POIQuery{Lat: 39.7392, Lon: -104.9903, Radius: 150, Limit: 1})
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, "boulder", top[0].ID)
	})

	t.Run("VisitsReplaceAll", func(t *testing.T) {
		s := newStore(t)

		first := time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC)
		last := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
		n, err := s.SaveStateVisits(ctx, []model.StateVisit{
			{State: "CO", Visits: 6, FirstVisited: &first, LastVisited: &last},
			{State: "KS", Visits: 2, FirstVisited: &first},
			{State: "WY", Visits: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		// A later sync with a reduced set replaces the table outright.
		n, err = s.SaveStateVisits(ctx, []model.StateVisit{
			{State: "CO", Visits: 7, FirstVisited: &first, LastVisited: &last},
			{State: "KS", Visits: 2, FirstVisited: &first},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		visits, err := s.ListStateVisits(ctx)
		require.NoError(t, err)
		require.Len(t, visits, 2)
		assert.Equal(t, "CO", visits[0].State)
		assert.Equal(t, 7, visits[0].Visits)
		require.NotNil(t, visits[0].FirstVisited)
		assert.True(t, visits[0].FirstVisited.Equal(first))
		require.NotNil(t, visits[0].LastVisited)
		assert.True(t, visits[0].LastVisited.Equal(last))
		assert.Equal(t, "KS", visits[1].State)
		assert.Nil(t, visits[1].LastVisited)
	})

	t.Run("SnapshotLatest", func(t *testing.T) {
		s := newStore(t)

		missing, err := s.LatestSnapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, missing)

		older := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		newer := older.Add(30 * time.Second)
		require.NoError(t, s.SaveSnapshot(ctx, Snapshot{TakenAt: older, Data: []byte(`{"poi_count":10}`)}))
		require.NoError(t, s.SaveSnapshot(ctx, Snapshot{TakenAt: newer, Data: []byte(`{"poi_count":12}`)}))

		got, err := s.LatestSnapshot(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.TakenAt.Equal(newer))
		assert.JSONEq(t, `{"poi_count":12}`, string(got.Data))
	})

	t.Run("SyncLog", func(t *testing.T) {
		s := newStore(t)

		missing, err := s.LastSync(ctx)
		require.NoError(t, err)
		assert.Nil(t, missing)

		started := time.Date(2026, 8, 24, 7, 0, 0, 0, time.UTC)
		require.NoError(t, s.RecordSync(ctx, SyncRecord{
			StartedAt: started,
			Duration:  1400 * time.Millisecond,
			Trips:     3, POIs: 120, Visits: 14,
		}))
		require.NoError(t, s.RecordSync(ctx, SyncRecord{
			StartedAt: started.Add(time.Hour),
			Duration:  900 * time.Millisecond,
			Trips:     3, POIs: 125, Visits: 14,
			Error: "scrapers unreachable",
		}))

		got, err := s.LastSync(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, 125, got.POIs)
		assert.Equal(t, 900*time.Millisecond, got.Duration)
		assert.Equal(t, "scrapers unreachable", got.Error)
	})

	t.Run("Counts", func(t *testing.T) {
		s := newStore(t)

		empty, err := s.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, Counts{}, empty)

		_, err = s.SaveTrips(ctx, []model.Trip{testTrip("trip-1", "T", model.TripDraft, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))})
		require.NoError(t, err)
		_, err = s.SavePOIs(ctx, []model.POI{
			testPOI("poi-1", "A", model.POIFuel, "CO", 39, -105),
			testPOI("poi-2", "B", model.POIFuel, "CO", 39.1, -105.1),
		})
		require.NoError(t, err)
		_, err = s.SaveStateVisits(ctx, []model.StateVisit{{State: "CO", Visits: 1}})
		require.NoError(t, err)

		got, err := s.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, Counts{Trips: 1, POIs: 2, Visits: 1}, got)
	})

	t.Run("EmptySavesAreNoOps", func(t *testing.T) {
		s := newStore(t)

		for name, save := range map[string]func() (int, error){
			"trips":  func() (int, error) { return s.SaveTrips(ctx, nil) },
			"pois":   func() (int, error) { return s.SavePOIs(ctx, nil) },
			"visits": func() (int, error) { return s.SaveStateVisits(ctx, nil) },
		} {
			n, err := save()
			require.NoError(t, err, name)
			assert.Zero(t, n, name)
		}
	})
}

func TestSQLiteStoreSuite(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}
