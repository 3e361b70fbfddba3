package borders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveArchive serves a real shapefile, zipped, at the cb archive path.
func serveArchive(t *testing.T, recs []stateRec) (*httptest.Server, *int) {
	t.Helper()

	shpPath := writeStatesShapefile(t, t.TempDir(), recs)
	zipContent := zipShapefile(t, shpPath)

	calls := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			*calls++
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(zipContent)
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestLoadFullPipeline(t *testing.T) {
	srv, calls := serveArchive(t, sampleStates())
	cacheDir := t.TempDir()

	opts := Options{
		Year:     2023,
		Detail:   "20m",
		CacheDir: cacheDir,
		URL:      srv.URL + "/cb_2023_us_state_20m.zip",
	}

	shapes, err := Load(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, shapes, 4)
	assert.Equal(t, "AK", shapes[0].Code)
	assert.Equal(t, 1, *calls)

	// Geometry cache was written alongside the archive.
	assert.FileExists(t, filepath.Join(cacheDir, "cb_2023_us_state_20m.geom.json"))
}

func TestLoadUsesGeometryCache(t *testing.T) {
	srv, _ := serveArchive(t, sampleStates())
	cacheDir := t.TempDir()

	opts := Options{
		Year:     2023,
		Detail:   "20m",
		CacheDir: cacheDir,
		URL:      srv.URL + "/cb_2023_us_state_20m.zip",
	}

	first, err := Load(context.Background(), opts)
	require.NoError(t, err)

	// With the server gone, the cached geometry still answers.
	srv.Close()
	second, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadCorruptCacheRefetches(t *testing.T) {
	srv, calls := serveArchive(t, sampleStates())
	cacheDir := t.TempDir()

	cachePath := filepath.Join(cacheDir, "cb_2023_us_state_20m.geom.json")
	require.NoError(t, os.WriteFile(cachePath, []byte("{broken"), 0o644))

	opts := Options{
		Year:     2023,
		Detail:   "20m",
		CacheDir: cacheDir,
		URL:      srv.URL + "/cb_2023_us_state_20m.zip",
	}

	shapes, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, shapes, 4)
	assert.Equal(t, 1, *calls)
}

func TestLoadOfflineWithoutCache(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), Options{CacheDir: t.TempDir(), Offline: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestLoadOfflineWithCache(t *testing.T) {
	t.Parallel()

	cacheDir := t.TempDir()
	shapes := []StateShape{
		{Code: "CO", Name: "Colorado", FIPS: "08", Rings: [][]Point{squareRing(-109, 37, 4)}},
	}
	require.NoError(t, SaveCache(filepath.Join(cacheDir, "cb_2023_us_state_20m.geom.json"), shapes))

	got, err := Load(context.Background(), Options{CacheDir: cacheDir, Offline: true})
	require.NoError(t, err)
	assert.Equal(t, shapes, got)
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	prepared, width, height, err := Prepare(geoStates(), 960, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 960.0, width)
	assert.Greater(t, height, 0.0)
	assert.Len(t, prepared, len(geoStates()))

	for _, s := range prepared {
		assert.NotEmpty(t, s.Rings, "%s lost all rings", s.Code)
	}
}

func TestPrepareEmpty(t *testing.T) {
	t.Parallel()

	_, _, _, err := Prepare(nil, 960, 1.5)
	assert.Error(t, err)
}
