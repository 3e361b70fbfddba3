package borders

import (
	"archive/zip"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
)

type stateRec struct {
	fips string
	code string
	name string
	poly *shp.Polygon
}

// boxPolygon builds a closed rectangular ring polygon from lon/lat bounds.
func boxPolygon(minLon, minLat, maxLon, maxLat float64) *shp.Polygon {
	return newPolygon([]shp.Point{
		{X: minLon, Y: minLat},
		{X: minLon, Y: maxLat},
		{X: maxLon, Y: maxLat},
		{X: maxLon, Y: minLat},
		{X: minLon, Y: minLat},
	})
}

// newPolygon builds a single-part polygon with its box and counts filled,
// as the shapefile writer serializes whatever the struct carries.
func newPolygon(points []shp.Point) *shp.Polygon {
	return multiPolygon(points, []int32{0})
}

func multiPolygon(points []shp.Point, parts []int32) *shp.Polygon {
	box := shp.Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range points {
		box.MinX = math.Min(box.MinX, p.X)
		box.MinY = math.Min(box.MinY, p.Y)
		box.MaxX = math.Max(box.MaxX, p.X)
		box.MaxY = math.Max(box.MaxY, p.Y)
	}
	return &shp.Polygon{
		Box:       box,
		NumParts:  int32(len(parts)),
		NumPoints: int32(len(points)),
		Parts:     parts,
		Points:    points,
	}
}

// writeStatesShapefile writes a cb-style states shapefile (STATEFP, STUSPS,
// NAME attributes) into dir and returns the .shp path.
func writeStatesShapefile(t *testing.T, dir string, recs []stateRec) string {
	t.Helper()

	path := filepath.Join(dir, "states.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{
		shp.StringField("STATEFP", 2),
		shp.StringField("STUSPS", 2),
		shp.StringField("NAME", 64),
	})
	for i, rec := range recs {
		w.Write(rec.poly)
		w.WriteAttribute(i, 0, rec.fips)
		w.WriteAttribute(i, 1, rec.code)
		w.WriteAttribute(i, 2, rec.name)
	}
	w.Close()

	return path
}

// zipShapefile zips every sidecar of the given .shp (shp, shx, dbf) into a
// single archive and returns its bytes.
func zipShapefile(t *testing.T, shpPath string) []byte {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	base := shpPath[:len(shpPath)-len(".shp")]
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		data, readErr := os.ReadFile(base + ext)
		require.NoError(t, readErr)
		fw, createErr := zw.Create(filepath.Base(base) + ext)
		require.NoError(t, createErr)
		_, writeErr := fw.Write(data)
		require.NoError(t, writeErr)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	return data
}

// createTestZIP creates a ZIP in memory with the given literal files.
func createTestZIP(t *testing.T, files map[string]string) []byte {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, content := range files {
		fw, createErr := zw.Create(name)
		require.NoError(t, createErr)
		_, writeErr := fw.Write([]byte(content))
		require.NoError(t, writeErr)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	return data
}

// sampleStates is a minimal synthetic registry-valid state set: two plains
// rectangles, an Alaska box spanning the antimeridian fold, and Hawaii.
func sampleStates() []stateRec {
	akPoints := []shp.Point{
		{X: -170, Y: 55},
		{X: -170, Y: 71},
		{X: -140, Y: 71},
		{X: -140, Y: 55},
		{X: -170, Y: 55},
	}
	return []stateRec{
		{fips: "08", code: "CO", name: "Colorado", poly: boxPolygon(-109, 37, -102, 41)},
		{fips: "20", code: "KS", name: "Kansas", poly: boxPolygon(-102, 37, -94.6, 40)},
		{fips: "02", code: "AK", name: "Alaska", poly: newPolygon(akPoints)},
		{fips: "15", code: "HI", name: "Hawaii", poly: boxPolygon(-160, 19, -155, 22)},
	}
}
