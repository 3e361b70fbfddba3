package borders

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// cachedShape is the on-disk form of a parsed boundary: attributes plus the
// geometry as EWKB (SRID 4326), base64-encoded by encoding/json.
type cachedShape struct {
	Code string `json:"code"`
	Name string `json:"name"`
	FIPS string `json:"fips"`
	Geom []byte `json:"geom"`
}

// EncodeGeometry converts a shape's rings to EWKB bytes with SRID 4326.
// Each ring becomes a single-ring polygon in a MultiPolygon, matching how
// the shapefile parts were read.
func EncodeGeometry(rings [][]Point) ([]byte, error) {
	if len(rings) == 0 {
		return nil, eris.New("borders: no rings to encode")
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for _, ring := range rings {
		flat := make([]float64, 0, len(ring)*2)
		for _, p := range ring {
			flat = append(flat, p.X, p.Y)
		}
		lr := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(lr); err != nil {
			return nil, eris.Wrap(err, "borders: build polygon ring")
		}
		if err := mp.Push(poly); err != nil {
			return nil, eris.Wrap(err, "borders: build multipolygon")
		}
	}

	data, err := ewkb.Marshal(mp, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "borders: encode EWKB")
	}
	return data, nil
}

// DecodeGeometry converts EWKB bytes back to rings.
func DecodeGeometry(data []byte) ([][]Point, error) {
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "borders: decode EWKB")
	}
	mp, ok := g.(*geom.MultiPolygon)
	if !ok {
		return nil, eris.Errorf("borders: expected MultiPolygon, got %T", g)
	}

	var rings [][]Point
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			coords := poly.LinearRing(j).Coords()
			ring := make([]Point, 0, len(coords))
			for _, c := range coords {
				ring = append(ring, Point{X: c[0], Y: c[1]})
			}
			rings = append(rings, ring)
		}
	}
	if len(rings) == 0 {
		return nil, eris.New("borders: empty geometry")
	}
	return rings, nil
}

// SaveCache writes parsed shapes to path as JSON with EWKB geometry, so
// later runs skip the shapefile entirely.
func SaveCache(path string, shapes []StateShape) error {
	cached := make([]cachedShape, 0, len(shapes))
	for _, s := range shapes {
		data, err := EncodeGeometry(s.Rings)
		if err != nil {
			return eris.Wrapf(err, "borders: cache %s", s.Code)
		}
		cached = append(cached, cachedShape{Code: s.Code, Name: s.Name, FIPS: s.FIPS, Geom: data})
	}

	out, err := json.Marshal(cached)
	if err != nil {
		return eris.Wrap(err, "borders: marshal cache")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "borders: create cache dir")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return eris.Wrap(err, "borders: write cache")
	}
	return nil
}

// LoadCache reads shapes back from a SaveCache file.
func LoadCache(path string) ([]StateShape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "borders: read cache %s", path)
	}

	var cached []cachedShape
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, eris.Wrapf(err, "borders: parse cache %s", path)
	}
	if len(cached) == 0 {
		return nil, eris.Errorf("borders: empty cache %s", path)
	}

	shapes := make([]StateShape, 0, len(cached))
	for _, c := range cached {
		rings, err := DecodeGeometry(c.Geom)
		if err != nil {
			return nil, eris.Wrapf(err, "borders: cached geometry for %s", c.Code)
		}
		shapes = append(shapes, StateShape{Code: c.Code, Name: c.Name, FIPS: c.FIPS, Rings: rings})
	}
	return shapes, nil
}
