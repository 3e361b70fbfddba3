package borders

import (
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

// ParseShapefile reads a cartographic boundary states shapefile and returns
// one StateShape per registry state (50 + DC), sorted by code. Territories
// present in the file but absent from the registry are skipped.
func ParseShapefile(shpPath string) ([]StateShape, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "borders: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	var shapes []StateShape
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		code := attrValue(reader, fieldIdx, "stusps")
		name := attrValue(reader, fieldIdx, "name")
		fips := attrValue(reader, fieldIdx, "statefp")

		if code == "" || !model.ValidState(code) {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		rings := polygonRings(poly)
		if len(rings) == 0 {
			skipped++
			continue
		}

		shapes = append(shapes, StateShape{
			Code:  code,
			Name:  name,
			FIPS:  fips,
			Rings: rings,
		})
	}

	if skipped > 0 {
		zap.L().Debug("borders: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	if len(shapes) == 0 {
		return nil, eris.Errorf("borders: no state records in %s", shpPath)
	}

	sort.Slice(shapes, func(i, j int) bool { return shapes[i].Code < shapes[j].Code })
	return shapes, nil
}

func attrValue(r *shp.Reader, fieldIdx map[string]int, name string) string {
	idx, ok := fieldIdx[name]
	if !ok {
		return ""
	}
	val := strings.TrimRight(r.Attribute(idx), "\x00")
	return strings.TrimSpace(val)
}

// polygonRings walks the shapefile part index and returns each part as a
// closed ring. Parts with fewer than four points are dropped.
func polygonRings(p *shp.Polygon) [][]Point {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	rings := make([][]Point, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		ring := make([]Point, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, Point{X: p.Points[j].X, Y: p.Points[j].Y})
		}
		if len(ring) < 4 {
			continue
		}
		rings = append(rings, ring)
	}
	return rings
}
