package choropleth

import (
	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/texture"
)

// NewVisitedRenderer returns the renderer for the states-visited map.
func NewVisitedRenderer(width float64, labels bool) Renderer {
	return Renderer{
		Width:  width,
		Scale:  texture.VisitedGreens,
		Title:  "States Visited",
		Labels: labels,
	}
}

// NewDensityRenderer returns the renderer for the POI-density map.
func NewDensityRenderer(width float64, labels bool) Renderer {
	return Renderer{
		Width:  width,
		Scale:  texture.DesertAmbers,
		Title:  "Points of Interest by State",
		Labels: labels,
	}
}

// VisitValues flattens state-visit rows into the per-state value map the
// renderer consumes.
func VisitValues(visits []model.StateVisit) map[string]int {
	values := make(map[string]int, len(visits))
	for _, v := range visits {
		values[v.State] = v.Visits
	}
	return values
}
