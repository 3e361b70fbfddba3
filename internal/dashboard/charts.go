package dashboard

import (
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

// statesBar builds a bar chart of POI counts per state, highest first.
func statesBar(density map[string]int) *charts.Bar {
	codes := make([]string, 0, len(density))
	for code := range density {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if density[codes[i]] != density[codes[j]] {
			return density[codes[i]] > density[codes[j]]
		}
		return codes[i] < codes[j]
	})

	values := make([]opts.BarData, 0, len(codes))
	for _, code := range codes {
		values = append(values, opts.BarData{Value: density[code]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "POIs by state", Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "POIs by state"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(codes).
		AddSeries("pois", values,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

// typesPie builds a pie chart of POI counts by type.
func typesPie(byType map[model.POIType]int) *charts.Pie {
	names := make([]string, 0, len(byType))
	for t := range byType {
		names = append(names, string(t))
	}
	sort.Strings(names)

	values := make([]opts.PieData, 0, len(names))
	for _, name := range names {
		values = append(values, opts.PieData{Name: name, Value: byType[model.POIType(name)]})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "POIs by type", Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "POIs by type"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("types", values,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

// renderChart wraps one chart in a page and writes the standalone HTML
// document the overview page iframes.
func renderChart(w io.Writer, chart components.Charter) error {
	page := components.NewPage()
	page.AddCharts(chart)
	return page.Render(w)
}
