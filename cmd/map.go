package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/borders"
	"github.com/sworrl/WanderMage-sub002/internal/choropleth"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Render state choropleth maps as SVG",
}

var (
	mapKind    string
	mapOut     string
	mapOffline bool
	mapWidth   int
)

var mapRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the visited-states or POI-density map",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		width := float64(cfg.Map.Width)
		if mapWidth > 0 {
			width = float64(mapWidth)
		}

		var renderer choropleth.Renderer
		switch mapKind {
		case "visited":
			renderer = choropleth.NewVisitedRenderer(width, cfg.Map.Labels)
		case "density":
			renderer = choropleth.NewDensityRenderer(width, cfg.Map.Labels)
		default:
			return eris.Errorf("map render: unknown kind %q (want visited or density)", mapKind)
		}
		if cfg.Map.SimplifyPx > 0 {
			renderer.SimplifyPx = cfg.Map.SimplifyPx
		}

		shapes, err := loadShapes(ctx, mapOffline)
		if err != nil {
			return err
		}

		backend, cleanup, err := dashboardBackend(ctx, mapOffline)
		if err != nil {
			return err
		}
		defer cleanup()

		var values map[string]int
		if mapKind == "visited" {
			visits, err := backend.StateVisits(ctx)
			if err != nil {
				return checkSession(err)
			}
			values = choropleth.VisitValues(visits)
		} else {
			if values, err = backend.POIDensity(ctx); err != nil {
				return checkSession(err)
			}
		}

		svg, err := renderer.Render(shapes, values)
		if err != nil {
			return err
		}

		out := mapOutPath(mapKind, mapOut)
		if err := os.WriteFile(out, svg, 0o644); err != nil {
			return eris.Wrap(err, "map render: write file")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s map to %s\n", mapKind, out)
		return nil
	},
}

var (
	bordersYear   int
	bordersDetail string
	bordersURL    string
)

var mapBordersCmd = &cobra.Command{
	Use:   "borders",
	Short: "Download and cache state boundary data",
	Long:  "Fetches the Census cartographic boundary archive for the configured vintage and caches parsed geometry for later renders, including offline ones.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := borders.Options{
			Year:     cfg.Map.Year,
			Detail:   cfg.Map.Detail,
			CacheDir: cfg.Map.CacheDir,
			URL:      bordersURL,
		}
		if bordersYear > 0 {
			opts.Year = bordersYear
		}
		if bordersDetail != "" {
			opts.Detail = bordersDetail
		}

		shapes, err := borders.Load(cmd.Context(), opts)
		if err != nil {
			return err
		}

		zap.L().Debug("boundaries cached", zap.Int("states", len(shapes)))
		fmt.Fprintf(cmd.OutOrStdout(), "Cached %d state boundaries\n", len(shapes))
		return nil
	},
}

func mapOutPath(kind, override string) string {
	if override != "" {
		return override
	}
	if kind == "density" {
		return "poi-density.svg"
	}
	return kind + ".svg"
}

// loadShapes loads boundary geometry per map config. Offline skips the
// network and uses only what a previous run cached.
func loadShapes(ctx context.Context, offline bool) ([]borders.StateShape, error) {
	return borders.Load(ctx, borders.Options{
		Year:     cfg.Map.Year,
		Detail:   cfg.Map.Detail,
		CacheDir: cfg.Map.CacheDir,
		Offline:  offline,
	})
}

func init() {
	mapRenderCmd.Flags().StringVar(&mapKind, "kind", "visited", "map kind: visited or density")
	mapRenderCmd.Flags().StringVar(&mapOut, "out", "", "output path (default <kind>.svg)")
	mapRenderCmd.Flags().BoolVar(&mapOffline, "offline", false, "use the mirror and cached boundaries instead of the network")
	mapRenderCmd.Flags().IntVar(&mapWidth, "width", 0, "SVG width in pixels (default from config)")

	mapBordersCmd.Flags().IntVar(&bordersYear, "year", 0, "boundary vintage (default from config)")
	mapBordersCmd.Flags().StringVar(&bordersDetail, "detail", "", `detail level: "500k", "5m", or "20m" (default from config)`)
	mapBordersCmd.Flags().StringVar(&bordersURL, "url", "", "archive URL override; ftp:// switches to the FTP transport")

	mapCmd.AddCommand(mapRenderCmd)
	mapCmd.AddCommand(mapBordersCmd)
	rootCmd.AddCommand(mapCmd)
}
