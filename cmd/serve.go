package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/borders"
	"github.com/sworrl/WanderMage-sub002/internal/dashboard"
	"github.com/sworrl/WanderMage-sub002/internal/effects"
	"github.com/sworrl/WanderMage-sub002/internal/holiday"
)

var (
	servePort    int
	serveOffline bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Long:  "Runs a local HTTP server with status charts, choropleth maps, and seasonal overlays. Background pollers keep the data fresh; page loads never wait on the backend.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		backend, cleanup, err := dashboardBackend(ctx, serveOffline)
		if err != nil {
			return err
		}
		defer cleanup()

		// Backend reachability is best effort at startup. The pollers retry,
		// so the server comes up either way.
		if !serveOffline {
			if err := apiClient().Health(ctx); err != nil {
				zap.L().Warn("backend health check failed", zap.Error(err))
			}
		}

		holidays, err := loadHolidays()
		if err != nil {
			return err
		}

		// Boundary data is best effort. The map endpoints answer 503 without
		// it; every other panel still works.
		shapes, err := loadShapes(ctx, serveOffline)
		if err != nil {
			zap.L().Warn("state boundaries unavailable, map endpoints disabled", zap.Error(err))
			shapes = nil
		}

		opts := serverOptions(shapes, holidays)
		if servePort > 0 {
			opts.Port = servePort
		}

		return dashboard.NewServer(backend, opts).Start(ctx)
	},
}

// serverOptions maps config onto the dashboard server.
func serverOptions(shapes []borders.StateShape, holidays *holiday.Set) dashboard.Options {
	return dashboard.Options{
		Port:             cfg.Server.Port,
		Refresh:          time.Duration(cfg.Poll.DashboardSecs) * time.Second,
		ScraperRefresh:   time.Duration(cfg.Poll.ScraperSecs) * time.Second,
		FailureThreshold: cfg.Poll.FailureThreshold,
		RecoveryInterval: time.Duration(cfg.Poll.RecoverySecs) * time.Second,
		Shapes:           shapes,
		MapWidth:         float64(cfg.Map.Width),
		MapLabels:        cfg.Map.Labels,
		Holidays:         holidays,
		Effects: effects.Config{
			Width:     cfg.Effects.Width,
			Height:    cfg.Effects.Height,
			Particles: cfg.Effects.Particles,
		},
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveOffline, "offline", false, "serve from the mirror instead of the API")
	rootCmd.AddCommand(serveCmd)
}
