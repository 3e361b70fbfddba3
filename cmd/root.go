package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/config"
	"github.com/sworrl/WanderMage-sub002/internal/resilience"
	"github.com/sworrl/WanderMage-sub002/pkg/wanderapi"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "wandermage",
	Short: "Terminal companion for the WanderMage trip planner",
	Long:  "Dashboards, state maps, scraper control, offline mirrors, and trip exports for a WanderMage backend, from the comfort of a terminal in a campground with one bar of signal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// apiClient builds the backend client from config and the stored session
// token. The token may be empty; unauthenticated calls like login and
// health still work, everything else comes back 401.
func apiClient() wanderapi.Client {
	return wanderapi.NewClient(cfg.ResolveToken(),
		wanderapi.WithBaseURL(cfg.API.BaseURL),
		wanderapi.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second}),
		wanderapi.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		wanderapi.WithRetry(resilience.RetryConfig{MaxAttempts: cfg.API.MaxRetries}),
	)
}

// checkSession rewrites 401s as a login hint. A CLI cannot redirect to a
// login page, so token expiry surfaces here instead.
func checkSession(err error) error {
	if errors.Is(err, wanderapi.ErrUnauthorized) {
		return eris.New("session expired: run `wandermage login` to start a new one")
	}
	return err
}
