package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sworrl/WanderMage-sub002/internal/dashboard"
)

var dashboardOffline bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print a one-shot status snapshot",
	Long:  "Fetches summary stats, scraper state, and visit counts in one go and prints them. With --offline everything comes from the mirror.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		backend, cleanup, err := dashboardBackend(ctx, dashboardOffline)
		if err != nil {
			return err
		}
		defer cleanup()

		snap, err := dashboard.NewCollector(backend).Collect(ctx)
		if err != nil {
			return checkSession(err)
		}

		dashboard.RenderText(os.Stdout, snap)
		return nil
	},
}

// dashboardBackend picks the live API or the mirror. cleanup closes the
// store when one was opened.
func dashboardBackend(ctx context.Context, offline bool) (dashboard.Backend, func(), error) {
	if !offline {
		return apiClient(), func() {}, nil
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, nil, eris.Wrap(err, "dashboard: migrate")
	}
	return dashboard.NewStoreBackend(st), func() { _ = st.Close() }, nil
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardOffline, "offline", false, "read from the mirror instead of the API")
	rootCmd.AddCommand(dashboardCmd)
}
