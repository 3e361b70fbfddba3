package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/dashboard"
	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/store"
	"github.com/sworrl/WanderMage-sub002/pkg/wanderapi"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Maintain a local mirror of backend data",
	Long:  "Copies trips, POIs, and stats into a local store so dashboards and maps keep working without connectivity.",
}

var mirrorSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull backend data into the mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("mirror"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "mirror sync: migrate")
		}

		rec, err := syncMirror(ctx, apiClient(), st)
		if err != nil {
			return checkSession(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d trips, %d POIs, %d state visits in %s\n",
			rec.Trips, rec.POIs, rec.Visits, rec.Duration.Round(time.Millisecond))
		return nil
	},
}

var mirrorStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show mirror freshness and row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "mirror status: migrate")
		}

		last, err := st.LastSync(ctx)
		if err != nil {
			return err
		}
		counts, err := st.Counts(ctx)
		if err != nil {
			return err
		}
		snap, err := st.LatestSnapshot(ctx)
		if err != nil {
			return err
		}

		formatMirrorStatus(os.Stdout, last, counts, snap)
		return nil
	},
}

// syncMirror pulls every mirrored dataset plus a dashboard snapshot blob,
// then appends a sync log entry. The entry is written even when the pull
// fails partway, so status shows what happened.
func syncMirror(ctx context.Context, api wanderapi.Client, st store.Store) (store.SyncRecord, error) {
	rec := store.SyncRecord{ID: uuid.NewString(), StartedAt: time.Now()}

	err := func() error {
		trips, err := api.ListTrips(ctx, model.TripFilter{})
		if err != nil {
			return eris.Wrap(err, "mirror sync: trips")
		}
		if rec.Trips, err = st.SaveTrips(ctx, trips); err != nil {
			return err
		}

		pois, err := api.ListPOIs(ctx, model.POIQuery{})
		if err != nil {
			return eris.Wrap(err, "mirror sync: POIs")
		}
		if rec.POIs, err = st.SavePOIs(ctx, pois); err != nil {
			return err
		}

		visits, err := api.StateVisits(ctx)
		if err != nil {
			return eris.Wrap(err, "mirror sync: state visits")
		}
		if rec.Visits, err = st.SaveStateVisits(ctx, visits); err != nil {
			return err
		}

		// The snapshot blob carries the backend-computed sections (summary,
		// scraper state) that offline dashboards cannot derive from tables.
		snap, err := dashboard.NewCollector(api).Collect(ctx)
		if err != nil {
			return eris.Wrap(err, "mirror sync: snapshot")
		}
		raw, err := json.Marshal(snap)
		if err != nil {
			return eris.Wrap(err, "mirror sync: encode snapshot")
		}
		return st.SaveSnapshot(ctx, store.Snapshot{TakenAt: snap.TakenAt, Data: raw})
	}()

	rec.Duration = time.Since(rec.StartedAt)
	if err != nil {
		rec.Error = err.Error()
	}
	if logErr := st.RecordSync(ctx, rec); logErr != nil {
		zap.L().Warn("sync log write failed", zap.Error(logErr))
	}

	zap.L().Info("mirror sync finished",
		zap.Int("trips", rec.Trips),
		zap.Int("pois", rec.POIs),
		zap.Int("visits", rec.Visits),
		zap.Duration("took", rec.Duration),
		zap.Bool("ok", err == nil),
	)
	return rec, err
}

func formatMirrorStatus(out io.Writer, last *store.SyncRecord, counts store.Counts, snap *store.Snapshot) {
	if last == nil {
		_, _ = fmt.Fprintln(out, "Never synced (run `wandermage mirror sync`)")
	} else {
		_, _ = fmt.Fprintf(out, "Last sync: %s (took %s)\n",
			last.StartedAt.Local().Format("2006-01-02 15:04"), last.Duration.Round(time.Millisecond))
		if last.Error != "" {
			_, _ = fmt.Fprintf(out, "Sync error: %s\n", last.Error)
		}
	}

	if snap == nil {
		_, _ = fmt.Fprintln(out, "Snapshot:  none")
	} else {
		_, _ = fmt.Fprintf(out, "Snapshot:  %s\n", snap.TakenAt.Local().Format("2006-01-02 15:04"))
	}

	_, _ = fmt.Fprintf(out, "Rows:      %d trips, %d POIs, %d state visits\n",
		counts.Trips, counts.POIs, counts.Visits)
}

// openStore opens the configured mirror backend. Callers own Close.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "", "sqlite":
		path, err := mirrorPath()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, eris.Wrap(err, "mirror: create store dir")
		}
		return store.NewSQLite(path)
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("mirror: store.database_url is required for the postgres driver")
		}
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("mirror: unknown store driver %q (want sqlite or postgres)", cfg.Store.Driver)
	}
}

func mirrorPath() (string, error) {
	if cfg.Store.Path != "" {
		return cfg.Store.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "mirror: resolve home dir")
	}
	return filepath.Join(home, ".wandermage", "mirror.db"), nil
}

func init() {
	mirrorCmd.AddCommand(mirrorSyncCmd)
	mirrorCmd.AddCommand(mirrorStatusCmd)
	rootCmd.AddCommand(mirrorCmd)
}
