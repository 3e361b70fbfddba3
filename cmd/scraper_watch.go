package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/poll"
)

var watchIntervalSecs int

var scraperWatchCmd = &cobra.Command{
	Use:   "watch [name]",
	Short: "Live-poll scraper state until interrupted",
	Long:  "Prints state transitions and progress as they happen. Transient poll failures are tolerated; after several in a row the feed is marked stale until polling recovers.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		api := apiClient()

		fetch := api.ListScrapers
		if len(args) == 1 {
			name := args[0]
			// Probe once so an unknown name fails fast instead of looping.
			if _, err := api.GetScraper(ctx, name); err != nil {
				return scraperNotFound(ctx, api, name, err)
			}
			fetch = func(ctx context.Context) ([]model.ScraperStatus, error) {
				sc, err := api.GetScraper(ctx, name)
				if err != nil {
					return nil, err
				}
				return []model.ScraperStatus{*sc}, nil
			}
		}

		interval := time.Duration(cfg.Poll.ScraperSecs) * time.Second
		if watchIntervalSecs > 0 {
			interval = time.Duration(watchIntervalSecs) * time.Second
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching every %s (Ctrl-C to stop)\n", interval)
		view := newWatchView(os.Stdout, cfg.Poll.FailureThreshold)
		poll.Run(ctx, poll.Config{
			Interval:         interval,
			FailureThreshold: cfg.Poll.FailureThreshold,
			RecoveryInterval: time.Duration(cfg.Poll.RecoverySecs) * time.Second,
		}, fetch, view.observe)

		return nil
	},
}

// watchView folds poll updates into a transition feed. The first update
// prints every scraper's state; later ones print only what changed.
type watchView struct {
	out       io.Writer
	threshold int
	prev      map[string]model.ScraperStatus
	stale     bool
}

func newWatchView(out io.Writer, threshold int) *watchView {
	if threshold <= 0 {
		threshold = 3
	}
	return &watchView{
		out:       out,
		threshold: threshold,
		prev:      make(map[string]model.ScraperStatus),
	}
}

func (v *watchView) observe(u poll.Update[[]model.ScraperStatus]) {
	stamp := u.At.Local().Format("15:04:05")

	if u.Err != nil {
		if u.Failures >= v.threshold && !v.stale {
			v.stale = true
			_, _ = fmt.Fprintf(v.out, "%s  data is stale: %d consecutive poll failures\n", stamp, u.Failures)
		}
		return
	}
	if v.stale {
		v.stale = false
		_, _ = fmt.Fprintf(v.out, "%s  polling recovered\n", stamp)
	}

	for _, sc := range u.Value {
		old, seen := v.prev[sc.Name]
		switch {
		case !seen:
			_, _ = fmt.Fprintf(v.out, "%s  %s: %s%s\n", stamp, sc.Name, sc.State, runDetail(sc))
		case old.State != sc.State:
			mark := ""
			if sc.State == model.ScraperFailed {
				mark = "!! "
				zap.L().Warn("scraper failed",
					zap.String("scraper", sc.Name),
					zap.String("error", sc.Error),
				)
			}
			_, _ = fmt.Fprintf(v.out, "%s  %s%s: %s -> %s%s\n", stamp, mark, sc.Name, old.State, sc.State, runDetail(sc))
		case sc.State == model.ScraperRunning && sc.ItemsScraped != old.ItemsScraped:
			_, _ = fmt.Fprintf(v.out, "%s  %s: %s items (%s)\n", stamp, sc.Name, scraperItems(sc), scraperProgress(sc))
		}
		v.prev[sc.Name] = sc
	}
}

// runDetail adds progress or failure context after a state.
func runDetail(sc model.ScraperStatus) string {
	switch sc.State {
	case model.ScraperRunning:
		return fmt.Sprintf(" (%s, %s items)", scraperProgress(sc), scraperItems(sc))
	case model.ScraperFailed:
		if sc.Error != "" {
			return " (" + truncate(sc.Error, 60) + ")"
		}
	}
	return ""
}

func init() {
	scraperWatchCmd.Flags().IntVar(&watchIntervalSecs, "interval", 0, "poll interval in seconds (default from config)")
	scraperCmd.AddCommand(scraperWatchCmd)
}
