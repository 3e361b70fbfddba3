package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/poll"
	"github.com/sworrl/WanderMage-sub002/pkg/wanderapi"
)

var scraperCmd = &cobra.Command{
	Use:   "scraper",
	Short: "Inspect and control the backend's data scrapers",
	Long:  "The backend runs scrapers that keep campground, fuel, and dump station data fresh. These commands watch and control them remotely.",
}

var scraperListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all scrapers",
	RunE: func(cmd *cobra.Command, args []string) error {
		scrapers, err := apiClient().ListScrapers(cmd.Context())
		if err != nil {
			return checkSession(err)
		}
		if len(scrapers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No scrapers reported")
			return nil
		}

		formatScraperList(os.Stdout, scrapers)
		return nil
	},
}

var scraperStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show one scraper in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := apiClient()
		sc, err := api.GetScraper(cmd.Context(), args[0])
		if err != nil {
			return scraperNotFound(cmd.Context(), api, args[0], err)
		}

		formatScraperDetail(os.Stdout, sc)
		return nil
	},
}

var scraperWait bool

var scraperStartCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start a scraper run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		api := apiClient()
		sc, err := api.StartScraper(ctx, args[0])
		if err != nil {
			return scraperNotFound(ctx, api, args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", sc.Name, sc.State)
		if !scraperWait {
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Waiting for the run to finish (Ctrl-C to detach)")
		final, err := waitScraper(ctx, api, sc.Name)
		if err != nil {
			return checkSession(err)
		}
		formatScraperDetail(os.Stdout, final)
		if final.State == model.ScraperFailed {
			return eris.Errorf("scraper: %s run failed", final.Name)
		}
		return nil
	},
}

var scraperStopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a running scraper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		api := apiClient()
		sc, err := api.StopScraper(ctx, args[0])
		if err != nil {
			return scraperNotFound(ctx, api, args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", sc.Name, sc.State)
		if !scraperWait || sc.State.Terminal() {
			return nil
		}

		final, err := waitScraper(ctx, api, sc.Name)
		if err != nil {
			return checkSession(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", final.Name, final.State)
		return nil
	},
}

// waitScraper polls until the scraper's state settles. Scrape runs can be
// long, so the wait gets its own generous bound.
func waitScraper(ctx context.Context, api wanderapi.Client, name string) (*model.ScraperStatus, error) {
	return poll.Until(ctx, poll.UntilConfig{Timeout: 30 * time.Minute},
		func(ctx context.Context) (*model.ScraperStatus, error) {
			return api.GetScraper(ctx, name)
		},
		func(sc *model.ScraperStatus) bool { return sc.State.Terminal() })
}

// scraperNotFound turns a 404 into an error naming the scrapers that do
// exist. Other errors pass through the usual session check.
func scraperNotFound(ctx context.Context, api wanderapi.Client, name string, err error) error {
	var apiErr *wanderapi.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		return checkSession(err)
	}

	known, listErr := api.ListScrapers(ctx)
	if listErr != nil || len(known) == 0 {
		return err
	}
	return eris.Errorf("scraper: no scraper named %q (known: %s)", name, strings.Join(scraperNames(known), ", "))
}

func scraperNames(scrapers []model.ScraperStatus) []string {
	names := make([]string, len(scrapers))
	for i, sc := range scrapers {
		names[i] = sc.Name
	}
	return names
}

func formatScraperList(out io.Writer, scrapers []model.ScraperStatus) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSTATE\tPROGRESS\tITEMS\tLAST RUN\tERROR")
	_, _ = fmt.Fprintln(w, "----\t-----\t--------\t-----\t--------\t-----")

	for _, sc := range scrapers {
		errMsg := ""
		if sc.Error != "" {
			errMsg = truncate(sc.Error, 60)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			sc.Name,
			sc.State,
			scraperProgress(sc),
			scraperItems(sc),
			fmtStamp(sc.LastRun),
			errMsg,
		)
	}
	_ = w.Flush()
}

func formatScraperDetail(out io.Writer, sc *model.ScraperStatus) {
	_, _ = fmt.Fprintf(out, "%s  [%s]\n", sc.Name, sc.State)
	_, _ = fmt.Fprintf(out, "Progress:     %s\n", scraperProgress(*sc))
	_, _ = fmt.Fprintf(out, "Items:        %s\n", scraperItems(*sc))
	_, _ = fmt.Fprintf(out, "Last run:     %s\n", fmtStamp(sc.LastRun))
	_, _ = fmt.Fprintf(out, "Last success: %s\n", fmtStamp(sc.LastSuccess))
	if sc.Error != "" {
		_, _ = fmt.Fprintf(out, "Error:        %s\n", sc.Error)
	}
}

// scraperProgress renders run progress, "-" unless a run is underway.
func scraperProgress(sc model.ScraperStatus) string {
	if sc.State != model.ScraperRunning {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", sc.Progress*100)
}

func scraperItems(sc model.ScraperStatus) string {
	if sc.TotalItems > 0 {
		return fmt.Sprintf("%d/%d", sc.ItemsScraped, sc.TotalItems)
	}
	return fmt.Sprintf("%d", sc.ItemsScraped)
}

func fmtStamp(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	scraperStartCmd.Flags().BoolVar(&scraperWait, "wait", false, "poll until the run settles")
	scraperStopCmd.Flags().BoolVar(&scraperWait, "wait", false, "poll until the run settles")

	scraperCmd.AddCommand(scraperListCmd)
	scraperCmd.AddCommand(scraperStatusCmd)
	scraperCmd.AddCommand(scraperStartCmd)
	scraperCmd.AddCommand(scraperStopCmd)
	rootCmd.AddCommand(scraperCmd)
}
