package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Browse, export, and enrich trips",
}

var (
	tripListStatus string
	tripListYear   int
	tripListLimit  int
)

var tripListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trips",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := tripFilter(tripListStatus, tripListYear, tripListLimit)
		if err != nil {
			return err
		}

		trips, err := apiClient().ListTrips(cmd.Context(), filter)
		if err != nil {
			return checkSession(err)
		}

		if len(trips) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No trips found")
			return nil
		}

		formatTripList(os.Stdout, trips)
		return nil
	},
}

var tripShowCmd = &cobra.Command{
	Use:   "show <trip-id>",
	Short: "Show one trip with its stops",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trip, err := apiClient().GetTrip(cmd.Context(), args[0])
		if err != nil {
			return checkSession(err)
		}

		formatTripDetail(os.Stdout, trip)
		return nil
	},
}

// tripFilter validates list flags into a backend filter.
func tripFilter(status string, year, limit int) (model.TripFilter, error) {
	f := model.TripFilter{Year: year, Limit: limit}
	if status != "" {
		switch s := model.TripStatus(status); s {
		case model.TripDraft, model.TripPlanned, model.TripActive, model.TripCompleted:
			f.Status = s
		default:
			return model.TripFilter{}, eris.Errorf("trip: unknown status %q (want draft, planned, active, or completed)", status)
		}
	}
	return f, nil
}

func formatTripList(out io.Writer, trips []model.Trip) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSTART\tEND\tSTOPS\tMILES")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t-----\t---\t-----\t-----")

	for _, t := range trips {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.0f\n",
			t.ID,
			t.Name,
			t.Status,
			fmtDay(t.StartDate),
			fmtDay(t.EndDate),
			len(t.Stops),
			t.Miles,
		)
	}
	_ = w.Flush()
}

func formatTripDetail(out io.Writer, t *model.Trip) {
	_, _ = fmt.Fprintf(out, "%s  [%s]\n", t.Name, t.Status)
	_, _ = fmt.Fprintf(out, "ID:     %s\n", t.ID)
	_, _ = fmt.Fprintf(out, "Dates:  %s to %s\n", fmtDay(t.StartDate), fmtDay(t.EndDate))
	_, _ = fmt.Fprintf(out, "Miles:  %.0f\n", t.Miles)
	if t.Notes != "" {
		_, _ = fmt.Fprintf(out, "Notes:  %s\n", t.Notes)
	}

	if len(t.Stops) == 0 {
		_, _ = fmt.Fprintln(out, "\nNo stops planned")
		return
	}

	_, _ = fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tSTOP\tSTATE\tNIGHTS\tCOORDS")
	for _, s := range t.Stops {
		label := s.Label
		if label == "" {
			label = s.POIID
		}
		coords := "-"
		if s.Latitude != 0 || s.Longitude != 0 {
			coords = fmt.Sprintf("%.4f,%.4f", s.Latitude, s.Longitude)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", s.Order, label, s.State, s.Nights, coords)
	}
	_ = w.Flush()
}

// fmtDay renders an optional date, "-" when unset.
func fmtDay(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func init() {
	tripListCmd.Flags().StringVar(&tripListStatus, "status", "", "filter by status (draft, planned, active, completed)")
	tripListCmd.Flags().IntVar(&tripListYear, "year", 0, "filter by start year")
	tripListCmd.Flags().IntVar(&tripListLimit, "limit", 0, "cap the number of trips returned")

	tripCmd.AddCommand(tripListCmd)
	tripCmd.AddCommand(tripShowCmd)
	rootCmd.AddCommand(tripCmd)
}
