package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sworrl/WanderMage-sub002/internal/holiday"
)

var holidayCmd = &cobra.Command{
	Use:   "holiday",
	Short: "Inspect the holiday calendar behind seasonal effects",
}

var holidayListYear int

var holidayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List holidays and their effect windows for a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadHolidays()
		if err != nil {
			return err
		}

		year := holidayListYear
		if year == 0 {
			year = time.Now().Year()
		}

		formatHolidayList(os.Stdout, set, year)
		return nil
	},
}

var holidayNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next upcoming holiday",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadHolidays()
		if err != nil {
			return err
		}

		formatHolidayNext(cmd.OutOrStdout(), set, time.Now())
		return nil
	},
}

// loadHolidays returns the built-in calendar plus any custom holidays the
// config points at.
func loadHolidays() (*holiday.Set, error) {
	set := holiday.Builtin()
	if cfg.Holiday.CustomPath != "" {
		custom, err := holiday.LoadCustom(cfg.Holiday.CustomPath)
		if err != nil {
			return nil, err
		}
		set.Add(custom...)
	}
	return set, nil
}

func formatHolidayList(out io.Writer, set *holiday.Set, year int) {
	type row struct {
		h    holiday.Holiday
		date time.Time
	}
	rows := make([]row, 0, len(set.All()))
	for _, h := range set.All() {
		rows = append(rows, row{h: h, date: holiday.DateFor(h, year)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "HOLIDAY\tDATE\tEFFECT WINDOW\tEFFECT")
	_, _ = fmt.Fprintln(w, "-------\t----\t-------------\t------")
	for _, r := range rows {
		start, end := holiday.WindowFor(r.h, year)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s to %s\t%s\n",
			r.h.Name,
			r.date.Format("Mon Jan 02"),
			start.Format("Jan 02"),
			end.Format("Jan 02"),
			r.h.Effect,
		)
	}
	_ = w.Flush()
}

func formatHolidayNext(out io.Writer, set *holiday.Set, now time.Time) {
	h, date := set.Next(now)

	// Civil-day difference; clock time must not shift the count.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(date.Sub(today).Hours() / 24)

	when := fmt.Sprintf("in %d days", days)
	if days == 1 {
		when = "tomorrow"
	}

	_, _ = fmt.Fprintf(out, "%s is %s (%s)\n", h.Name, when, date.Format("Mon Jan 02"))
	if h.Effect != holiday.EffectNone {
		start, end := h.Window.DaysBefore, h.Window.DaysAfter
		_, _ = fmt.Fprintf(out, "Effect: %s, shown from %d days before to %d days after\n", h.Effect, start, end)
	}
}

func init() {
	holidayListCmd.Flags().IntVar(&holidayListYear, "year", 0, "calendar year (default: current)")

	holidayCmd.AddCommand(holidayListCmd)
	holidayCmd.AddCommand(holidayNextCmd)
	rootCmd.AddCommand(holidayCmd)
}
