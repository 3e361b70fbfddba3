package dashboard

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

// numbers formats counts with thousands separators for the terminal view.
var numbers = message.NewPrinter(language.English)

const topStates = 8

// RenderText writes a snapshot as a plain terminal block: summary, scraper
// table, top visited states, and any section errors.
func RenderText(out io.Writer, snap *Snapshot) {
	_, _ = fmt.Fprintf(out, "WanderMage status  %s\n\n", snap.TakenAt.Local().Format("2006-01-02 15:04 MST"))

	writeSummary(out, snap)
	writeScrapers(out, snap)
	writeTopStates(out, snap)
	writeErrors(out, snap)
}

func writeSummary(out io.Writer, snap *Snapshot) {
	s := snap.Summary
	if s == nil {
		_, _ = fmt.Fprintf(out, "  summary unavailable: %s\n\n", snap.Errors[SectionSummary])
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "  Trips\t%s (%d active)\n", numbers.Sprintf("%d", s.TotalTrips), s.ActiveTrips)
	_, _ = fmt.Fprintf(w, "  Miles logged\t%s\n", numbers.Sprintf("%.0f", s.TotalMiles))
	_, _ = fmt.Fprintf(w, "  POIs tracked\t%s\n", numbers.Sprintf("%d", s.POICount))
	_, _ = fmt.Fprintf(w, "  States visited\t%d\n", s.StatesVisited)
	_, _ = fmt.Fprintf(w, "  Last scrape\t%s\n", fmtTime(s.LastScrapeAt))
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

func writeScrapers(out io.Writer, snap *Snapshot) {
	if len(snap.Scrapers) == 0 && snap.Errors[SectionScrapers] == "" {
		return
	}
	_, _ = fmt.Fprintln(out, "Scrapers")
	if msg := snap.Errors[SectionScrapers]; msg != "" {
		_, _ = fmt.Fprintf(out, "  unavailable: %s\n\n", msg)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "  NAME\tSTATE\tPROGRESS\tITEMS\tLAST RUN\tERROR")
	for _, sc := range snap.Scrapers {
		errMsg := sc.Error
		if len(errMsg) > 40 {
			errMsg = errMsg[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			sc.Name,
			sc.State,
			progress(sc),
			items(sc.ItemsScraped, sc.TotalItems),
			fmtTime(sc.LastRun),
			errMsg,
		)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

func writeTopStates(out io.Writer, snap *Snapshot) {
	if len(snap.Visits) == 0 {
		return
	}

	_, _ = fmt.Fprintln(out, "Top visited states")
	for _, v := range topVisits(snap.Visits, topStates) {
		line := fmt.Sprintf("  %-3s %s visits", v.State, numbers.Sprintf("%d", v.Visits))
		if v.LastVisited != nil {
			line += "  (last " + v.LastVisited.Format("2006-01-02") + ")"
		}
		_, _ = fmt.Fprintln(out, line)
	}
	_, _ = fmt.Fprintln(out)
}

func writeErrors(out io.Writer, snap *Snapshot) {
	if snap.Complete() {
		return
	}
	sections := make([]string, 0, len(snap.Errors))
	for section := range snap.Errors {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	_, _ = fmt.Fprintln(out, "Section errors")
	for _, section := range sections {
		_, _ = fmt.Fprintf(out, "  %s: %s\n", section, snap.Errors[section])
	}
}

// topVisits returns the n most-visited states, ties broken by state code so
// output is stable.
func topVisits(visits []model.StateVisit, n int) []model.StateVisit {
	sorted := append([]model.StateVisit(nil), visits...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Visits != sorted[j].Visits {
			return sorted[i].Visits > sorted[j].Visits
		}
		return sorted[i].State < sorted[j].State
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func progress(sc model.ScraperStatus) string {
	if sc.State != model.ScraperRunning {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", sc.Progress*100)
}

func items(scraped, total int) string {
	if total > 0 {
		return numbers.Sprintf("%d/%d", scraped, total)
	}
	return numbers.Sprintf("%d", scraped)
}

func fmtTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
