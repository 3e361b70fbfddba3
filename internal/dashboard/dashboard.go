// Package dashboard assembles backend data into snapshots and renders them
// as a one-shot terminal summary or a local web dashboard. Sections of a
// snapshot fetch concurrently and fail independently, so one broken endpoint
// degrades a single panel instead of the whole board.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/pkg/wanderapi"
)

// Snapshot sections. Fetch failures are recorded under these keys.
const (
	SectionSummary  = "summary"
	SectionScrapers = "scrapers"
	SectionVisits   = "visits"
	SectionDensity  = "density"

	sectionCount = 4
)

// Backend is the slice of the WanderMage API the dashboard reads.
type Backend interface {
	Summary(ctx context.Context) (*model.SummaryStats, error)
	ListScrapers(ctx context.Context) ([]model.ScraperStatus, error)
	StateVisits(ctx context.Context) ([]model.StateVisit, error)
	POIDensity(ctx context.Context) (map[string]int, error)
}

var _ Backend = (wanderapi.Client)(nil)

// Snapshot is one collected view of the backend. A section that failed to
// fetch stays zero and its error text lands in Errors under the section name.
type Snapshot struct {
	TakenAt  time.Time             `json:"taken_at"`
	Summary  *model.SummaryStats   `json:"summary,omitempty"`
	Scrapers []model.ScraperStatus `json:"scrapers,omitempty"`
	Visits   []model.StateVisit    `json:"visits,omitempty"`
	Density  map[string]int        `json:"poi_density,omitempty"`
	Errors   map[string]string     `json:"errors,omitempty"`
}

// Complete reports whether every section fetched successfully.
func (s *Snapshot) Complete() bool {
	return len(s.Errors) == 0
}

// Collector fetches snapshot sections from a backend in parallel.
type Collector struct {
	backend Backend
}

func NewCollector(b Backend) *Collector {
	return &Collector{backend: b}
}

// Collect fetches all sections concurrently and returns whatever it got.
// Section failures are recorded in the snapshot rather than aborting the
// rest; the returned error is non-nil only when every section failed, which
// is the signal a polling loop uses to count the backend as down.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		TakenAt: time.Now(),
		Errors:  make(map[string]string),
	}

	var mu sync.Mutex
	fail := func(section string, err error) {
		zap.L().Warn("snapshot section failed",
			zap.String("section", section),
			zap.Error(err))
		mu.Lock()
		snap.Errors[section] = err.Error()
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sum, err := c.backend.Summary(gctx)
		if err != nil {
			fail(SectionSummary, err)
			return nil // other panels still render
		}
		mu.Lock()
		snap.Summary = sum
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		scrapers, err := c.backend.ListScrapers(gctx)
		if err != nil {
			fail(SectionScrapers, err)
			return nil
		}
		mu.Lock()
		snap.Scrapers = scrapers
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		visits, err := c.backend.StateVisits(gctx)
		if err != nil {
			fail(SectionVisits, err)
			return nil
		}
		mu.Lock()
		snap.Visits = visits
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		density, err := c.backend.POIDensity(gctx)
		if err != nil {
			fail(SectionDensity, err)
			return nil
		}
		mu.Lock()
		snap.Density = density
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return snap, eris.Wrap(err, "dashboard: collect snapshot")
	}

	if len(snap.Errors) == sectionCount {
		return snap, eris.New("dashboard: every snapshot section failed")
	}
	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	return snap, nil
}
