package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/borders"
	"github.com/sworrl/WanderMage-sub002/internal/choropleth"
	"github.com/sworrl/WanderMage-sub002/internal/effects"
	"github.com/sworrl/WanderMage-sub002/internal/holiday"
	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/poll"
)

//go:embed index.html
var indexFS embed.FS

var indexTmpl = template.Must(template.ParseFS(indexFS, "index.html"))

// Options configures the dashboard server.
type Options struct {
	Port int

	// Refresh is the snapshot poll interval, also used for the overview
	// page's auto-refresh. Scraper state polls on its own faster loop.
	Refresh        time.Duration
	ScraperRefresh time.Duration

	// FailureThreshold and RecoveryInterval tune the poll circuit breaker.
	FailureThreshold int
	RecoveryInterval time.Duration

	// Shapes is the state boundary geometry for the map endpoints. Empty
	// shapes turn those endpoints into 503s rather than failing startup.
	Shapes    []borders.StateShape
	MapWidth  float64
	MapLabels bool

	// Holidays and Effects drive the seasonal overlay.
	Holidays *holiday.Set
	Effects  effects.Config

	// Now overrides the clock in tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = 8080
	}
	if o.Refresh <= 0 {
		o.Refresh = 30 * time.Second
	}
	if o.ScraperRefresh <= 0 {
		o.ScraperRefresh = 5 * time.Second
	}
	if o.MapWidth <= 0 {
		o.MapWidth = 960
	}
	if o.Holidays == nil {
		o.Holidays = holiday.Builtin()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Server is the local web dashboard. Handlers only read the latest polled
// snapshot, so requests never block on backend calls.
type Server struct {
	opts      Options
	collector *Collector
	backend   Backend

	snap     *poll.Source[*Snapshot]
	scrapers *poll.Source[[]model.ScraperStatus]

	visited choropleth.Renderer
	density choropleth.Renderer

	log *zap.Logger
}

func NewServer(backend Backend, opts Options) *Server {
	opts = opts.withDefaults()
	return &Server{
		opts:      opts,
		collector: NewCollector(backend),
		backend:   backend,
		snap:      poll.NewSource[*Snapshot](),
		scrapers:  poll.NewSource[[]model.ScraperStatus](),
		visited:   choropleth.NewVisitedRenderer(opts.MapWidth, opts.MapLabels),
		density:   choropleth.NewDensityRenderer(opts.MapWidth, opts.MapLabels),
		log:       zap.L().With(zap.String("component", "dashboard")),
	}
}

// Start runs the background pollers and the HTTP server until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	pollCfg := poll.Config{
		Interval:         s.opts.Refresh,
		FailureThreshold: s.opts.FailureThreshold,
		RecoveryInterval: s.opts.RecoveryInterval,
	}
	go s.snap.Watch(ctx, pollCfg, s.collector.Collect)

	scraperCfg := pollCfg
	scraperCfg.Interval = s.opts.ScraperRefresh
	go s.scrapers.Watch(ctx, scraperCfg, s.backend.ListScrapers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.opts.Port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.log.Info("shutting down dashboard server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("dashboard shutdown", zap.Error(err))
		}
	}()

	s.log.Info("dashboard listening",
		zap.Int("port", s.opts.Port),
		zap.Duration("refresh", s.opts.Refresh))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "dashboard: listen")
	}
	return nil
}

// Handler returns the dashboard routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/api/snapshot", s.handleSnapshot)
	r.Get("/maps/visited.svg", s.handleVisitedMap)
	r.Get("/maps/poi-density.svg", s.handleDensityMap)
	r.Get("/effects/current.svg", s.handleCurrentEffect)
	r.Get("/charts/states", s.handleStatesChart)
	r.Get("/charts/types", s.handleTypesChart)
	r.Get("/healthz", s.handleHealthz)
	return r
}

// currentSnapshot merges the latest collected snapshot with the faster
// scraper poll. It returns a copy, so handlers never mutate shared poller
// state.
func (s *Server) currentSnapshot() *Snapshot {
	latest, _, err := s.snap.Latest()

	var snap Snapshot
	if latest != nil {
		snap = *latest
	}
	if len(snap.Errors) > 0 || err != nil {
		errs := make(map[string]string, len(snap.Errors)+1)
		for k, v := range snap.Errors {
			errs[k] = v
		}
		if err != nil {
			errs["poll"] = err.Error()
		}
		snap.Errors = errs
	}

	if scrapers, at, scErr := s.scrapers.Latest(); scErr == nil && at.After(snap.TakenAt) {
		snap.Scrapers = scrapers
		delete(snap.Errors, SectionScrapers)
	}
	return &snap
}

type indexView struct {
	Refresh     int
	TakenAt     string
	Summary     *model.SummaryStats
	Miles       string
	POIs        string
	Scrapers    []scraperRow
	Errors      []sectionError
	EffectSVG   template.HTML
	HolidayName string
}

type scraperRow struct {
	Name     string
	State    string
	Progress string
	Items    string
	LastRun  string
	Error    string
}

type sectionError struct {
	Section string
	Message string
}

func (s *Server) buildIndexView(snap *Snapshot) indexView {
	view := indexView{
		Refresh: int(s.opts.Refresh / time.Second),
		Summary: snap.Summary,
	}
	if !snap.TakenAt.IsZero() {
		view.TakenAt = snap.TakenAt.Local().Format("2006-01-02 15:04:05")
	}
	if snap.Summary != nil {
		view.Miles = numbers.Sprintf("%.0f", snap.Summary.TotalMiles)
		view.POIs = numbers.Sprintf("%d", snap.Summary.POICount)
	}
	for _, sc := range snap.Scrapers {
		view.Scrapers = append(view.Scrapers, scraperRow{
			Name:     sc.Name,
			State:    string(sc.State),
			Progress: progress(sc),
			Items:    items(sc.ItemsScraped, sc.TotalItems),
			LastRun:  fmtTime(sc.LastRun),
			Error:    sc.Error,
		})
	}

	sections := make([]string, 0, len(snap.Errors))
	for section := range snap.Errors {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	for _, section := range sections {
		view.Errors = append(view.Errors, sectionError{Section: section, Message: snap.Errors[section]})
	}

	// Inline the seasonal overlay only while a holiday window is active.
	// The SVG is our own generated markup, never request data.
	now := s.opts.Now()
	if svg := effects.ForDate(s.opts.Holidays, now, s.opts.Effects, dailySeed(now)); len(svg) > 0 {
		view.EffectSVG = template.HTML(svg)
		if active := s.opts.Holidays.Active(now); len(active) > 0 {
			view.HolidayName = active[0].Name
		}
	}
	return view
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := s.buildIndexView(s.currentSnapshot())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, view); err != nil {
		s.log.Error("render index", zap.Error(err))
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.currentSnapshot()); err != nil {
		s.log.Error("encode snapshot", zap.Error(err))
	}
}

func (s *Server) handleVisitedMap(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	s.writeMap(w, s.visited, choropleth.VisitValues(snap.Visits))
}

func (s *Server) handleDensityMap(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	s.writeMap(w, s.density, snap.Density)
}

func (s *Server) writeMap(w http.ResponseWriter, renderer choropleth.Renderer, values map[string]int) {
	if len(s.opts.Shapes) == 0 {
		http.Error(w, "state boundaries not loaded", http.StatusServiceUnavailable)
		return
	}
	svg, err := renderer.Render(s.opts.Shapes, values)
	if err != nil {
		s.log.Error("render map", zap.Error(err))
		http.Error(w, "map render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// handleCurrentEffect serves the active holiday effect, or 404 outside any
// holiday window. An optional date=YYYY-MM-DD query previews other days.
func (s *Server) handleCurrentEffect(w http.ResponseWriter, r *http.Request) {
	date := s.opts.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	svg := effects.ForDate(s.opts.Holidays, date, s.opts.Effects, dailySeed(date))
	if len(svg) == 0 {
		http.Error(w, "no active holiday effect", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleStatesChart(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderChart(w, statesBar(snap.Density)); err != nil {
		s.log.Error("render states chart", zap.Error(err))
	}
}

func (s *Server) handleTypesChart(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	var byType map[model.POIType]int
	if snap.Summary != nil {
		byType = snap.Summary.POIByType
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderChart(w, typesPie(byType)); err != nil {
		s.log.Error("render types chart", zap.Error(err))
	}
}

// handleHealthz reports ok while the snapshot is fresh and degraded once the
// poller has missed three refresh cycles.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.snap.Stale(3 * s.opts.Refresh) {
		status = "degraded"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// dailySeed keys effect randomness to the calendar day, so the overlay holds
// still across page refreshes but varies day to day.
func dailySeed(t time.Time) int64 {
	y, m, d := t.Date()
	return int64(y*10000 + int(m)*100 + d)
}
