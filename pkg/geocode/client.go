// Package geocode resolves one-line addresses to coordinates via the US
// Census Bureau geocoder.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sworrl/WanderMage-sub002/internal/config"
)

const (
	defaultBaseURL   = "https://geocoding.geo.census.gov"
	defaultBenchmark = "Public_AR_Current"
	onelinePath      = "/geocoder/locations/onelineaddress"
)

// ErrNoMatch is returned when the geocoder has no candidate for an address.
// Callers distinguish it from transport errors with errors.Is.
var ErrNoMatch = eris.New("geocode: no match for address")

// Client resolves addresses to coordinates.
type Client interface {
	// Geocode resolves a one-line address such as
	// "1600 Pennsylvania Ave NW, Washington, DC 20500".
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the coordinates for a matched address.
type Result struct {
	Latitude       float64
	Longitude      float64
	MatchedAddress string
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client for Census requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for Census calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

type geocoder struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *resultCache
	baseURL    string
	benchmark  string
}

// NewClient creates a Client backed by the Census one-line geocoder.
// Repeated lookups for the same address are served from an in-memory
// cache sized by cfg.CacheSize.
func NewClient(cfg config.GeocodeConfig, opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(5, 5),
		cache:      newResultCache(cfg.CacheSize),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		benchmark:  cfg.Benchmark,
	}
	if g.baseURL == "" {
		g.baseURL = defaultBaseURL
	}
	if g.benchmark == "" {
		g.benchmark = defaultBenchmark
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
