// Package wanderapi is the typed client for the WanderMage backend REST API.
package wanderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/resilience"
)

// Default base URL for a locally running WanderMage backend.
const defaultBaseURL = "http://localhost:8420"

// ErrUnauthorized is matched (via errors.Is) by any 401 response. Callers
// treat it as "session expired, log in again".
var ErrUnauthorized = eris.New("wanderapi: unauthorized")

// Client defines the WanderMage backend operations.
type Client interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context) (*Account, error)
	ListTrips(ctx context.Context, filter model.TripFilter) ([]model.Trip, error)
	GetTrip(ctx context.Context, id string) (*model.Trip, error)
	ListPOIs(ctx context.Context, q model.POIQuery) ([]model.POI, error)
	StateVisits(ctx context.Context) ([]model.StateVisit, error)
	POIDensity(ctx context.Context) (map[string]int, error)
	Summary(ctx context.Context) (*model.SummaryStats, error)
	ListScrapers(ctx context.Context) ([]model.ScraperStatus, error)
	GetScraper(ctx context.Context, name string) (*model.ScraperStatus, error)
	StartScraper(ctx context.Context, name string) (*model.ScraperStatus, error)
	StopScraper(ctx context.Context, name string) (*model.ScraperStatus, error)
	Health(ctx context.Context) error
}

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wanderapi: HTTP %d: %s", e.StatusCode, e.Body)
}

// Is lets a 401 APIError match ErrUnauthorized in errors.Is chains.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default client-side rate limit (10 req/s).
// rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		} else {
			c.limiter = nil
		}
	}
}

// WithRetry overrides the default retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a new WanderMage API client. token may be empty for
// unauthenticated calls (Login, Health).
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(10, 5),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var sess Session
	if err := c.post(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &sess); err != nil {
		return nil, eris.Wrap(err, "wanderapi: login")
	}
	return &sess, nil
}

func (c *httpClient) Me(ctx context.Context) (*Account, error) {
	var acct Account
	if err := c.get(ctx, "/api/auth/me", &acct); err != nil {
		return nil, eris.Wrap(err, "wanderapi: get account")
	}
	return &acct, nil
}

func (c *httpClient) ListTrips(ctx context.Context, filter model.TripFilter) ([]model.Trip, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Year > 0 {
		q.Set("year", strconv.Itoa(filter.Year))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var trips []model.Trip
	if err := c.get(ctx, withQuery("/api/trips", q), &trips); err != nil {
		return nil, eris.Wrap(err, "wanderapi: list trips")
	}
	return trips, nil
}

func (c *httpClient) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	var trip model.Trip
	if err := c.get(ctx, "/api/trips/"+url.PathEscape(id), &trip); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("wanderapi: get trip %s", id))
	}
	return &trip, nil
}

func (c *httpClient) ListPOIs(ctx context.Context, query model.POIQuery) ([]model.POI, error) {
	q := url.Values{}
	if query.State != "" {
		q.Set("state", query.State)
	}
	if query.Type != "" {
		q.Set("type", string(query.Type))
	}
	if query.BBox != nil {
		b := query.BBox
		q.Set("bbox", fmt.Sprintf("%g,%g,%g,%g", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat))
	}
	if query.Near() {
		q.Set("lat", strconv.FormatFloat(query.Lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(query.Lon, 'f', -1, 64))
		q.Set("radius", strconv.FormatFloat(query.Radius, 'f', -1, 64))
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}

	var pois []model.POI
	if err := c.get(ctx, withQuery("/api/pois", q), &pois); err != nil {
		return nil, eris.Wrap(err, "wanderapi: list pois")
	}
	return pois, nil
}

func (c *httpClient) StateVisits(ctx context.Context) ([]model.StateVisit, error) {
	var visits []model.StateVisit
	if err := c.get(ctx, "/api/stats/states", &visits); err != nil {
		return nil, eris.Wrap(err, "wanderapi: state visits")
	}
	return visits, nil
}

func (c *httpClient) POIDensity(ctx context.Context) (map[string]int, error) {
	var density map[string]int
	if err := c.get(ctx, "/api/stats/poi-density", &density); err != nil {
		return nil, eris.Wrap(err, "wanderapi: poi density")
	}
	return density, nil
}

func (c *httpClient) Summary(ctx context.Context) (*model.SummaryStats, error) {
	var stats model.SummaryStats
	if err := c.get(ctx, "/api/stats/summary", &stats); err != nil {
		return nil, eris.Wrap(err, "wanderapi: summary")
	}
	return &stats, nil
}

func (c *httpClient) ListScrapers(ctx context.Context) ([]model.ScraperStatus, error) {
	var scrapers []model.ScraperStatus
	if err := c.get(ctx, "/api/scrapers", &scrapers); err != nil {
		return nil, eris.Wrap(err, "wanderapi: list scrapers")
	}
	return scrapers, nil
}

func (c *httpClient) GetScraper(ctx context.Context, name string) (*model.ScraperStatus, error) {
	var status model.ScraperStatus
	if err := c.get(ctx, "/api/scrapers/"+url.PathEscape(name), &status); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("wanderapi: get scraper %s", name))
	}
	return &status, nil
}

func (c *httpClient) StartScraper(ctx context.Context, name string) (*model.ScraperStatus, error) {
	var status model.ScraperStatus
	if err := c.post(ctx, "/api/scrapers/"+url.PathEscape(name)+"/start", nil, &status); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("wanderapi: start scraper %s", name))
	}
	return &status, nil
}

func (c *httpClient) StopScraper(ctx context.Context, name string) (*model.ScraperStatus, error) {
	var status model.ScraperStatus
	if err := c.post(ctx, "/api/scrapers/"+url.PathEscape(name)+"/stop", nil, &status); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("wanderapi: stop scraper %s", name))
	}
	return &status, nil
}

func (c *httpClient) Health(ctx context.Context) error {
	var health healthResponse
	if err := c.get(ctx, "/api/health", &health); err != nil {
		return eris.Wrap(err, "wanderapi: health")
	}
	return nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
	}
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do executes the request with rate limiting and transient-failure retries.
// The payload is re-read on each attempt.
func (c *httpClient) do(ctx context.Context, method, path string, payload []byte, out any) error {
	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.doOnce(ctx, method, path, payload, out)
	})
}

func (c *httpClient) doOnce(ctx context.Context, method, path string, payload []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit")
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(apiErr, resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
