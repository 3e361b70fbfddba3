package wanderapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/resilience"
)

// newTestServer starts a test backend and returns a client pointed at it.
// Retries are disabled so error-path tests return immediately.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-token",
		WithBaseURL(srv.URL),
		WithRetry(resilience.RetryConfig{MaxAttempts: 1}),
	)
	return srv, c
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login is unauthenticated")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "wanda@example.com", req.Email)
		assert.Equal(t, "hunter2", req.Password)

		json.NewEncoder(w).Encode(Session{
			Token:     "wm_token_abc",
			ExpiresAt: time.Now().Add(24 * time.Hour),
			Account:   Account{ID: "u-1", Email: "wanda@example.com", Name: "Wanda"},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClient("", WithBaseURL(srv.URL), WithRetry(resilience.RetryConfig{MaxAttempts: 1}))
	sess, err := c.Login(context.Background(), "wanda@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "wm_token_abc", sess.Token)
	assert.Equal(t, "u-1", sess.Account.ID)
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad credentials"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("", WithBaseURL(srv.URL), WithRetry(resilience.RetryConfig{MaxAttempts: 1}))
	_, err := c.Login(context.Background(), "wanda@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestMe(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(Account{ID: "u-1", Email: "wanda@example.com", HomeState: "CO"})
	})

	acct, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CO", acct.HomeState)
}

func TestListTrips(t *testing.T) {
	tests := []struct {
		name      string
		filter    model.TripFilter
		wantQuery map[string]string
	}{
		{
			name:      "no filter",
			filter:    model.TripFilter{},
			wantQuery: map[string]string{},
		},
		{
			name:   "status and year",
			filter: model.TripFilter{Status: model.TripCompleted, Year: 2025, Limit: 10},
			wantQuery: map[string]string{
				"status": "completed",
				"year":   "2025",
				"limit":  "10",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/trips", r.URL.Path)
				q := r.URL.Query()
				assert.Len(t, q, len(tt.wantQuery))
				for k, want := range tt.wantQuery {
					assert.Equal(t, want, q.Get(k))
				}

				json.NewEncoder(w).Encode([]model.Trip{
					{ID: "t-1", Name: "Desert Loop", Status: model.TripCompleted, Miles: 1840},
				})
			})

			trips, err := c.ListTrips(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, trips, 1)
			assert.Equal(t, "Desert Loop", trips[0].Name)
		})
	}
}

func TestGetTrip(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/trips/t-42", r.URL.Path)
		json.NewEncoder(w).Encode(model.Trip{
			ID:     "t-42",
			Name:   "Pacific Coast",
			Status: model.TripActive,
			Stops: []model.Stop{
				{Order: 1, Label: "Crescent City", State: "CA", Nights: 2},
			},
		})
	})

	trip, err := c.GetTrip(context.Background(), "t-42")
	require.NoError(t, err)
	assert.Equal(t, "Pacific Coast", trip.Name)
	require.Len(t, trip.Stops, 1)
	assert.Equal(t, "CA", trip.Stops[0].State)
}

func TestListPOIs(t *testing.T) {
	tests := []struct {
		name      string
		query     model.POIQuery
		wantQuery map[string]string
	}{
		{
			name:      "by state and type",
			query:     model.POIQuery{State: "UT", Type: model.POICampground, Limit: 25},
			wantQuery: map[string]string{"state": "UT", "type": "campground", "limit": "25"},
		},
		{
			name:      "proximity",
			query:     model.POIQuery{Lat: 36.1, Lon: -112.1, Radius: 50},
			wantQuery: map[string]string{"lat": "36.1", "lon": "-112.1", "radius": "50"},
		},
		{
			name: "bounding box",
			query: model.POIQuery{
				BBox: &model.BBox{MinLat: 36, MinLon: -113, MaxLat: 37, MaxLon: -111},
			},
			wantQuery: map[string]string{"bbox": "-113,36,-111,37"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/pois", r.URL.Path)
				q := r.URL.Query()
				assert.Len(t, q, len(tt.wantQuery))
				for k, want := range tt.wantQuery {
					assert.Equal(t, want, q.Get(k))
				}

				json.NewEncoder(w).Encode([]model.POI{
					{ID: "p-1", Name: "Mather Campground", Type: model.POICampground, State: "AZ"},
				})
			})

			pois, err := c.ListPOIs(context.Background(), tt.query)
			require.NoError(t, err)
			require.Len(t, pois, 1)
			assert.Equal(t, model.POICampground, pois[0].Type)
		})
	}
}

func TestStateVisits(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/states", r.URL.Path)
		json.NewEncoder(w).Encode([]model.StateVisit{
			{State: "CO", Visits: 7},
			{State: "NM", Visits: 3},
		})
	})

	visits, err := c.StateVisits(context.Background())
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, 7, visits[0].Visits)
}

func TestPOIDensity(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/poi-density", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]int{"TX": 412, "MT": 98})
	})

	density, err := c.POIDensity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 412, density["TX"])
	assert.Equal(t, 98, density["MT"])
}

func TestSummary(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/summary", r.URL.Path)
		json.NewEncoder(w).Encode(model.SummaryStats{
			TotalTrips:    12,
			ActiveTrips:   1,
			TotalMiles:    23500,
			POICount:      8421,
			StatesVisited: 31,
		})
	})

	stats, err := c.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalTrips)
	assert.Equal(t, 31, stats.StatesVisited)
}

func TestListScrapers(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/scrapers", r.URL.Path)
		json.NewEncoder(w).Encode([]model.ScraperStatus{
			{Name: "campgrounds", State: model.ScraperRunning, Progress: 0.4},
			{Name: "fuel-prices", State: model.ScraperIdle},
		})
	})

	scrapers, err := c.ListScrapers(context.Background())
	require.NoError(t, err)
	require.Len(t, scrapers, 2)
	assert.Equal(t, model.ScraperRunning, scrapers[0].State)
}

func TestScraperControl(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c Client) (*model.ScraperStatus, error)
		wantPath string
	}{
		{
			name: "get",
			call: func(c Client) (*model.ScraperStatus, error) {
				return c.GetScraper(context.Background(), "fuel-prices")
			},
			wantPath: "/api/scrapers/fuel-prices",
		},
		{
			name: "start",
			call: func(c Client) (*model.ScraperStatus, error) {
				return c.StartScraper(context.Background(), "fuel-prices")
			},
			wantPath: "/api/scrapers/fuel-prices/start",
		},
		{
			name: "stop",
			call: func(c Client) (*model.ScraperStatus, error) {
				return c.StopScraper(context.Background(), "fuel-prices")
			},
			wantPath: "/api/scrapers/fuel-prices/stop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				json.NewEncoder(w).Encode(model.ScraperStatus{Name: "fuel-prices", State: model.ScraperQueued})
			})

			status, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, "fuel-prices", status.Name)
		})
	}
}

func TestUnknownScraper(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"unknown scraper"}`))
	})

	_, err := c.GetScraper(context.Background(), "nope")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.False(t, errors.Is(err, ErrUnauthorized), "404 is not an auth failure")
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
	})
	assert.NoError(t, c.Health(context.Background()))
}

func TestUnauthorized(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	})

	_, err := c.Summary(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-token",
		WithBaseURL(srv.URL),
		WithRetry(resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}),
	)

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad request"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-token",
		WithBaseURL(srv.URL),
		WithRetry(resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}),
	)

	_, err := c.Summary(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestContextCancellation(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Should never reach here
		t.Error("request should have been cancelled")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.Summary(ctx)
	require.Error(t, err)
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()
	e := &APIError{StatusCode: 503, Body: `{"error":"maintenance"}`}
	assert.Equal(t, `wanderapi: HTTP 503: {"error":"maintenance"}`, e.Error())
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()
	customClient := &http.Client{}
	c := NewClient("token", WithHTTPClient(customClient))
	hc := c.(*httpClient)
	assert.Equal(t, customClient, hc.http)
}

func TestWithRateLimit(t *testing.T) {
	t.Parallel()
	c := NewClient("token", WithRateLimit(0, 0))
	assert.Nil(t, c.(*httpClient).limiter)

	c = NewClient("token", WithRateLimit(3, 2))
	assert.NotNil(t, c.(*httpClient).limiter)
}

func TestMalformedJSON(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{not json`))
	})

	_, err := c.Summary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
