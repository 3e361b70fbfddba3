package poll

import (
	"context"
	"sync"
	"time"
)

// Source holds the latest polled snapshot of one backend resource. Readers
// (dashboard handlers) never block on backend calls: they read whatever the
// background poller last stored. On failure the previous value is kept so a
// panel can render stale data with an error marker.
type Source[T any] struct {
	mu       sync.RWMutex
	value    T
	err      error
	at       time.Time // time of last successful fetch
	failures int
}

// NewSource returns an empty source. Latest returns the zero value until the
// first successful fetch.
func NewSource[T any]() *Source[T] {
	return &Source[T]{}
}

// Set records one poll update.
func (s *Source[T]) Set(u Update[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = u.Err
	s.failures = u.Failures
	if u.Err == nil {
		s.value = u.Value
		s.at = u.At
	}
}

// Latest returns the most recent value, when it was fetched, and the error
// from the most recent attempt (nil when that attempt succeeded).
func (s *Source[T]) Latest() (T, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.at, s.err
}

// Failures returns the current consecutive-failure count.
func (s *Source[T]) Failures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures
}

// Stale reports whether the last successful fetch is older than maxAge (or
// has never happened).
func (s *Source[T]) Stale(maxAge time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.at.IsZero() || time.Since(s.at) > maxAge
}

// Watch runs a polling loop that feeds this source. It blocks until ctx is
// cancelled, so it is normally started on its own goroutine.
func (s *Source[T]) Watch(ctx context.Context, cfg Config, fetch func(context.Context) (T, error)) {
	Run(ctx, cfg, fetch, s.Set)
}
