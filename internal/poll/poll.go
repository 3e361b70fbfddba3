// Package poll provides fixed-interval polling primitives for backend data.
// It is the service-side equivalent of the dashboard panels' refresh timers:
// each panel's data source is fetched on a ticker and the latest snapshot is
// handed to the consumer.
package poll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/resilience"
)

// Config controls one polling loop.
type Config struct {
	// Interval between fetches. Floored to 1s so a misconfigured loop cannot
	// hammer the backend.
	Interval time.Duration

	// FailureThreshold is the number of consecutive failures before the loop's
	// circuit opens and fetches are suspended. Default: 3.
	FailureThreshold int

	// RecoveryInterval is how long fetches stay suspended after the circuit
	// opens. Defaults to 4x Interval.
	RecoveryInterval time.Duration

	// floor overrides the 1s interval floor in tests.
	floor time.Duration
}

// Update carries one poll result. Failures counts consecutive errors up to
// and including this update; it is 0 on success.
type Update[T any] struct {
	Value    T
	Err      error
	Failures int
	At       time.Time
}

func (c Config) withDefaults() Config {
	if c.floor <= 0 {
		c.floor = time.Second
	}
	if c.Interval < c.floor {
		c.Interval = c.floor
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 3
	}
	if c.RecoveryInterval <= 0 {
		c.RecoveryInterval = 4 * c.Interval
	}
	return c
}

// Run fetches on a fixed interval and delivers every result to onUpdate,
// starting with an immediate first fetch. It blocks until ctx is cancelled.
// After FailureThreshold consecutive failures the loop's circuit breaker
// opens: ticks keep arriving but fetches short-circuit with
// resilience.ErrCircuitOpen until RecoveryInterval has passed, then a probe
// fetch decides whether normal polling resumes.
func Run[T any](ctx context.Context, cfg Config, fetch func(context.Context) (T, error), onUpdate func(Update[T])) {
	cfg = cfg.withDefaults()

	log := zap.L().With(zap.String("component", "poll"))

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.FailureThreshold,
		ResetTimeout:     cfg.RecoveryInterval,
		OnStateChange: func(from, to resilience.CircuitState) {
			switch to {
			case resilience.CircuitOpen:
				log.Warn("polling suspended",
					zap.Duration("recovery_interval", cfg.RecoveryInterval))
			case resilience.CircuitClosed:
				log.Info("polling resumed")
			}
		},
	})

	failures := 0
	tick := func() {
		val, err := resilience.ExecuteVal(ctx, cb, fetch)
		if err != nil {
			failures++
		} else {
			failures = 0
		}
		onUpdate(Update[T]{Value: val, Err: err, Failures: failures, At: time.Now()})
	}

	tick()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
