package poll

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultUntilInitial = 2 * time.Second
	defaultUntilCap     = 15 * time.Second
	defaultUntilTimeout = 5 * time.Minute
)

// UntilConfig controls Until's backoff schedule.
type UntilConfig struct {
	// Initial delay between fetches. Default: 2s.
	Initial time.Duration
	// Cap bounds the backoff. Default: 15s.
	Cap time.Duration
	// Timeout bounds the whole wait, applied only when the parent context has
	// no deadline. Default: 5m.
	Timeout time.Duration
}

func (c UntilConfig) withDefaults() UntilConfig {
	if c.Initial <= 0 {
		c.Initial = defaultUntilInitial
	}
	if c.Cap <= 0 {
		c.Cap = defaultUntilCap
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultUntilTimeout
	}
	return c
}

// Until fetches repeatedly until done reports the value is settled, the fetch
// fails, or the context expires. The delay between fetches doubles up to the
// cap. Used for "wait until the scraper finishes" flows.
func Until[T any](ctx context.Context, cfg UntilConfig, fetch func(context.Context) (T, error), done func(T) bool) (T, error) {
	cfg = cfg.withDefaults()

	var zero T

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	interval := cfg.Initial
	for {
		val, err := fetch(ctx)
		if err != nil {
			return zero, eris.Wrap(err, "poll: fetch")
		}
		if done(val) {
			return val, nil
		}

		select {
		case <-ctx.Done():
			return zero, eris.Wrap(ctx.Err(), "poll: wait timed out")
		case <-time.After(interval):
		}

		interval *= 2
		if interval > cfg.Cap {
			interval = cfg.Cap
		}
	}
}
