package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 400 * time.Millisecond
)

// Retrier wraps Store.Insert with bounded retry and linearly increasing
// backoff. Persistence here is best-effort: the outcome is a boolean, never
// an error, so callers cannot accidentally let a failed write block the
// reply path.
type Retrier struct {
	store    Store
	attempts int
	backoff  time.Duration
}

// NewRetrier creates a Retrier with the default policy: 3 attempts, waiting
// 400ms x attempt-number between them.
func NewRetrier(s Store) *Retrier {
	return &Retrier{store: s, attempts: defaultAttempts, backoff: defaultBackoff}
}

// NewRetrierWithPolicy creates a Retrier with an explicit attempt count and
// base backoff. Used by tests to keep delays short.
func NewRetrierWithPolicy(s Store, attempts int, backoff time.Duration) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{store: s, attempts: attempts, backoff: backoff}
}

// Insert attempts the write, retrying on failure. The error is logged only
// after the final attempt fails. Context cancellation stops the wait early
// and counts as failure.
func (r *Retrier) Insert(ctx context.Context, table string, record any) bool {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := r.store.Insert(ctx, table, record); err == nil {
			return true
		} else {
			lastErr = err
		}

		if attempt == r.attempts {
			break
		}

		// Linear backoff: base x attempt number.
		timer := time.NewTimer(r.backoff * time.Duration(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			log.Error().
				Str("table", table).
				Err(lastErr).
				AnErr("ctx", ctx.Err()).
				Msg("Durable write abandoned, context done")
			return false
		}
	}

	log.Error().
		Str("table", table).
		Int("attempts", r.attempts).
		Err(lastErr).
		Msg("Durable write failed after retries")
	return false
}
