// Package retry provides bounded exponential-backoff retries for operations
// that can fail transiently. Domain rejections (NotFound, BusinessRule) are
// never retried: retrying them can only repeat the same answer.
package retry

import (
	"context"
	"time"

	"github.com/jcmexdev/backoffice/internal/apperr"
)

// Config controls the retry loop.
type Config struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before the second attempt
	MaxDelay    time.Duration // backoff ceiling
	Multiplier  float64       // backoff growth factor
}

// DefaultConfig matches the policy on the customer write path:
// up to 3 attempts, 500ms base delay, doubling each time.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
	}
}

// Do executes fn, retrying transient failures with exponential backoff.
// It stops immediately on success, on context cancellation, or when fn
// returns a NotFound or BusinessRule error.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T
	backoff := cfg.BaseDelay

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if apperr.IsNotFound(err) || apperr.IsBusiness(err) {
			return zero, err
		}

		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * cfg.Multiplier)
				if backoff > cfg.MaxDelay {
					backoff = cfg.MaxDelay
				}
			}
		}
	}

	return zero, lastErr
}
