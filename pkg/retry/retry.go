// Package retry wraps read operations in a bounded retry with linear
// backoff. Mutations must never go through here: a write that failed may
// have partially applied, so the caller reconciles instead of replaying.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Config controls how many extra attempts a read gets and how long the
// waits between them grow.
type Config struct {
	// Attempts is the number of retries after the initial call.
	Attempts int
	// BaseDelay is multiplied by the attempt number: attempt 1 waits
	// BaseDelay, attempt 2 waits 2*BaseDelay, and so on.
	BaseDelay time.Duration
	// OnRetry fires before each retry wait, for metrics and logging.
	OnRetry func(attempt int, err error)
}

// DefaultConfig matches the read policy used across the catalog: two
// retries with a 300ms linear base.
func DefaultConfig() Config {
	return Config{Attempts: 2, BaseDelay: 300 * time.Millisecond}
}

// Do runs op, retrying on failure per cfg. The last error is returned
// unwrapped once the attempts are exhausted. Context cancellation stops
// the loop immediately.
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if cfg.Attempts < 0 {
		cfg.Attempts = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 300 * time.Millisecond
	}

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(cfg.Attempts), linearBackoff(cfg.BaseDelay))

	var result T
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, err := op(ctx)
		if err != nil {
			attempt++
			if cfg.OnRetry != nil && attempt <= cfg.Attempts {
				cfg.OnRetry(attempt, err)
			}
			return retry.RetryableError(err)
		}
		result = out
		return nil
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}

func linearBackoff(base time.Duration) retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * base, false
	})
}
