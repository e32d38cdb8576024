package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy bounds startup dependency probing. Backoff doubles after every
// failed attempt.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Retry runs fn until it succeeds, the policy's attempts are exhausted, or
// the context is cancelled. It is used at startup for the source and cache
// connections so a missing dependency fails the process visibly instead of
// hanging forever.
func Retry(ctx context.Context, logger *slog.Logger, policy RetryPolicy, name string, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	backoff := policy.Backoff
	var err error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == policy.Attempts {
			break
		}
		logger.Warn("dependency not ready, retrying",
			"dependency", name,
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%s not available after %d attempts: %w", name, policy.Attempts, err)
}
