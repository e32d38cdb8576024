package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	fn := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}

	err := Retry(context.Background(), testLogger(), RetryPolicy{Attempts: 5, Backoff: time.Millisecond}, "dep", fn)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUpAfterConfiguredAttempts(t *testing.T) {
	calls := 0
	fn := func(context.Context) error {
		calls++
		return errors.New("still down")
	}

	err := Retry(context.Background(), testLogger(), RetryPolicy{Attempts: 3, Backoff: time.Millisecond}, "dep", fn)

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "dep not available after 3 attempts")
	assert.Contains(t, err.Error(), "still down")
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(context.Context) error {
		cancel()
		return errors.New("down")
	}

	err := Retry(ctx, testLogger(), RetryPolicy{Attempts: 10, Backoff: time.Hour}, "dep", fn)

	assert.ErrorIs(t, err, context.Canceled)
}
