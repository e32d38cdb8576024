package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// successReply is the Redis simple-string acknowledgement for SET-family
// commands. Every dependent action is gated on it via IsSuccess.
const successReply = "OK"

// IsSuccess reports whether a Redis reply is the success marker. Call sites
// must gate dependent writes on this rather than assuming success.
func IsSuccess(response string) bool {
	return strings.EqualFold(response, successReply)
}

// Writer is the cache-write protocol used by the transformers. Every key it
// writes carries the same TTL, configured once per process lifetime. Writes
// pass through a circuit breaker: repeated connectivity failures trip it so a
// cycle stops hammering an unreachable cache, and the open-breaker error
// surfaces to the caller like any other connectivity failure.
type Writer struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

// NewWriter creates a Writer applying the given TTL to every written key.
func NewWriter(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "redis-writer",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})
	return &Writer{client: client, ttl: ttl, breaker: cb, logger: logger}
}

// TTL returns the retention window applied to written keys.
func (w *Writer) TTL() time.Duration {
	return w.ttl
}

// SetScalar writes key=value with the TTL applied atomically (SETEX), so
// there is no window in which the key exists without an expiry.
func (w *Writer) SetScalar(ctx context.Context, key, value string) (string, error) {
	return w.breaker.Execute(func() (string, error) {
		return w.client.SetEx(ctx, key, value, w.ttl).Result()
	})
}

// SetRecord writes a multi-field record under key. The hash write primitive
// carries no TTL of its own; the caller must follow a confirmed SetRecord
// with SetExpire.
func (w *Writer) SetRecord(ctx context.Context, key string, fields map[string]string) (string, error) {
	args := make([]any, 0, 2+2*len(fields))
	args = append(args, "hmset", key)
	for field, value := range fields {
		args = append(args, field, value)
	}
	return w.breaker.Execute(func() (string, error) {
		return w.client.Do(ctx, args...).Text()
	})
}

// SetExpire applies the configured TTL to an existing key.
func (w *Writer) SetExpire(ctx context.Context, key string) error {
	_, err := w.breaker.Execute(func() (string, error) {
		ok, err := w.client.Expire(ctx, key, w.ttl).Result()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("no key %s to expire", key)
		}
		return successReply, nil
	})
	return err
}

// RecordCycleTimestamp writes the current UTC instant to the heartbeat key.
// Called once per fully completed cycle, never per row. The key is not
// expired: a stale timestamp is exactly what liveness checks look for.
func (w *Writer) RecordCycleTimestamp(ctx context.Context) error {
	ts := time.Now().UTC().Format(time.RFC3339)
	w.logger.Info("updating last cache update timestamp", "timestamp", ts)
	resp, err := w.breaker.Execute(func() (string, error) {
		return w.client.Set(ctx, KeyLastCacheUpdate, ts, 0).Result()
	})
	if err != nil {
		return fmt.Errorf("writing cache update timestamp: %w", err)
	}
	if !IsSuccess(resp) {
		return fmt.Errorf("writing cache update timestamp: unexpected reply %q", resp)
	}
	return nil
}

// Ping verifies connectivity to the cache.
func (w *Writer) Ping(ctx context.Context) error {
	return w.client.Ping(ctx).Err()
}
