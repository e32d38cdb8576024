// Package transform implements the per-domain row transformers. Each variant
// consumes a query cursor into a buffered record set, then publishes the
// records to the cache with reply verification. Buffering the full set before
// the first write keeps the source cursor's lifetime short; result sets are a
// few thousand rows per cycle, so memory is not a concern.
package transform

import "context"

// CacheWriter is the slice of the cache protocol the transformers consume.
// Implemented by cache.Writer.
type CacheWriter interface {
	// SetScalar writes key=value with the configured TTL applied atomically.
	SetScalar(ctx context.Context, key, value string) (string, error)
	// SetRecord writes a field map under key; the caller applies the TTL
	// separately with SetExpire once the write is confirmed.
	SetRecord(ctx context.Context, key string, fields map[string]string) (string, error)
	// SetExpire applies the configured TTL to an existing key.
	SetExpire(ctx context.Context, key string) error
}

// StopLookupFunc resolves a journey pattern point number to a metro platform
// short name. The boolean is false when the number is not a metro platform.
type StopLookupFunc func(stopNumber string) (string, bool)
