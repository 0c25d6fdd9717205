// Package cache provides a small string cache used to memoize slow backend
// lookups (shipping methods per zone, catalog pages).
//
// Two implementations exist: a Redis-backed cache for deployments and an
// in-process map for tests and single-instance setups without Redis.
package cache

import (
	"context"
	"time"
)

// Cache stores string values under namespaced keys with a TTL.
type Cache interface {
	// Set writes a value. A zero ttl means no expiration.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get reads a value. A miss returns ok=false with a nil error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Key builds a namespaced cache key for an operation.
	Key(operation, key string) string
}
