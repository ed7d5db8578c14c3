// Package cache provides the TTL key/value store and read-through wrapper
// that shield callers from upstream latency and rate limits.
// Supports both in-process and Redis backends for multi-instance deployments.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store defines the interface for cache storage.
// Implementations must be safe for concurrent use, and must degrade
// gracefully: an unreachable backend is reported as a miss on Get and a
// silent no-op on Set, never as an error to the caller.
type Store interface {
	// Get retrieves a cached value. The second return is false when the
	// key is absent, expired, or the backend is unreachable.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with a per-entry TTL, after which the entry
	// behaves as absent.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Ping reports whether the backend is reachable. Used for health
	// reporting only; it never returns an error.
	Ping(ctx context.Context) bool

	// Close releases any resources held by the store.
	Close() error
}

// Key builds a deterministic cache key from an operation name and its
// ordered argument values. Identical (op, args) always collide; any
// differing argument value yields a different key.
func Key(op string, args ...any) string {
	if len(args) == 0 {
		return op
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, ":")
}
