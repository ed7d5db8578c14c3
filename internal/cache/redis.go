package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Store using Redis for distributed caching.
// This is suitable for multi-instance deployments behind a load balancer.
// Backend failures are logged and reported as cache misses; they never
// surface to callers.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed store from a connection URL
// (e.g. "redis://localhost:6379" or "redis://:password@host:6379/0").
// The connection is not probed here; use Ping to check liveness.
func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

// Get retrieves a value from Redis. Unreachable backend counts as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("redis get failed, treating as miss", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set stores a value in Redis with a per-entry TTL. Failures are logged
// and the write is skipped.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("redis set failed, skipping store", "key", key, "error", err)
	}
}

// Ping reports whether the Redis backend is reachable.
func (r *Redis) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
