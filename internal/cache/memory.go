package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory implements Store using an in-process TTL cache.
// This is the fallback when no Redis backend is configured or reachable.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates a new in-process store. Expired entries are swept
// every 10 minutes; expiry is also enforced on Get.
func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

// Get retrieves a value from the in-process cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// Set stores a value with the given TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}

// Ping always reports true: the in-process store cannot be unreachable.
func (m *Memory) Ping(_ context.Context) bool {
	return true
}

// Close is a no-op for the in-process store.
func (m *Memory) Close() error {
	return nil
}
