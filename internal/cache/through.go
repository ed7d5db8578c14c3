package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Through wraps a fetch operation with read-through caching.
//
// On hit the cached bytes are decoded and returned without invoking fetch.
// On miss, fetch is invoked; its result is encoded and stored under key
// with the given TTL, then returned. A fetch failure propagates unchanged
// and is never cached. A cached entry that fails to decode is treated as
// a miss and overwritten.
//
// Concurrent misses on the same key may each invoke fetch independently;
// last write wins. The bool return reports whether the call was a hit.
func Through[T any](ctx context.Context, store Store, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, bool, error) {
	var result T

	if data, ok := store.Get(ctx, key); ok {
		if err := json.Unmarshal(data, &result); err == nil {
			return result, true, nil
		}
		slog.Warn("discarding undecodable cache entry", "key", key)
	}

	result, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if data, err := json.Marshal(result); err == nil {
		store.Set(ctx, key, data, ttl)
	} else {
		slog.Warn("skipping cache store for unencodable result", "key", key, "error", err)
	}

	return result, false, nil
}
