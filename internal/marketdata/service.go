// Package marketdata is the provider-abstraction and caching layer: it
// decides which upstream to call, normalizes the reply, and memoizes
// results keyed by request parameters with per-data-kind expiration.
package marketdata

import (
	"context"
	"strings"

	"stockd/config"
	"stockd/internal/cache"
	"stockd/internal/core"
	"stockd/internal/observability"
)

// Operation names used for cache keys and metrics labels.
const (
	opPrice      = "price"
	opHistorical = "historical"
	opDividends  = "dividends"
)

// Defaults applied when a caller passes a non-positive parameter.
const (
	DefaultHistoricalDays = 365
	DefaultDividendLimit  = 10
)

// Service exposes the fetch operations consumed by the HTTP layer.
// Each operation is read-through cached with its own TTL; within a TTL
// window a fixed (operation, arguments) pair returns the value stored at
// the window's start. Cache unavailability never surfaces to callers.
type Service struct {
	source   core.Source
	store    cache.Store
	provider config.Provider
	ttl      config.TTLConfig
	metrics  *observability.Metrics
}

// New creates the market-data service for the active provider.
func New(cfg *config.Config, source core.Source, store cache.Store, metrics *observability.Metrics) *Service {
	return &Service{
		source:   source,
		store:    store,
		provider: cfg.Provider,
		ttl:      cfg.TTL,
		metrics:  metrics,
	}
}

// Provider returns the active upstream provider, for health reporting.
func (s *Service) Provider() config.Provider {
	return s.provider
}

// CacheAlive reports whether the cache backend is reachable.
func (s *Service) CacheAlive(ctx context.Context) bool {
	return s.store.Ping(ctx)
}

// normalizeTicker trims and uppercases a ticker so equivalent requests
// share a cache key. An empty symbol is rejected before any upstream or
// cache work happens; stricter validation belongs to the upstream.
func normalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", core.NewInvalidRequestError("ticker must not be empty", nil)
	}
	return t, nil
}

// GetPrice returns the current price for ticker, cached for the price TTL.
func (s *Service) GetPrice(ctx context.Context, ticker string) (*core.Quote, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	quote, hit, err := cache.Through(ctx, s.store, cache.Key(opPrice, t), s.ttl.Price,
		func(ctx context.Context) (*core.Quote, error) {
			q, err := s.source.Quote(ctx, t)
			s.metrics.RecordUpstream(string(s.provider), opPrice, err)
			return q, err
		})
	if err != nil {
		return nil, err
	}
	s.recordCache(opPrice, hit)
	return quote, nil
}

// GetHistorical returns up to days of daily bars for ticker, oldest
// first, cached for the historical TTL. days defaults to 365.
func (s *Service) GetHistorical(ctx context.Context, ticker string, days int) ([]core.HistoricalRecord, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultHistoricalDays
	}

	records, hit, err := cache.Through(ctx, s.store, cache.Key(opHistorical, t, days), s.ttl.Historical,
		func(ctx context.Context) ([]core.HistoricalRecord, error) {
			recs, err := s.source.Historical(ctx, t, days)
			s.metrics.RecordUpstream(string(s.provider), opHistorical, err)
			return recs, err
		})
	if err != nil {
		return nil, err
	}
	s.recordCache(opHistorical, hit)
	return records, nil
}

// GetDividends returns the most recent limit dividend payments for
// ticker, cached for the dividends TTL. limit defaults to 10.
func (s *Service) GetDividends(ctx context.Context, ticker string, limit int) ([]core.Dividend, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultDividendLimit
	}

	dividends, hit, err := cache.Through(ctx, s.store, cache.Key(opDividends, t, limit), s.ttl.Dividends,
		func(ctx context.Context) ([]core.Dividend, error) {
			divs, err := s.source.Dividends(ctx, t, limit)
			s.metrics.RecordUpstream(string(s.provider), opDividends, err)
			return divs, err
		})
	if err != nil {
		return nil, err
	}
	s.recordCache(opDividends, hit)
	return dividends, nil
}

func (s *Service) recordCache(operation string, hit bool) {
	if hit {
		s.metrics.RecordCacheHit(operation)
	} else {
		s.metrics.RecordCacheMiss(operation)
	}
}
