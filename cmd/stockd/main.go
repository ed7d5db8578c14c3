// Package main is the entry point for the stockd market-data gateway.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"stockd/config"
	"stockd/internal/cache"
	"stockd/internal/logging"
	"stockd/internal/marketdata"
	"stockd/internal/observability"
	"stockd/internal/server"
	"stockd/internal/upstream"

	// Import upstream packages to trigger their init() registration
	_ "stockd/internal/upstream/eodhd"
	_ "stockd/internal/upstream/fmp"
	_ "stockd/internal/upstream/yfinance"
)

func main() {
	logging.Setup()

	// An unknown provider name is a configuration error: halt startup.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting stockd",
		"provider", cfg.Provider,
		"price_ttl", cfg.TTL.Price,
		"historical_ttl", cfg.TTL.Historical,
		"dividends_ttl", cfg.TTL.Dividends,
	)

	store := buildStore(cfg)
	defer func() {
		_ = store.Close()
	}()

	source, err := upstream.New(cfg)
	if err != nil {
		slog.Error("failed to initialize upstream provider", "error", err)
		os.Exit(1)
	}

	metrics := observability.New(prometheus.DefaultRegisterer)
	svc := marketdata.New(cfg, source, store, metrics)
	srv := server.New(svc)

	// Handle graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "address", addr)

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}

// buildStore selects the cache backend. A configured Redis backend is
// kept even when it is unreachable at startup: the store degrades to
// pass-through per call and recovers once Redis comes back, while the
// health endpoint reports the outage. Only a missing or unparseable
// REDIS_URL falls back to the in-process store.
func buildStore(cfg *config.Config) cache.Store {
	if cfg.RedisURL == "" {
		slog.Info("no REDIS_URL configured, using in-process cache")
		return cache.NewMemory()
	}

	store, err := cache.NewRedis(cfg.RedisURL)
	if err != nil {
		slog.Warn("invalid REDIS_URL, falling back to in-process cache", "error", err)
		return cache.NewMemory()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !store.Ping(ctx) {
		slog.Warn("redis unreachable at startup, caching degrades to pass-through until it recovers")
	} else {
		slog.Info("redis cache connected")
	}
	return store
}
