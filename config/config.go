// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider identifies an upstream market-data source. The set is closed:
// the active provider is chosen once at process start and never changes.
type Provider string

const (
	ProviderYFinance Provider = "yfinance"
	ProviderFMP      Provider = "fmp"
	ProviderEODHD    Provider = "eodhd"
)

// Providers lists every supported upstream, in registration order.
var Providers = []Provider{ProviderYFinance, ProviderFMP, ProviderEODHD}

// Default TTLs per data kind. Live prices go stale quickly; dividend
// history barely moves. These values are part of the caching contract.
const (
	DefaultPriceTTL      = 300 * time.Second
	DefaultHistoricalTTL = 86400 * time.Second
	DefaultDividendsTTL  = 604800 * time.Second
)

// Config holds the application configuration, resolved once at startup
// and passed by reference; there is no ambient global lookup.
type Config struct {
	Server   ServerConfig
	Provider Provider
	FMPKey   string
	EODHDKey string
	RedisURL string
	TTL      TTLConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// TTLConfig holds the per-data-kind cache expirations.
type TTLConfig struct {
	Price      time.Duration
	Historical time.Duration
	Dividends  time.Duration
}

// APIKey returns the credential for the given provider, empty when the
// provider needs none or none is configured. Absence of an unused
// provider's key is not an error.
func (c *Config) APIKey(p Provider) string {
	switch p {
	case ProviderFMP:
		return c.FMPKey
	case ProviderEODHD:
		return c.EODHDKey
	default:
		return ""
	}
}

// Load reads configuration from the environment, with an optional .env
// file for local development. An unknown PROVIDER value is a fatal
// configuration error: the name is matched case-sensitively against the
// closed provider set so a typo fails startup instead of a request.
func Load() (*Config, error) {
	// Optional, won't fail if not found
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Provider: Provider(getEnv("PROVIDER", string(ProviderYFinance))),
		FMPKey:   os.Getenv("FMP_KEY"),
		EODHDKey: os.Getenv("EODHD_KEY"),
		RedisURL: os.Getenv("REDIS_URL"),
		TTL: TTLConfig{
			Price:      getEnvDuration("PRICE_TTL", DefaultPriceTTL),
			Historical: getEnvDuration("HISTORICAL_TTL", DefaultHistoricalTTL),
			Dividends:  getEnvDuration("DIVIDENDS_TTL", DefaultDividendsTTL),
		},
	}

	if !knownProvider(cfg.Provider) {
		return nil, fmt.Errorf("unknown provider %q (supported: %v)", cfg.Provider, Providers)
	}

	return cfg, nil
}

func knownProvider(p Provider) bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvDuration reads a duration from an environment variable, returning
// the default if not set or invalid. Accepts plain integers (seconds) or
// Go duration strings (e.g. "10m", "1h30m").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}
