// Package upstream provides a factory for creating upstream source instances.
package upstream

import (
	"fmt"

	"stockd/config"
	"stockd/internal/core"
)

// Builder creates a source instance from configuration
type Builder func(cfg *config.Config) core.Source

// registry holds all registered source builders
var registry = make(map[config.Provider]Builder)

// Register allows upstream packages to register themselves.
// This should be called from init() functions in upstream packages.
func Register(p config.Provider, builder Builder) {
	registry[p] = builder
}

// New instantiates the active source based on configuration.
// Configuration validation already rejects unknown provider names at
// startup; this guards against an upstream package that was never linked in.
func New(cfg *config.Config) (core.Source, error) {
	builder, ok := registry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Provider)
	}
	return builder(cfg), nil
}

// ListRegistered returns a list of all registered provider types
func ListRegistered() []config.Provider {
	types := make([]config.Provider, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}
