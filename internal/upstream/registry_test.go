package upstream

import (
	"context"
	"testing"

	"stockd/config"
	"stockd/internal/core"
)

type stubSource struct{}

func (stubSource) Quote(context.Context, string) (*core.Quote, error) { return &core.Quote{}, nil }
func (stubSource) Historical(context.Context, string, int) ([]core.HistoricalRecord, error) {
	return nil, nil
}
func (stubSource) Dividends(context.Context, string, int) ([]core.Dividend, error) {
	return nil, nil
}

func TestRegisterAndNew(t *testing.T) {
	const testProvider = config.Provider("registry-test")
	Register(testProvider, func(*config.Config) core.Source { return stubSource{} })

	src, err := New(&config.Config{Provider: testProvider})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src == nil {
		t.Fatal("expected a source instance")
	}

	found := false
	for _, p := range ListRegistered() {
		if p == testProvider {
			found = true
		}
	}
	if !found {
		t.Fatal("registered provider missing from ListRegistered")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(&config.Config{Provider: config.Provider("never-registered")})
	if err == nil {
		t.Fatal("expected error for unregistered provider type")
	}
	want := "unknown provider type: never-registered"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
