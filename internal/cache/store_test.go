package cache

import (
	"context"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		if Key("price", "AAPL") != Key("price", "AAPL") {
			t.Fatal("identical (op, args) must produce identical keys")
		}
	})

	t.Run("DistinctAcrossArgs", func(t *testing.T) {
		if Key("price", "AAPL") == Key("price", "MSFT") {
			t.Fatal("different tickers must produce different keys")
		}
		if Key("historical", "AAPL", 30) == Key("historical", "AAPL", 90) {
			t.Fatal("different numeric args must produce different keys")
		}
	})

	t.Run("DistinctAcrossOps", func(t *testing.T) {
		if Key("price", "AAPL") == Key("dividends", "AAPL") {
			t.Fatal("different operations must produce different keys")
		}
	})

	t.Run("NoArgs", func(t *testing.T) {
		if Key("status") != "status" {
			t.Fatalf("unexpected key: %q", Key("status"))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("GetSetRoundTrip", func(t *testing.T) {
		store := NewMemory()

		if _, ok := store.Get(ctx, "missing"); ok {
			t.Fatal("expected miss for absent key")
		}

		store.Set(ctx, "k", []byte("v"), time.Minute)
		got, ok := store.Get(ctx, "k")
		if !ok {
			t.Fatal("expected hit after set")
		}
		if string(got) != "v" {
			t.Fatalf("expected %q, got %q", "v", got)
		}
	})

	t.Run("EntryExpires", func(t *testing.T) {
		store := NewMemory()
		store.Set(ctx, "k", []byte("v"), 20*time.Millisecond)

		if _, ok := store.Get(ctx, "k"); !ok {
			t.Fatal("expected hit within TTL")
		}

		time.Sleep(30 * time.Millisecond)
		if _, ok := store.Get(ctx, "k"); ok {
			t.Fatal("expected miss after TTL elapsed")
		}
	})

	t.Run("PingAlwaysTrue", func(t *testing.T) {
		store := NewMemory()
		if !store.Ping(ctx) {
			t.Fatal("in-process store must always be alive")
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		store := NewMemory()
		done := make(chan struct{})
		for i := 0; i < 8; i++ {
			go func() {
				defer func() { done <- struct{}{} }()
				for j := 0; j < 100; j++ {
					store.Set(ctx, "shared", []byte("v"), time.Minute)
					store.Get(ctx, "shared")
				}
			}()
		}
		for i := 0; i < 8; i++ {
			<-done
		}
	})

	t.Run("CloseIsNoOp", func(t *testing.T) {
		if err := NewMemory().Close(); err != nil {
			t.Fatalf("unexpected error on close: %v", err)
		}
	})
}
