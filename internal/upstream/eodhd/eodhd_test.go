package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockd/internal/core"
)

func newTestSource(t *testing.T, apiKey string, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.Client(), srv.URL, apiKey)
}

func TestQuoteAppendsExchangeSuffix(t *testing.T) {
	src := newTestSource(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/real-time/AAPL.US" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "test-token" {
			t.Errorf("expected api_token query param, got %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"code":"AAPL.US","close":187.44,"timestamp":1700000000}`)
	})

	quote, err := src.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 187.44 || quote.Ticker != "AAPL" || quote.Provider != "eodhd" {
		t.Fatalf("unexpected quote: %+v", quote)
	}
}

func TestQuoteKeepsExplicitExchange(t *testing.T) {
	src := newTestSource(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/real-time/SAP.XETRA" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"code":"SAP.XETRA","close":178.12,"timestamp":1700000000}`)
	})

	if _, err := src.Quote(context.Background(), "SAP.XETRA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHistoricalKeepsUpstreamOrder(t *testing.T) {
	src := newTestSource(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eod/AAPL.US" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("from") == "" {
			t.Errorf("expected from query param, got %q", r.URL.RawQuery)
		}
		// EODHD returns oldest first.
		fmt.Fprint(w, `[
			{"date":"2024-01-02","open":187.1,"high":188.4,"low":183.9,"close":185.6,"volume":82488700},
			{"date":"2024-01-03","open":184.2,"high":185.9,"low":183.4,"close":184.3,"volume":58414400}
		]`)
	})

	records, err := src.Historical(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Date != "2024-01-02" || records[1].Date != "2024-01-03" {
		t.Fatalf("expected oldest first, got %+v", records)
	}
}

func TestDividendsMostRecentFirst(t *testing.T) {
	src := newTestSource(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/div/AAPL.US" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `[
			{"date":"2023-08-11","value":0.24},
			{"date":"2023-11-10","value":0.24},
			{"date":"2024-02-09","value":0.25}
		]`)
	})

	dividends, err := src.Dividends(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dividends) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(dividends))
	}
	if dividends[0].Date != "2024-02-09" || dividends[0].Amount != 0.25 {
		t.Fatalf("expected most recent first, got %+v", dividends)
	}
}

func TestMissingKeyIsPerCallAuthError(t *testing.T) {
	called := false
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := src.Historical(context.Background(), "AAPL", 30)
	var marketErr *core.MarketError
	if !errors.As(err, &marketErr) || marketErr.Type != core.ErrorTypeAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if called {
		t.Fatal("missing key must fail before any HTTP request")
	}
}

func TestQuoteUnknownSymbol(t *testing.T) {
	src := newTestSource(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NOPE.US","close":0,"timestamp":0}`)
	})

	_, err := src.Quote(context.Background(), "NOPE")
	var marketErr *core.MarketError
	if !errors.As(err, &marketErr) || marketErr.Type != core.ErrorTypeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
