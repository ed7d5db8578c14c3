package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockd/config"
	"stockd/internal/cache"
	"stockd/internal/core"
	"stockd/internal/marketdata"
)

// fakeSource implements core.Source for handler tests.
type fakeSource struct {
	quoteCalls int
	quoteErr   error
}

func (f *fakeSource) Quote(_ context.Context, ticker string) (*core.Quote, error) {
	f.quoteCalls++
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return &core.Quote{
		Ticker:    ticker,
		Price:     187.44,
		Currency:  "USD",
		Timestamp: time.Unix(1700000000, 0).UTC(),
		Provider:  "yfinance",
	}, nil
}

func (f *fakeSource) Historical(_ context.Context, _ string, days int) ([]core.HistoricalRecord, error) {
	return []core.HistoricalRecord{
		{Date: "2024-01-02", Close: 185.6},
		{Date: "2024-01-03", Close: 184.3},
	}, nil
}

func (f *fakeSource) Dividends(_ context.Context, _ string, limit int) ([]core.Dividend, error) {
	return []core.Dividend{{Date: "2024-02-09", Amount: 0.25}}, nil
}

func newTestServer(source core.Source) *Server {
	cfg := &config.Config{
		Provider: config.ProviderYFinance,
		TTL: config.TTLConfig{
			Price:      time.Minute,
			Historical: time.Minute,
			Dividends:  time.Minute,
		},
	}
	svc := marketdata.New(cfg, source, cache.NewMemory(), nil)
	return New(svc)
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestPriceEndpoint(t *testing.T) {
	source := &fakeSource{}
	srv := newTestServer(source)

	rec := doRequest(srv, http.MethodGet, "/api/price/AAPL")
	require.Equal(t, http.StatusOK, rec.Code)

	var quote core.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, "AAPL", quote.Ticker)
	assert.Equal(t, 187.44, quote.Price)
	assert.Equal(t, "yfinance", quote.Provider)

	// Second request is served from cache.
	rec = doRequest(srv, http.MethodGet, "/api/price/AAPL")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, source.quoteCalls)
}

func TestHistoricalEndpoint(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	rec := doRequest(srv, http.MethodGet, "/api/historical/AAPL?days=30")
	require.Equal(t, http.StatusOK, rec.Code)

	var records []core.HistoricalRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-02", records[0].Date)
}

func TestHistoricalEndpointRejectsBadDays(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	rec := doRequest(srv, http.MethodGet, "/api/historical/AAPL?days=soon")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "invalid_request_error", payload["error"]["type"])
}

func TestDividendsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	rec := doRequest(srv, http.MethodGet, "/api/dividends/AAPL?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var dividends []core.Dividend
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dividends))
	require.Len(t, dividends, 1)
	assert.Equal(t, 0.25, dividends[0].Amount)
}

func TestUpstreamErrorMapping(t *testing.T) {
	source := &fakeSource{quoteErr: core.NewNotFoundError("yfinance", "unknown symbol: NOPE")}
	srv := newTestServer(source)

	rec := doRequest(srv, http.MethodGet, "/api/price/NOPE")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "not_found_error", payload["error"]["type"])
	assert.Equal(t, "unknown symbol: NOPE", payload["error"]["message"])
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	rec := doRequest(srv, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "yfinance", health["provider"])
	assert.Equal(t, true, health["cache"])
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	rec := doRequest(srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stockd")
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(&fakeSource{})

	rec := doRequest(srv, http.MethodGet, "/health")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
