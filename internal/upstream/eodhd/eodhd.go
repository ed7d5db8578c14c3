// Package eodhd provides EOD Historical Data integration for the
// market-data gateway. EODHD requires an API token (EODHD_KEY).
package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stockd/config"
	"stockd/internal/apiclient"
	"stockd/internal/core"
	"stockd/internal/upstream"
)

const (
	providerName   = "eodhd"
	defaultBaseURL = "https://eodhd.com/api"
)

func init() {
	upstream.Register(config.ProviderEODHD, func(cfg *config.Config) core.Source {
		return New(cfg.APIKey(config.ProviderEODHD))
	})
}

// Source implements core.Source against the EODHD API.
type Source struct {
	client *apiclient.Client
	apiKey string
	now    func() time.Time
}

// New creates a new EODHD source. An empty apiKey is not an error here;
// it surfaces as an authentication error on the first call.
func New(apiKey string) *Source {
	return &Source{
		client: apiclient.New(providerName, defaultBaseURL, nil),
		apiKey: apiKey,
		now:    time.Now,
	}
}

// NewWithHTTPClient creates a source backed by a custom HTTP client and
// base URL, used by tests to point at an httptest server.
func NewWithHTTPClient(httpClient *http.Client, baseURL, apiKey string) *Source {
	return &Source{
		client: apiclient.NewWithHTTPClient(httpClient, providerName, baseURL, nil),
		apiKey: apiKey,
		now:    time.Now,
	}
}

func (s *Source) checkKey() error {
	if s.apiKey == "" {
		return core.NewAuthenticationError(providerName, "EODHD_KEY is not configured")
	}
	return nil
}

// symbol maps a bare ticker onto EODHD's TICKER.EXCHANGE form, defaulting
// to the US composite exchange when no suffix is given.
func symbol(ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + ".US"
}

type eodhdRealTime struct {
	Code      string  `json:"code"`
	Close     float64 `json:"close"`
	Timestamp int64   `json:"timestamp"`
}

// Quote fetches the current price from /real-time/{symbol}.
func (s *Source) Quote(ctx context.Context, ticker string) (*core.Quote, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	var rt eodhdRealTime
	endpoint := fmt.Sprintf("/real-time/%s?api_token=%s&fmt=json", symbol(ticker), s.apiKey)
	if err := s.client.Get(ctx, endpoint, &rt); err != nil {
		return nil, err
	}
	if rt.Close == 0 && rt.Timestamp == 0 {
		return nil, core.NewNotFoundError(providerName, "unknown symbol: "+ticker)
	}

	return &core.Quote{
		Ticker:    ticker,
		Price:     rt.Close,
		Currency:  "USD",
		Timestamp: time.Unix(rt.Timestamp, 0).UTC(),
		Provider:  providerName,
	}, nil
}

type eodhdBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Historical fetches daily bars since now-days from /eod/{symbol}.
// EODHD returns them oldest first, which is already the normalized order.
func (s *Source) Historical(ctx context.Context, ticker string, days int) ([]core.HistoricalRecord, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	from := s.now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	var bars []eodhdBar
	endpoint := fmt.Sprintf("/eod/%s?api_token=%s&fmt=json&period=d&from=%s", symbol(ticker), s.apiKey, from)
	if err := s.client.Get(ctx, endpoint, &bars); err != nil {
		return nil, err
	}

	records := make([]core.HistoricalRecord, 0, len(bars))
	for _, b := range bars {
		records = append(records, core.HistoricalRecord{
			Date:   b.Date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return records, nil
}

type eodhdDividend struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Dividends fetches dividend history from /div/{symbol} and returns the
// most recent limit payments, most recent first. EODHD returns the full
// history oldest first.
func (s *Source) Dividends(ctx context.Context, ticker string, limit int) ([]core.Dividend, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	var raw []eodhdDividend
	endpoint := fmt.Sprintf("/div/%s?api_token=%s&fmt=json", symbol(ticker), s.apiKey)
	if err := s.client.Get(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	dividends := make([]core.Dividend, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		if limit > 0 && len(dividends) >= limit {
			break
		}
		dividends = append(dividends, core.Dividend{Date: raw[i].Date, Amount: raw[i].Value})
	}
	return dividends, nil
}
