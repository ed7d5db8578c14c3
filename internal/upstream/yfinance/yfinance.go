// Package yfinance provides Yahoo Finance integration for the market-data gateway.
// Yahoo's v8 chart API needs no API key.
package yfinance

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"stockd/config"
	"stockd/internal/apiclient"
	"stockd/internal/core"
	"stockd/internal/upstream"
)

const (
	providerName   = "yfinance"
	defaultBaseURL = "https://query1.finance.yahoo.com"
)

func init() {
	upstream.Register(config.ProviderYFinance, func(_ *config.Config) core.Source {
		return New()
	})
}

// Source implements core.Source against the Yahoo Finance chart API.
type Source struct {
	client *apiclient.Client
}

// New creates a new Yahoo Finance source.
func New() *Source {
	return &Source{client: apiclient.New(providerName, defaultBaseURL, setHeaders)}
}

// NewWithHTTPClient creates a source backed by a custom HTTP client and
// base URL, used by tests to point at an httptest server.
func NewWithHTTPClient(httpClient *http.Client, baseURL string) *Source {
	return &Source{client: apiclient.NewWithHTTPClient(httpClient, providerName, baseURL, setHeaders)}
}

// setHeaders sets the headers Yahoo expects; it rejects requests without
// a User-Agent.
func setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "stockd/1.0")
}

// chartResponse mirrors the subset of the v8 chart payload we consume.
// Price arrays use pointers because Yahoo emits null for missing bars.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (s *Source) chart(ctx context.Context, endpoint string) (*chartResponse, error) {
	var resp chartResponse
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, core.NewNotFoundError(providerName, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, core.NewNotFoundError(providerName, "no chart data for symbol")
	}
	return &resp, nil
}

// Quote fetches the current price from the chart metadata.
func (s *Source) Quote(ctx context.Context, ticker string) (*core.Quote, error) {
	resp, err := s.chart(ctx, fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=1d", ticker))
	if err != nil {
		return nil, err
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return nil, core.NewNotFoundError(providerName, "no market price for symbol")
	}
	return &core.Quote{
		Ticker:    ticker,
		Price:     meta.RegularMarketPrice,
		Currency:  meta.Currency,
		Timestamp: time.Unix(meta.RegularMarketTime, 0).UTC(),
		Provider:  providerName,
	}, nil
}

// Historical fetches daily bars for the last days days, oldest first.
// Bars Yahoo reports as null (halts, partial sessions) are skipped; the
// remaining records keep Yahoo's own ordering.
func (s *Source) Historical(ctx context.Context, ticker string, days int) ([]core.HistoricalRecord, error) {
	resp, err := s.chart(ctx, fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=%dd", ticker, days))
	if err != nil {
		return nil, err
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []core.HistoricalRecord{}, nil
	}
	bars := result.Indicators.Quote[0]

	records := make([]core.HistoricalRecord, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(bars.Close) || bars.Close[i] == nil {
			continue
		}
		rec := core.HistoricalRecord{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *bars.Close[i],
		}
		if i < len(bars.Open) && bars.Open[i] != nil {
			rec.Open = *bars.Open[i]
		}
		if i < len(bars.High) && bars.High[i] != nil {
			rec.High = *bars.High[i]
		}
		if i < len(bars.Low) && bars.Low[i] != nil {
			rec.Low = *bars.Low[i]
		}
		if i < len(bars.Volume) && bars.Volume[i] != nil {
			rec.Volume = *bars.Volume[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// Dividends fetches dividend events from a 10-year chart window and
// returns the most recent limit payments, most recent first.
func (s *Source) Dividends(ctx context.Context, ticker string, limit int) ([]core.Dividend, error) {
	resp, err := s.chart(ctx, fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=10y&events=div", ticker))
	if err != nil {
		return nil, err
	}

	events := resp.Chart.Result[0].Events.Dividends
	dividends := make([]core.Dividend, 0, len(events))
	for _, d := range events {
		dividends = append(dividends, core.Dividend{
			Date:   time.Unix(d.Date, 0).UTC().Format("2006-01-02"),
			Amount: d.Amount,
		})
	}
	sort.Slice(dividends, func(i, j int) bool { return dividends[i].Date > dividends[j].Date })
	if limit > 0 && len(dividends) > limit {
		dividends = dividends[:limit]
	}
	return dividends, nil
}
