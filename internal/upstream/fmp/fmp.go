// Package fmp provides Financial Modeling Prep integration for the
// market-data gateway. FMP requires an API key (FMP_KEY).
package fmp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stockd/config"
	"stockd/internal/apiclient"
	"stockd/internal/core"
	"stockd/internal/upstream"
)

const (
	providerName   = "fmp"
	defaultBaseURL = "https://financialmodelingprep.com/api/v3"
)

func init() {
	upstream.Register(config.ProviderFMP, func(cfg *config.Config) core.Source {
		return New(cfg.APIKey(config.ProviderFMP))
	})
}

// Source implements core.Source against the FMP v3 API.
type Source struct {
	client *apiclient.Client
	apiKey string
}

// New creates a new FMP source. An empty apiKey is not an error here;
// it surfaces as an authentication error on the first call.
func New(apiKey string) *Source {
	return &Source{
		client: apiclient.New(providerName, defaultBaseURL, nil),
		apiKey: apiKey,
	}
}

// NewWithHTTPClient creates a source backed by a custom HTTP client and
// base URL, used by tests to point at an httptest server.
func NewWithHTTPClient(httpClient *http.Client, baseURL, apiKey string) *Source {
	return &Source{
		client: apiclient.NewWithHTTPClient(httpClient, providerName, baseURL, nil),
		apiKey: apiKey,
	}
}

func (s *Source) checkKey() error {
	if s.apiKey == "" {
		return core.NewAuthenticationError(providerName, "FMP_KEY is not configured")
	}
	return nil
}

type fmpQuote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// Quote fetches the current price from /quote/{ticker}.
func (s *Source) Quote(ctx context.Context, ticker string) (*core.Quote, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	var quotes []fmpQuote
	endpoint := fmt.Sprintf("/quote/%s?apikey=%s", ticker, s.apiKey)
	if err := s.client.Get(ctx, endpoint, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, core.NewNotFoundError(providerName, "unknown symbol: "+ticker)
	}

	q := quotes[0]
	return &core.Quote{
		Ticker:    q.Symbol,
		Price:     q.Price,
		Currency:  "USD",
		Timestamp: time.Unix(q.Timestamp, 0).UTC(),
		Provider:  providerName,
	}, nil
}

type fmpHistorical struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
	} `json:"historical"`
}

// Historical fetches the last days daily bars. FMP returns newest first;
// the series is reversed so callers always see oldest first.
func (s *Source) Historical(ctx context.Context, ticker string, days int) ([]core.HistoricalRecord, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	var resp fmpHistorical
	endpoint := fmt.Sprintf("/historical-price-full/%s?timeseries=%d&apikey=%s", ticker, days, s.apiKey)
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if len(resp.Historical) == 0 {
		return nil, core.NewNotFoundError(providerName, "no historical data for symbol: "+ticker)
	}

	records := make([]core.HistoricalRecord, 0, len(resp.Historical))
	for i := len(resp.Historical) - 1; i >= 0; i-- {
		h := resp.Historical[i]
		records = append(records, core.HistoricalRecord{
			Date:   h.Date,
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		})
	}
	return records, nil
}

type fmpDividends struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date     string  `json:"date"`
		Dividend float64 `json:"dividend"`
	} `json:"historical"`
}

// Dividends fetches the most recent limit dividend payments. FMP already
// returns them newest first.
func (s *Source) Dividends(ctx context.Context, ticker string, limit int) ([]core.Dividend, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	var resp fmpDividends
	endpoint := fmt.Sprintf("/historical-price-full/stock_dividend/%s?apikey=%s", ticker, s.apiKey)
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	dividends := make([]core.Dividend, 0, len(resp.Historical))
	for _, d := range resp.Historical {
		if limit > 0 && len(dividends) >= limit {
			break
		}
		dividends = append(dividends, core.Dividend{Date: d.Date, Amount: d.Dividend})
	}
	return dividends, nil
}
