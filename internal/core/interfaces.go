package core

import "context"

// Source defines the fetch capability every upstream provider implements.
// One variant exists per upstream; adding an upstream means adding one
// implementation, never a new conditional at call sites.
type Source interface {
	// Quote fetches the current price for a ticker.
	Quote(ctx context.Context, ticker string) (*Quote, error)

	// Historical fetches up to days of daily bars for a ticker,
	// ordered oldest first.
	Historical(ctx context.Context, ticker string, days int) ([]HistoricalRecord, error)

	// Dividends fetches the most recent limit dividend payments for a ticker,
	// most recent first.
	Dividends(ctx context.Context, ticker string, limit int) ([]Dividend, error)
}
