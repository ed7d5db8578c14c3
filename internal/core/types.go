// Package core provides core types and interfaces for the market-data gateway.
package core

import "time"

// Quote is the normalized current-price shape returned by every upstream.
// Fields are identical regardless of which upstream answered.
type Quote struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
	Provider  string    `json:"provider"`
}

// HistoricalRecord is one daily bar of the normalized historical series.
// Date is formatted YYYY-MM-DD; records are ordered oldest first.
type HistoricalRecord struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Dividend is one normalized dividend payment, keyed by ex-dividend date.
type Dividend struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}
