package model

import "time"

// Bar is a single trading-period candle.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries holds the historical bars for one symbol, ordered by date.
// Dates are strictly increasing; each date appears at most once.
type PriceSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// ResultSet maps symbols to their downloaded series. Only symbols with at
// least one successful, non-empty download appear; a symbol that never
// succeeded is simply absent.
type ResultSet map[string]*PriceSeries
