package model

import (
	"fmt"
	"time"
)

// Canonical column positions in a provider frame. The layout is positional:
// whatever the provider names its columns, position 0 carries the date and
// positions 1..5 carry close, high, low, open and volume.
const (
	ColDate = iota
	ColClose
	ColHigh
	ColLow
	ColOpen
	ColVolume
	numColumns
)

// Column is one named column of a raw provider frame. The name is kept for
// diagnostics only; normalization never looks at it.
type Column struct {
	Name   string
	Values []float64
}

// Frame is the raw tabular payload returned by a data feed, columns in
// provider order. Dates travel as Unix seconds in the date column.
type Frame struct {
	Cols []Column
}

// Empty reports whether the frame carries no rows.
func (f *Frame) Empty() bool {
	return f.Rows() == 0
}

// Rows returns the number of rows in the frame.
func (f *Frame) Rows() int {
	if f == nil || len(f.Cols) == 0 {
		return 0
	}
	return len(f.Cols[0].Values)
}

// Normalize converts a raw frame into a PriceSeries using the canonical
// positional layout [Date, Close, High, Low, Open, Volume], ignoring column
// names. The frame must have at least six columns of equal length and
// strictly increasing dates; anything else means the provider broke its
// schema contract and the frame is rejected.
func Normalize(symbol string, f *Frame) (*PriceSeries, error) {
	if f == nil || len(f.Cols) < numColumns {
		got := 0
		if f != nil {
			got = len(f.Cols)
		}
		return nil, fmt.Errorf("frame for %s has %d columns, want at least %d", symbol, got, numColumns)
	}
	rows := len(f.Cols[ColDate].Values)
	for _, col := range f.Cols[:numColumns] {
		if len(col.Values) != rows {
			return nil, fmt.Errorf("frame for %s is ragged: column %q has %d values, want %d",
				symbol, col.Name, len(col.Values), rows)
		}
	}

	series := &PriceSeries{Symbol: symbol, Bars: make([]Bar, 0, rows)}
	var prev time.Time
	for i := 0; i < rows; i++ {
		date := time.Unix(int64(f.Cols[ColDate].Values[i]), 0).UTC()
		if i > 0 && !date.After(prev) {
			return nil, fmt.Errorf("frame for %s has non-increasing date %s at row %d",
				symbol, date.Format("2006-01-02"), i)
		}
		prev = date
		series.Bars = append(series.Bars, Bar{
			Date:   date,
			Close:  f.Cols[ColClose].Values[i],
			High:   f.Cols[ColHigh].Values[i],
			Low:    f.Cols[ColLow].Values[i],
			Open:   f.Cols[ColOpen].Values[i],
			Volume: int64(f.Cols[ColVolume].Values[i]),
		})
	}
	return series, nil
}
