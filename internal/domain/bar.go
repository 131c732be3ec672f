package domain

import "time"

// Bar represents a single OHLCV candlestick.
type Bar struct {
	Time   time.Time // Opening time of the bar
	Open   float64   // Opening price
	High   float64   // Highest price
	Low    float64   // Lowest price
	Close  float64   // Closing price
	Volume float64   // Traded volume (0 when the feed provides none)
}

// Highs extracts the high prices of a bar series, aligned by index.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low prices of a bar series, aligned by index.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Closes extracts the closing prices of a bar series, aligned by index.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Opens extracts the opening prices of a bar series, aligned by index.
func Opens(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Open
	}
	return out
}

// Volumes extracts the volumes of a bar series, aligned by index.
// Returns nil when no bar carries volume, so callers can detect a volume-less feed.
func Volumes(bars []Bar) []float64 {
	any := false
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
		if b.Volume != 0 {
			any = true
		}
	}
	if !any {
		return nil
	}
	return out
}
