package indicators

import "math"

// TrueRange computes the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|).
// The first bar has no previous close, so its true range is high-low.
func TrueRange(high, low, close []float64) []float64 {
	tr := make([]float64, len(close))
	for i := range close {
		hl := high[i] - low[i]
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// ATR computes the Average True Range using Wilder's smoothing, an
// exponential recurrence with alpha = 1/period seeded by the first
// true-range value.
func ATR(high, low, close []float64, period int) []float64 {
	if period < 1 {
		return nanSlice(len(close))
	}
	return ewm(TrueRange(high, low, close), 1/float64(period))
}
