package indicators

// Supertrend computes the Supertrend line and trend direction.
// Basic bands sit multiplier*ATR away from the bar midpoint and only ratchet
// toward price, judged against the prior bar's settled band. The trend is
// down (direction -1, line = upper band) while close stays at or below the
// upper band, up (direction +1, line = lower band) otherwise. Index 0 keeps
// direction +1 with a zero line value.
func Supertrend(high, low, close []float64, atrPeriod int, multiplier float64) (line, direction []float64) {
	atr := ATR(high, low, close, atrPeriod)

	upper := make([]float64, len(close))
	lower := make([]float64, len(close))
	for i := range close {
		mid := (high[i] + low[i]) / 2
		upper[i] = mid + multiplier*atr[i]
		lower[i] = mid - multiplier*atr[i]
	}

	line = make([]float64, len(close))
	direction = make([]float64, len(close))
	if len(close) > 0 {
		direction[0] = 1
	}
	for i := 1; i < len(close); i++ {
		if close[i-1] > upper[i-1] && upper[i-1] > upper[i] {
			upper[i] = upper[i-1]
		}
		if close[i-1] < lower[i-1] && lower[i-1] < lower[i] {
			lower[i] = lower[i-1]
		}
		if close[i] <= upper[i] {
			line[i] = upper[i]
			direction[i] = -1
		} else {
			line[i] = lower[i]
			direction[i] = 1
		}
	}
	return line, direction
}
