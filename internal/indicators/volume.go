package indicators

// VWAP computes the cumulative volume-weighted average price using the
// typical price (high+low+close)/3. With zero cumulative volume the output
// falls back to the typical price itself.
func VWAP(high, low, close, volume []float64) []float64 {
	out := make([]float64, len(close))
	var cumPV, cumV float64
	for i := range close {
		tp := (high[i] + low[i] + close[i]) / 3
		cumPV += tp * volume[i]
		cumV += volume[i]
		if cumV > 0 {
			out[i] = cumPV / cumV
		} else {
			out[i] = tp
		}
	}
	return out
}

// MFI computes the Money Flow Index, a volume-weighted RSI analogue over the
// typical price. Raw money flow on a bar counts as positive when the typical
// price rose versus the prior bar and negative when it fell. The leading
// period-1 entries are NaN.
func MFI(high, low, close, volume []float64, period int) []float64 {
	n := len(close)
	posFlow := make([]float64, n)
	negFlow := make([]float64, n)
	prevTP := 0.0
	for i := 0; i < n; i++ {
		tp := (high[i] + low[i] + close[i]) / 3
		if i > 0 {
			flow := tp * volume[i]
			if tp > prevTP {
				posFlow[i] = flow
			} else if tp < prevTP {
				negFlow[i] = flow
			}
		}
		prevTP = tp
	}

	posSum := rollingSum(posFlow, period)
	negSum := rollingSum(negFlow, period)
	out := make([]float64, n)
	for i := range out {
		ratio := posSum[i] / (negSum[i] + rsiEpsilon)
		out[i] = 100 - 100/(1+ratio)
	}
	return out
}
