package indicators

// BollingerBands computes the Bollinger channel around a rolling mean.
// The middle band is SMA(period); the outer bands sit stdDev sample standard
// deviations away. Returns (upper, middle, lower), each NaN for the leading
// period-1 entries.
func BollingerBands(data []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	middle = rollingMean(data, period)
	sd := rollingStd(data, period)

	upper = make([]float64, len(data))
	lower = make([]float64, len(data))
	for i := range data {
		upper[i] = middle[i] + stdDev*sd[i]
		lower[i] = middle[i] - stdDev*sd[i]
	}
	return upper, middle, lower
}
