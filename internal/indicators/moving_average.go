package indicators

// SMA computes the simple moving average over a trailing window.
// The leading period-1 entries are NaN.
func SMA(data []float64, period int) []float64 {
	return rollingMean(data, period)
}

// EMA computes the exponential moving average with smoothing factor
// alpha = 2/(period+1), seeded with the first raw value. Output is defined
// for every index, including the first.
func EMA(data []float64, period int) []float64 {
	if period < 1 {
		return nanSlice(len(data))
	}
	return ewm(data, 2/float64(period+1))
}
