package indicators

// MACD computes the Moving Average Convergence Divergence:
// macd = EMA(fast) - EMA(slow); signal = EMA(macd, signalPeriod);
// histogram = macd - signal. Returns (macdLine, signalLine, histogram).
func MACD(data []float64, fast, slow, signalPeriod int) (macdLine, signalLine, histogram []float64) {
	emaFast := EMA(data, fast)
	emaSlow := EMA(data, slow)

	macdLine = make([]float64, len(data))
	for i := range data {
		macdLine[i] = emaFast[i] - emaSlow[i]
	}
	signalLine = EMA(macdLine, signalPeriod)

	histogram = make([]float64, len(data))
	for i := range data {
		histogram[i] = macdLine[i] - signalLine[i]
	}
	return macdLine, signalLine, histogram
}
