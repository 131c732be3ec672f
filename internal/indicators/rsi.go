package indicators

// rsiEpsilon keeps the relative-strength division defined when the average
// loss is zero.
const rsiEpsilon = 1e-10

// RSI computes the Relative Strength Index over per-bar deltas.
// Average gain and loss use Wilder's smoothing (alpha = 1/period); the first
// delta is defined as zero. RSI = 100 - 100/(1+RS) with
// RS = avgGain/(avgLoss+epsilon).
func RSI(data []float64, period int) []float64 {
	if period < 1 || len(data) == 0 {
		return nanSlice(len(data))
	}
	gain := make([]float64, len(data))
	loss := make([]float64, len(data))
	for i := 1; i < len(data); i++ {
		delta := data[i] - data[i-1]
		if delta > 0 {
			gain[i] = delta
		} else {
			loss[i] = -delta
		}
	}
	alpha := 1 / float64(period)
	avgGain := ewm(gain, alpha)
	avgLoss := ewm(loss, alpha)

	out := make([]float64, len(data))
	for i := range out {
		rs := avgGain[i] / (avgLoss[i] + rsiEpsilon)
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
