package indicators

// ADX computes the Average Directional Index along with both directional
// indicators. Directional movement takes only the larger of the up-move and
// down-move per bar, and only when positive; smoothing is Wilder's
// (alpha = 1/period) throughout. Returns (adx, plusDI, minusDI).
func ADX(high, low, close []float64, period int) (adx, plusDI, minusDI []float64) {
	n := len(close)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		upMove := high[i] - high[i-1]
		downMove := low[i-1] - low[i]
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	alpha := 1 / float64(period)
	smTR := ewm(TrueRange(high, low, close), alpha)
	smPlus := ewm(plusDM, alpha)
	smMinus := ewm(minusDM, alpha)

	plusDI = make([]float64, n)
	minusDI = make([]float64, n)
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		tr := smTR[i]
		if tr == 0 {
			tr = rsiEpsilon
		}
		plusDI[i] = 100 * smPlus[i] / tr
		minusDI[i] = 100 * smMinus[i] / tr
		diff := plusDI[i] - minusDI[i]
		if diff < 0 {
			diff = -diff
		}
		dx[i] = 100 * diff / (plusDI[i] + minusDI[i] + rsiEpsilon)
	}
	adx = ewm(dx, alpha)
	return adx, plusDI, minusDI
}
