package indicators

// DonchianChannel computes the rolling highest high and lowest low over a
// trailing window that includes the current bar. Returns (upper, lower).
func DonchianChannel(high, low []float64, period int) (upper, lower []float64) {
	return rollingMax(high, period), rollingMin(low, period)
}
