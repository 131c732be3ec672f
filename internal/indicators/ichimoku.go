package indicators

// IchimokuCloud holds the five Ichimoku series. ChikouSpan carries the raw
// closing prices without the conventional backward displacement; downstream
// scoring depends on the unshifted values, so callers needing the textbook
// lagging span must apply the shift themselves.
type IchimokuCloud struct {
	Tenkan  []float64 // conversion line
	Kijun   []float64 // base line
	SenkouA []float64 // leading span A
	SenkouB []float64 // leading span B
	Chikou  []float64 // lagging span, unshifted
}

// Ichimoku computes the cloud components over the given windows.
// Conversion and base lines are midpoints of rolling high/low extremes over
// their windows; leading span A is the midpoint of the two; leading span B is
// the midpoint of extremes over the senkouB window.
func Ichimoku(high, low, close []float64, tenkanP, kijunP, senkouBP int) IchimokuCloud {
	mid := func(period int) []float64 {
		hi := rollingMax(high, period)
		lo := rollingMin(low, period)
		out := make([]float64, len(close))
		for i := range out {
			out[i] = (hi[i] + lo[i]) / 2
		}
		return out
	}

	tenkan := mid(tenkanP)
	kijun := mid(kijunP)
	senkouA := make([]float64, len(close))
	for i := range senkouA {
		senkouA[i] = (tenkan[i] + kijun[i]) / 2
	}

	chikou := make([]float64, len(close))
	copy(chikou, close)

	return IchimokuCloud{
		Tenkan:  tenkan,
		Kijun:   kijun,
		SenkouA: senkouA,
		SenkouB: mid(senkouBP),
		Chikou:  chikou,
	}
}
