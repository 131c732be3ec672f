package indicators

// FibLevels holds the retracement price levels between a swing high and a
// swing low. Level0 is the swing high and Level100 the swing low for an
// upswing; ratios measure the pullback from the high.
type FibLevels struct {
	High     float64
	Low      float64
	Level236 float64
	Level382 float64
	Level500 float64
	Level618 float64
	Level786 float64
}

// FibonacciRetracement derives the standard retracement levels from the
// highest high and lowest low of the trailing lookback window. With fewer
// bars than lookback the whole series is used.
func FibonacciRetracement(high, low []float64, lookback int) FibLevels {
	start := 0
	if len(high) > lookback {
		start = len(high) - lookback
	}
	hi := high[start]
	lo := low[start]
	for i := start + 1; i < len(high); i++ {
		if high[i] > hi {
			hi = high[i]
		}
		if low[i] < lo {
			lo = low[i]
		}
	}
	diff := hi - lo
	return FibLevels{
		High:     hi,
		Low:      lo,
		Level236: hi - 0.236*diff,
		Level382: hi - 0.382*diff,
		Level500: hi - 0.500*diff,
		Level618: hi - 0.618*diff,
		Level786: hi - 0.786*diff,
	}
}

// Levels lists the retracement prices from shallow to deep pullback.
func (f FibLevels) Levels() []float64 {
	return []float64{f.Level236, f.Level382, f.Level500, f.Level618, f.Level786}
}
