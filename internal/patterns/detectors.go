package patterns

import (
	"math"

	"forexSignalBot/internal/indicators"
)

// Divergence classifies a price/indicator disagreement at the current bar.
type Divergence string

const (
	DivergenceNone    Divergence = "none"
	DivergenceBullish Divergence = "bullish"
	DivergenceBearish Divergence = "bearish"
)

// Regime buckets market behavior over a trailing window.
type Regime string

const (
	RegimeTrending Regime = "trending"
	RegimeVolatile Regime = "volatile"
	RegimeRanging  Regime = "ranging"
	RegimeCrisis   Regime = "crisis"
)

// DetectDivergence compares the current bar against the extremes of the
// previous lookback bars (the current bar itself is excluded from the
// window). A new price low with the indicator holding above its window low
// is bullish; a new price high with the indicator below its window high is
// bearish.
func DetectDivergence(price, indicator []float64, lookback int) Divergence {
	n := len(price)
	if n < lookback+1 || len(indicator) != n {
		return DivergenceNone
	}
	win := price[n-1-lookback : n-1]
	indWin := indicator[n-1-lookback : n-1]

	priceMin, priceMax := win[0], win[0]
	indMin, indMax := indWin[0], indWin[0]
	for i := 1; i < len(win); i++ {
		priceMin = math.Min(priceMin, win[i])
		priceMax = math.Max(priceMax, win[i])
		indMin = math.Min(indMin, indWin[i])
		indMax = math.Max(indMax, indWin[i])
	}

	currPrice, currInd := price[n-1], indicator[n-1]
	if currPrice < priceMin && currInd > indMin {
		return DivergenceBullish
	}
	if currPrice > priceMax && currInd < indMax {
		return DivergenceBearish
	}
	return DivergenceNone
}

// Regime classification thresholds over per-bar returns.
const (
	regimeWindow        = 20
	regimeTrendRatio    = 0.5  // |mean/std| above this is a trend
	regimeVolatileStd   = 0.01 // per-bar return std above this is volatile
	regimeCrisisStd     = 0.02
	regimeCrisisRatio   = -0.5
	regimeRatioFloorEps = 1e-10
)

// MarketRegime buckets the trailing window of per-bar returns by a
// Sharpe-like mean/std ratio. Sustained negative drift with elevated
// volatility classifies as crisis; a strong ratio either way as trending;
// elevated volatility alone as volatile; everything else as ranging.
// Fewer bars than the window classifies as ranging.
func MarketRegime(close []float64) Regime {
	if len(close) < regimeWindow+1 {
		return RegimeRanging
	}
	rets := make([]float64, regimeWindow)
	start := len(close) - regimeWindow
	var mean float64
	for i := 0; i < regimeWindow; i++ {
		prev := close[start+i-1]
		if prev == 0 {
			return RegimeRanging
		}
		rets[i] = (close[start+i] - prev) / prev
		mean += rets[i]
	}
	mean /= regimeWindow
	var ss float64
	for _, r := range rets {
		ss += (r - mean) * (r - mean)
	}
	std := math.Sqrt(ss / (regimeWindow - 1))
	ratio := mean / (std + regimeRatioFloorEps)

	switch {
	case std > regimeCrisisStd && ratio < regimeCrisisRatio:
		return RegimeCrisis
	case math.Abs(ratio) > regimeTrendRatio:
		return RegimeTrending
	case std > regimeVolatileStd:
		return RegimeVolatile
	default:
		return RegimeRanging
	}
}

// MomentumQualityIndex blends normalized RSI, a 14-bar stochastic %K and an
// MFI-derived ratio with 40/30/30 weights into [0, 1]. When volume is
// unavailable the index degrades to the RSI component alone. Fewer than 15
// bars yields the neutral value 0.5.
func MomentumQualityIndex(high, low, close, volume []float64) float64 {
	const period = 14
	n := len(close)
	if n < period+1 {
		return 0.5
	}

	rsi := indicators.RSI(close, period)
	rsiNorm := clamp01(rsi[n-1] / 100)

	if len(volume) != n {
		return rsiNorm
	}

	hh, ll := high[n-period], low[n-period]
	for i := n - period + 1; i < n; i++ {
		hh = math.Max(hh, high[i])
		ll = math.Min(ll, low[i])
	}
	stochK := 0.5
	if hh > ll {
		stochK = (close[n-1] - ll) / (hh - ll)
	}

	mfi := indicators.MFI(high, low, close, volume, period)
	mfiNorm := clamp01(mfi[n-1] / 100)

	return clamp01(0.40*rsiNorm + 0.30*stochK + 0.30*mfiNorm)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	return math.Min(1, math.Max(0, v))
}
