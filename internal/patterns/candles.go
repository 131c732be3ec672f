// Package patterns provides deterministic candlestick-shape classifiers and
// series-level detectors (divergence, market regime, momentum quality) used
// by the composite strategies.
package patterns

import "forexSignalBot/internal/domain"

func body(b domain.Bar) float64 {
	d := b.Close - b.Open
	if d < 0 {
		return -d
	}
	return d
}

func barRange(b domain.Bar) float64 {
	return b.High - b.Low
}

func upperShadow(b domain.Bar) float64 {
	if b.Close > b.Open {
		return b.High - b.Close
	}
	return b.High - b.Open
}

func lowerShadow(b domain.Bar) float64 {
	if b.Close > b.Open {
		return b.Open - b.Low
	}
	return b.Close - b.Low
}

func isBullish(b domain.Bar) bool { return b.Close > b.Open }
func isBearish(b domain.Bar) bool { return b.Close < b.Open }

// IsDoji reports whether the bar's body is at most 10% of its range.
// A zero-range bar counts as a doji.
func IsDoji(b domain.Bar) bool {
	r := barRange(b)
	if r == 0 {
		return true
	}
	return body(b) <= 0.10*r
}

// IsHammer reports a small body near the top of the range with a dominant
// lower shadow: body under a third of the range, lower shadow at least 60%
// of it, upper shadow under 30%.
func IsHammer(b domain.Bar) bool {
	r := barRange(b)
	if r == 0 {
		return false
	}
	return body(b) < r/3 && lowerShadow(b) >= 0.60*r && upperShadow(b) < 0.30*r
}

// IsShootingStar is the mirror of IsHammer: dominant upper shadow, small
// body near the bottom of the range.
func IsShootingStar(b domain.Bar) bool {
	r := barRange(b)
	if r == 0 {
		return false
	}
	return body(b) < r/3 && upperShadow(b) >= 0.60*r && lowerShadow(b) < 0.30*r
}

// IsBullishEngulfing reports a bearish bar strictly contained by the body of
// a following bullish bar.
func IsBullishEngulfing(prev, curr domain.Bar) bool {
	return isBearish(prev) && isBullish(curr) &&
		curr.Open < prev.Close && curr.Close > prev.Open
}

// IsBearishEngulfing reports a bullish bar strictly contained by the body of
// a following bearish bar.
func IsBearishEngulfing(prev, curr domain.Bar) bool {
	return isBullish(prev) && isBearish(curr) &&
		curr.Open > prev.Close && curr.Close < prev.Open
}

// IsMorningStar reports the three-bar bottom reversal: a bearish bar, an
// indecision bar, then a bullish bar closing above the midpoint of the first
// bar's body.
func IsMorningStar(first, second, third domain.Bar) bool {
	if !isBearish(first) || !isBullish(third) || !IsDoji(second) {
		return false
	}
	mid := (first.Open + first.Close) / 2
	return third.Close > mid
}

// IsEveningStar reports the three-bar top reversal, the mirror of
// IsMorningStar.
func IsEveningStar(first, second, third domain.Bar) bool {
	if !isBullish(first) || !isBearish(third) || !IsDoji(second) {
		return false
	}
	mid := (first.Open + first.Close) / 2
	return third.Close < mid
}
