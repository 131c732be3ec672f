// Package probability provides the small statistical toolkit behind the
// composite scorers: Bayesian updating, conditional direction probabilities
// estimated from history, growth-rate projection and exponential smoothing.
package probability

import "math"

// BayesianUpdate computes the posterior P(H|E) = P(E|H)P(H)/P(E), clamped to
// [0, 1]. Zero evidence leaves the prior unchanged.
func BayesianUpdate(prior, likelihood, evidence float64) float64 {
	if evidence <= 0 {
		return clamp01(prior)
	}
	return clamp01(likelihood * prior / evidence)
}

// Conditional computes P(A|B) from event counts. A zero condition count
// yields the neutral 0.5.
func Conditional(jointCount, conditionCount int) float64 {
	if conditionCount <= 0 {
		return 0.5
	}
	return clamp01(float64(jointCount) / float64(conditionCount))
}

// Continuation estimates from closing prices the probability that an up bar
// follows an up bar, and that a down bar follows a down bar. Flat bars count
// as breaking either streak. Fewer than three closes yields neutral 0.5 for
// both.
func Continuation(close []float64) (upGivenUp, downGivenDown float64) {
	if len(close) < 3 {
		return 0.5, 0.5
	}
	var upThenUp, upCount, downThenDown, downCount int
	for i := 2; i < len(close); i++ {
		prevUp := close[i-1] > close[i-2]
		prevDown := close[i-1] < close[i-2]
		currUp := close[i] > close[i-1]
		currDown := close[i] < close[i-1]
		if prevUp {
			upCount++
			if currUp {
				upThenUp++
			}
		}
		if prevDown {
			downCount++
			if currDown {
				downThenDown++
			}
		}
	}
	return Conditional(upThenUp, upCount), Conditional(downThenDown, downCount)
}

// GrowthProjection extrapolates the series horizon steps ahead using the
// mean per-bar log growth rate. Non-positive prices or too little history
// return the last value unchanged.
func GrowthProjection(close []float64, horizon int) float64 {
	n := len(close)
	if n == 0 {
		return 0
	}
	last := close[n-1]
	if n < 2 || horizon <= 0 {
		return last
	}
	var sum float64
	count := 0
	for i := 1; i < n; i++ {
		if close[i] <= 0 || close[i-1] <= 0 {
			return last
		}
		sum += math.Log(close[i] / close[i-1])
		count++
	}
	rate := sum / float64(count)
	return last * math.Exp(rate*float64(horizon))
}

// ExponentialSmoothing applies single exponential smoothing with the given
// factor, seeded with the first value. Alpha outside (0, 1] returns a copy
// of the input.
func ExponentialSmoothing(data []float64, alpha float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	if alpha <= 0 || alpha > 1 || len(data) == 0 {
		return out
	}
	for i := 1; i < len(data); i++ {
		out[i] = alpha*data[i] + (1-alpha)*out[i-1]
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
