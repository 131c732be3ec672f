// Package indicators provides stateless technical-indicator transforms over
// price series. Every window-based function returns a slice of the same
// length as its input, with the leading period-1 entries set to NaN.
// Functions never fail on short input, they produce degenerate (NaN) output
// instead, so callers are responsible for length checks.
package indicators

import "math"

var nan = math.NaN()

// ewm applies an exponential recurrence y[i] = alpha*x[i] + (1-alpha)*y[i-1],
// seeded with the first raw value. No bias correction is applied.
func ewm(data []float64, alpha float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = alpha*data[i] + (1-alpha)*out[i-1]
	}
	return out
}

// rollingMean computes the trailing mean over a fixed window.
func rollingMean(data []float64, period int) []float64 {
	out := nanSlice(len(data))
	if period < 1 || len(data) < period {
		return out
	}
	var sum float64
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// rollingStd computes the trailing sample standard deviation (ddof=1).
func rollingStd(data []float64, period int) []float64 {
	out := nanSlice(len(data))
	if period < 2 || len(data) < period {
		return out
	}
	for i := period - 1; i < len(data); i++ {
		window := data[i-period+1 : i+1]
		var mean float64
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)
		var ss float64
		for _, v := range window {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period-1))
	}
	return out
}

// rollingMax computes the trailing maximum over a fixed window.
func rollingMax(data []float64, period int) []float64 {
	out := nanSlice(len(data))
	if period < 1 || len(data) < period {
		return out
	}
	for i := period - 1; i < len(data); i++ {
		m := data[i-period+1]
		for _, v := range data[i-period+2 : i+1] {
			if v > m {
				m = v
			}
		}
		out[i] = m
	}
	return out
}

// rollingMin computes the trailing minimum over a fixed window.
func rollingMin(data []float64, period int) []float64 {
	out := nanSlice(len(data))
	if period < 1 || len(data) < period {
		return out
	}
	for i := period - 1; i < len(data); i++ {
		m := data[i-period+1]
		for _, v := range data[i-period+2 : i+1] {
			if v < m {
				m = v
			}
		}
		out[i] = m
	}
	return out
}

// rollingSum computes the trailing sum over a fixed window.
func rollingSum(data []float64, period int) []float64 {
	out := nanSlice(len(data))
	if period < 1 || len(data) < period {
		return out
	}
	var sum float64
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}
		if i >= period-1 {
			out[i] = sum
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = nan
	}
	return out
}
