package indicators

import "math"

// HurstExponent estimates the Hurst exponent by regressing the log standard
// deviation of lag differences against log lag, for lags 2..maxLag. The
// slope is clipped to [0, 1]. A series too short for the lag range (or with
// degenerate variance) yields the random-walk value 0.5.
func HurstExponent(data []float64, maxLag int) float64 {
	if maxLag < 2 || len(data) <= maxLag {
		return 0.5
	}

	var logLags, logTaus []float64
	for lag := 2; lag <= maxLag; lag++ {
		diffs := make([]float64, len(data)-lag)
		var mean float64
		for i := lag; i < len(data); i++ {
			d := data[i] - data[i-lag]
			diffs[i-lag] = d
			mean += d
		}
		mean /= float64(len(diffs))
		var ss float64
		for _, d := range diffs {
			ss += (d - mean) * (d - mean)
		}
		tau := math.Sqrt(ss / float64(len(diffs)))
		if tau <= 0 {
			continue
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logTaus = append(logTaus, math.Log(tau))
	}
	if len(logLags) < 2 {
		return 0.5
	}

	n := float64(len(logLags))
	var sumX, sumY, sumXY, sumXX float64
	for i := range logLags {
		sumX += logLags[i]
		sumY += logTaus[i]
		sumXY += logLags[i] * logTaus[i]
		sumXX += logLags[i] * logLags[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0.5
	}
	h := (n*sumXY - sumX*sumY) / denom
	return math.Min(1, math.Max(0, h))
}
