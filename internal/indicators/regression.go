package indicators

// Regression holds an ordinary-least-squares fit of a series against its
// bar index.
type Regression struct {
	Slope     float64
	Intercept float64
	Forecast  float64 // fitted value one step past the last bar
}

// LinearRegression fits a least-squares line through the trailing period
// values of the series, using 0..period-1 as the x axis. With fewer bars
// than period the whole series is used; fewer than two points yields a flat
// fit at the last value.
func LinearRegression(data []float64, period int) Regression {
	start := 0
	if len(data) > period {
		start = len(data) - period
	}
	window := data[start:]
	n := float64(len(window))
	if len(window) < 2 {
		var last float64
		if len(window) == 1 {
			last = window[0]
		}
		return Regression{Intercept: last, Forecast: last}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range window {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		mean := sumY / n
		return Regression{Intercept: mean, Forecast: mean}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return Regression{
		Slope:     slope,
		Intercept: intercept,
		Forecast:  intercept + slope*n,
	}
}
