package indicators

// Noise parameters for the scalar filter. Fixed per run; tuning them is a
// configuration concern, not a per-call one.
const (
	kalmanProcessNoise     = 1e-5
	kalmanMeasurementNoise = 1e-2
)

// KalmanFilter smooths a price series with a one-dimensional scalar Kalman
// filter using fixed process and measurement noise. The estimate is seeded
// with the first observation.
func KalmanFilter(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	x := data[0]
	p := 1.0
	out[0] = x
	for i := 1; i < len(data); i++ {
		p += kalmanProcessNoise
		k := p / (p + kalmanMeasurementNoise)
		x += k * (data[i] - x)
		p *= 1 - k
		out[i] = x
	}
	return out
}
