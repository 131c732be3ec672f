package indicators

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingSeries(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestOutputLengthMatchesInput(t *testing.T) {
	high := risingSeries(40, 101, 0.5)
	low := risingSeries(40, 99, 0.5)
	close := risingSeries(40, 100, 0.5)

	assert.Len(t, SMA(close, 10), 40)
	assert.Len(t, EMA(close, 10), 40)
	assert.Len(t, ATR(high, low, close, 14), 40)
	assert.Len(t, RSI(close, 14), 40)

	upper, middle, lower := BollingerBands(close, 20, 2.0)
	assert.Len(t, upper, 40)
	assert.Len(t, middle, 40)
	assert.Len(t, lower, 40)

	macd, signal, hist := MACD(close, 12, 26, 9)
	assert.Len(t, macd, 40)
	assert.Len(t, signal, 40)
	assert.Len(t, hist, 40)
}

func TestSMA(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	out := SMA(data, 3)

	require.Len(t, out, 5)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-12)
	assert.InDelta(t, 3.0, out[3], 1e-12)
	assert.InDelta(t, 4.0, out[4], 1e-12)
}

func TestEMAConstantSeriesStaysConstant(t *testing.T) {
	data := make([]float64, 50)
	for i := range data {
		data[i] = 42.5
	}
	for _, v := range EMA(data, 10) {
		assert.Equal(t, 42.5, v)
	}
}

func TestEMASeedIsFirstValue(t *testing.T) {
	data := []float64{10, 11, 12}
	out := EMA(data, 5)

	require.Len(t, out, 3)
	assert.Equal(t, 10.0, out[0])
	// alpha = 2/6
	assert.InDelta(t, (2.0/6)*11+(4.0/6)*10, out[1], 1e-12)
}

func TestTrueRangeFirstBar(t *testing.T) {
	high := []float64{105, 110}
	low := []float64{95, 100}
	close := []float64{100, 108}

	tr := TrueRange(high, low, close)
	assert.Equal(t, 10.0, tr[0]) // high-low, no previous close
	assert.Equal(t, 10.0, tr[1])
}

func TestRSIMonotoneSeries(t *testing.T) {
	up := RSI(risingSeries(100, 1.0, 0.01), 14)
	assert.Greater(t, up[len(up)-1], 95.0)

	down := RSI(risingSeries(100, 2.0, -0.01), 14)
	assert.Less(t, down[len(down)-1], 5.0)
}

func TestBollingerMiddleEqualsSMA(t *testing.T) {
	data := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3, 2, 3, 8, 4, 6, 2, 6}
	_, middle, _ := BollingerBands(data, 5, 2.0)
	sma := SMA(data, 5)

	require.Len(t, middle, len(sma))
	for i := range middle {
		if math.IsNaN(sma[i]) {
			assert.True(t, math.IsNaN(middle[i]), "index %d", i)
			continue
		}
		assert.Equal(t, sma[i], middle[i], "index %d", i)
	}
}

func TestBollingerBandsSymmetric(t *testing.T) {
	data := risingSeries(30, 100, 0.3)
	upper, middle, lower := BollingerBands(data, 20, 2.0)
	for i := 19; i < len(data); i++ {
		assert.InDelta(t, middle[i]-lower[i], upper[i]-middle[i], 1e-9)
	}
}

func TestDonchianChannel(t *testing.T) {
	high := []float64{10, 12, 11, 13, 12}
	low := []float64{8, 9, 7, 10, 11}
	upper, lower := DonchianChannel(high, low, 3)

	assert.True(t, math.IsNaN(upper[1]))
	assert.Equal(t, 12.0, upper[2])
	assert.Equal(t, 13.0, upper[3])
	assert.Equal(t, 7.0, lower[2])
	assert.Equal(t, 7.0, lower[4])
}

func TestSupertrendDirectionDomain(t *testing.T) {
	n := 120
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + 5*math.Sin(float64(i)/7)
		close[i] = base
		high[i] = base + 1
		low[i] = base - 1
	}

	line, dir := Supertrend(high, low, close, 10, 3.0)
	require.Len(t, line, n)
	require.Len(t, dir, n)
	for i, d := range dir {
		assert.Contains(t, []float64{-1, 1}, d, "index %d", i)
	}
	// The line value always comes from the active band side of the price.
	for i := 1; i < n; i++ {
		if dir[i] == -1 {
			assert.GreaterOrEqual(t, line[i], close[i], "index %d", i)
		} else {
			assert.LessOrEqual(t, line[i], close[i], "index %d", i)
		}
	}
}

func TestADXBounds(t *testing.T) {
	n := 80
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 50 + 0.2*float64(i) + 2*math.Sin(float64(i)/3)
		close[i] = base
		high[i] = base + 0.5
		low[i] = base - 0.5
	}

	adx, plusDI, minusDI := ADX(high, low, close, 14)
	for i := range adx {
		assert.GreaterOrEqual(t, adx[i], 0.0)
		assert.LessOrEqual(t, adx[i], 100.0)
		assert.GreaterOrEqual(t, plusDI[i], 0.0)
		assert.GreaterOrEqual(t, minusDI[i], 0.0)
	}
}

func TestIchimokuChikouIsRawClose(t *testing.T) {
	high := risingSeries(60, 101, 0.5)
	low := risingSeries(60, 99, 0.5)
	close := risingSeries(60, 100, 0.5)

	cloud := Ichimoku(high, low, close, 9, 26, 52)
	assert.Equal(t, close, cloud.Chikou)
	// Rising extremes keep tenkan above kijun once both windows fill.
	assert.Greater(t, cloud.Tenkan[59], cloud.Kijun[59])
}

func TestMFIBounds(t *testing.T) {
	high := risingSeries(40, 101, 0.5)
	low := risingSeries(40, 99, 0.5)
	close := risingSeries(40, 100, 0.5)
	volume := risingSeries(40, 1000, 10)

	mfi := MFI(high, low, close, volume, 14)
	for i := 13; i < len(mfi); i++ {
		assert.GreaterOrEqual(t, mfi[i], 0.0)
		assert.LessOrEqual(t, mfi[i], 100.0)
	}
	// Strictly rising typical price means all flow is positive.
	assert.Greater(t, mfi[len(mfi)-1], 99.0)
}

func TestVWAPWithinRange(t *testing.T) {
	high := []float64{12, 13, 14}
	low := []float64{10, 11, 12}
	close := []float64{11, 12, 13}
	volume := []float64{100, 200, 300}

	vwap := VWAP(high, low, close, volume)
	for i := range vwap {
		assert.GreaterOrEqual(t, vwap[i], low[0])
		assert.LessOrEqual(t, vwap[i], high[i])
	}
}

func TestFibonacciRetracement(t *testing.T) {
	high := []float64{100, 110, 120, 115}
	low := []float64{90, 100, 110, 105}

	f := FibonacciRetracement(high, low, 4)
	assert.Equal(t, 120.0, f.High)
	assert.Equal(t, 90.0, f.Low)
	assert.InDelta(t, 120-0.5*30, f.Level500, 1e-12)
	assert.InDelta(t, 120-0.618*30, f.Level618, 1e-12)
	assert.Len(t, f.Levels(), 5)
}

func TestLinearRegressionOnLine(t *testing.T) {
	data := risingSeries(20, 5, 2) // y = 5 + 2x
	reg := LinearRegression(data, 20)

	assert.InDelta(t, 2.0, reg.Slope, 1e-9)
	assert.InDelta(t, 5.0, reg.Intercept, 1e-9)
	assert.InDelta(t, 45.0, reg.Forecast, 1e-9)
}

func TestHurstExponent(t *testing.T) {
	// A seeded random walk should estimate near the 0.5 random-walk value
	// and always stay inside the clip range.
	rng := rand.New(rand.NewSource(7))
	walk := make([]float64, 500)
	walk[0] = 100
	for i := 1; i < len(walk); i++ {
		walk[i] = walk[i-1] + rng.NormFloat64()
	}
	h := HurstExponent(walk, 20)
	assert.GreaterOrEqual(t, h, 0.0)
	assert.LessOrEqual(t, h, 1.0)
	assert.InDelta(t, 0.5, h, 0.3)

	// Constant lag differences (a pure linear trend) give degenerate
	// variance, falling back to the random-walk value.
	assert.Equal(t, 0.5, HurstExponent(risingSeries(300, 100, 0.5), 20))

	// Too little data falls back as well.
	assert.Equal(t, 0.5, HurstExponent(risingSeries(10, 1, 1), 20))
	assert.Equal(t, 0.5, HurstExponent(nil, 20))
}

func TestKalmanFilter(t *testing.T) {
	data := []float64{10, 10, 10, 10}
	out := KalmanFilter(data)
	for _, v := range out {
		assert.InDelta(t, 10.0, v, 1e-9)
	}

	noisy := []float64{10, 20, 10, 20, 10, 20}
	smoothed := KalmanFilter(noisy)
	assert.Equal(t, 10.0, smoothed[0])
	// Low gain keeps the estimate between the extremes.
	for _, v := range smoothed[1:] {
		assert.Greater(t, v, 10.0)
		assert.Less(t, v, 20.0)
	}
}
