package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"forexSignalBot/internal/domain"
)

func TestIsDoji(t *testing.T) {
	tests := []struct {
		name string
		bar  domain.Bar
		want bool
	}{
		{"tiny body", domain.Bar{Open: 100.0, High: 101.0, Low: 99.0, Close: 100.1}, true},
		{"body on the limit", domain.Bar{Open: 100.0, High: 101.5, Low: 99.0, Close: 100.25}, true},
		{"large body", domain.Bar{Open: 100.0, High: 101.0, Low: 99.0, Close: 100.8}, false},
		{"zero range", domain.Bar{Open: 100.0, High: 100.0, Low: 100.0, Close: 100.0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDoji(tt.bar))
		})
	}
}

func TestIsHammerAndShootingStar(t *testing.T) {
	// Range 10, body 1 at the top, lower shadow 8.5, upper shadow 0.5.
	hammer := domain.Bar{Open: 108.5, High: 110.0, Low: 100.0, Close: 109.5}
	assert.True(t, IsHammer(hammer))
	assert.False(t, IsShootingStar(hammer))

	// Mirrored: body 1 at the bottom, upper shadow 8.5.
	star := domain.Bar{Open: 101.5, High: 110.0, Low: 100.0, Close: 100.5}
	assert.True(t, IsShootingStar(star))
	assert.False(t, IsHammer(star))

	// Balanced shadows qualify as neither.
	spinning := domain.Bar{Open: 104.5, High: 110.0, Low: 100.0, Close: 105.5}
	assert.False(t, IsHammer(spinning))
	assert.False(t, IsShootingStar(spinning))
}

func TestEngulfing(t *testing.T) {
	prevDown := domain.Bar{Open: 105.0, High: 106.0, Low: 102.0, Close: 103.0}
	bigUp := domain.Bar{Open: 102.5, High: 107.0, Low: 102.0, Close: 105.5}
	assert.True(t, IsBullishEngulfing(prevDown, bigUp))
	assert.False(t, IsBearishEngulfing(prevDown, bigUp))

	// Containment must be strict.
	exact := domain.Bar{Open: 103.0, High: 107.0, Low: 102.0, Close: 105.0}
	assert.False(t, IsBullishEngulfing(prevDown, exact))

	prevUp := domain.Bar{Open: 103.0, High: 106.0, Low: 102.0, Close: 105.0}
	bigDown := domain.Bar{Open: 105.5, High: 107.0, Low: 101.0, Close: 102.5}
	assert.True(t, IsBearishEngulfing(prevUp, bigDown))
}

func TestStarPatterns(t *testing.T) {
	down := domain.Bar{Open: 110.0, High: 111.0, Low: 104.0, Close: 105.0}
	doji := domain.Bar{Open: 104.5, High: 105.5, Low: 103.5, Close: 104.6}
	upThroughMid := domain.Bar{Open: 105.0, High: 110.0, Low: 104.5, Close: 109.0}
	assert.True(t, IsMorningStar(down, doji, upThroughMid))

	// Third bar failing to cross the first body's midpoint is not a star.
	weakUp := domain.Bar{Open: 105.0, High: 107.0, Low: 104.5, Close: 106.0}
	assert.False(t, IsMorningStar(down, doji, weakUp))

	up := domain.Bar{Open: 105.0, High: 111.0, Low: 104.0, Close: 110.0}
	downThroughMid := domain.Bar{Open: 110.0, High: 110.5, Low: 104.0, Close: 106.0}
	assert.True(t, IsEveningStar(up, doji, downThroughMid))
}

func TestDetectDivergence(t *testing.T) {
	// Price makes a new low while the indicator holds above its window low.
	price := []float64{10, 9, 8, 9, 10, 7.5}
	ind := []float64{50, 40, 30, 35, 40, 34}
	assert.Equal(t, DivergenceBullish, DetectDivergence(price, ind, 5))

	// Price makes a new high while the indicator fades.
	price = []float64{10, 11, 12, 11, 10, 12.5}
	ind = []float64{50, 60, 70, 65, 60, 66}
	assert.Equal(t, DivergenceBearish, DetectDivergence(price, ind, 5))

	// No fresh extreme means no divergence.
	price = []float64{10, 11, 12, 11, 10, 11}
	assert.Equal(t, DivergenceNone, DetectDivergence(price, ind, 5))

	// Too little history.
	assert.Equal(t, DivergenceNone, DetectDivergence([]float64{1, 2}, []float64{1, 2}, 5))
}

func TestMarketRegime(t *testing.T) {
	steady := make([]float64, 30)
	for i := range steady {
		steady[i] = 100 + 0.5*float64(i) // ~0.5% per bar, near-zero std
	}
	assert.Equal(t, RegimeTrending, MarketRegime(steady))

	choppy := make([]float64, 30)
	for i := range choppy {
		choppy[i] = 100
		if i%2 == 0 {
			choppy[i] = 102 // alternating ±2%, zero drift
		}
	}
	assert.Equal(t, RegimeVolatile, MarketRegime(choppy))

	crash := make([]float64, 30)
	crash[0] = 100
	for i := 1; i < len(crash); i++ {
		drop := 0.95
		if i%4 == 0 {
			drop = 1.03 // relief bounces keep the std elevated
		}
		crash[i] = crash[i-1] * drop
	}
	assert.Equal(t, RegimeCrisis, MarketRegime(crash))

	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 100 + 0.01*float64(i%3)
	}
	assert.Equal(t, RegimeRanging, MarketRegime(flat))

	assert.Equal(t, RegimeRanging, MarketRegime([]float64{100, 101}))
}

func TestMomentumQualityIndex(t *testing.T) {
	n := 40
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	volume := make([]float64, n)
	for i := 0; i < n; i++ {
		c := 100 + 0.5*float64(i)
		close[i] = c
		high[i] = c + 0.2
		low[i] = c - 0.2
		volume[i] = 1000
	}

	// Strong uptrend should score near the top of the range.
	full := MomentumQualityIndex(high, low, close, volume)
	assert.Greater(t, full, 0.8)
	assert.LessOrEqual(t, full, 1.0)

	// Without volume the index degrades to the RSI component.
	noVol := MomentumQualityIndex(high, low, close, nil)
	assert.Greater(t, noVol, 0.8)
	assert.LessOrEqual(t, noVol, 1.0)

	// Too little history is neutral.
	assert.Equal(t, 0.5, MomentumQualityIndex(high[:5], low[:5], close[:5], volume[:5]))
}
