package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forexSignalBot/internal/domain"
)

// barsFromCloses builds bullish bars with highs/lows a fixed distance around
// the close.
func barsFromCloses(closes []float64, spread float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		open := c - spread/10
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = domain.Bar{Open: open, High: c + spread, Low: c - spread, Close: c}
	}
	return bars
}

func TestMACrossoverValidation(t *testing.T) {
	_, err := NewMACrossover(MACrossoverConfig{FastPeriod: 30, SlowPeriod: 10})
	require.Error(t, err)

	s, err := NewMACrossover(MACrossoverConfig{})
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyMACrossover, s.ID())
	assert.Equal(t, 32, s.MinBars())
}

func TestMACrossoverInsufficientData(t *testing.T) {
	s, err := NewMACrossover(MACrossoverConfig{})
	require.NoError(t, err)

	v := s.Evaluate(barsFromCloses([]float64{1.1, 1.2, 1.3}, 0.0005))
	assert.Equal(t, domain.SignalNoTrade, v.Signal)
	assert.Equal(t, "insufficient data", v.Reason)
}

func TestMACrossoverSingleBuyOnTurn(t *testing.T) {
	s, err := NewMACrossover(MACrossoverConfig{})
	require.NoError(t, err)

	// Decline for 60 bars, then rise for 90: the fast EMA crosses above the
	// slow EMA exactly once during the recovery.
	closes := make([]float64, 150)
	price := 1.1100
	for i := 0; i < 60; i++ {
		closes[i] = price
		price -= 0.0001
	}
	for i := 60; i < 150; i++ {
		closes[i] = price
		price += 0.0001
	}
	bars := barsFromCloses(closes, 0.0005)

	buys := 0
	for end := s.MinBars(); end <= len(bars); end++ {
		v := s.Evaluate(bars[:end])
		require.NotEqual(t, domain.SignalSell, v.Signal)
		if v.Signal == domain.SignalBuy {
			buys++
			assert.Less(t, v.StopLoss, v.EntryPrice)
			assert.Greater(t, v.TakeProfit, v.EntryPrice)
			rr := (v.TakeProfit - v.EntryPrice) / (v.EntryPrice - v.StopLoss)
			assert.InDelta(t, 2.0, rr, 1e-9)
		}
	}
	assert.Equal(t, 1, buys)
}

func TestDonchianBreakout(t *testing.T) {
	s, err := NewDonchianBreakout(DonchianBreakoutConfig{})
	require.NoError(t, err)

	closes := make([]float64, 31)
	for i := 0; i < 30; i++ {
		closes[i] = 100
	}
	closes[30] = 101 // breaks the 100.5 channel top
	bars := barsFromCloses(closes, 0.5)

	v := s.Evaluate(bars)
	require.Equal(t, domain.SignalBuy, v.Signal)
	assert.Equal(t, 101.0, v.EntryPrice)
	assert.Less(t, v.StopLoss, v.EntryPrice)
	rr := (v.TakeProfit - v.EntryPrice) / (v.EntryPrice - v.StopLoss)
	assert.InDelta(t, 3.0, rr, 1e-9)

	// Without the breakout bar there is no signal.
	flat := s.Evaluate(bars[:30])
	assert.Equal(t, domain.SignalNoTrade, flat.Signal)
}

func TestBollingerBandsMeanReversion(t *testing.T) {
	s, err := NewBollingerBands(BollingerBandsConfig{})
	require.NoError(t, err)

	closes := make([]float64, 30)
	for i := 0; i < 26; i++ {
		closes[i] = 100
	}
	closes[26] = 99.5
	closes[27] = 99
	closes[28] = 98.5
	closes[29] = 98
	bars := barsFromCloses(closes, 0.2)

	v := s.Evaluate(bars)
	require.Equal(t, domain.SignalBuy, v.Signal, "reason: %s", v.Reason)
	assert.Equal(t, 98.0, v.EntryPrice)
	assert.Less(t, v.StopLoss, v.EntryPrice)
	// Mean reversion targets the middle band, above the entry.
	assert.Greater(t, v.TakeProfit, v.EntryPrice)
	assert.Contains(t, v.Reason, "oversold")
}

func TestRSISwingReentry(t *testing.T) {
	s, err := NewRSISwing(RSISwingConfig{})
	require.NoError(t, err)

	closes := make([]float64, 27)
	for i := 0; i < 20; i++ {
		closes[i] = 100
	}
	for i := 20; i < 26; i++ {
		closes[i] = closes[i-1] - 1
	}
	closes[26] = closes[25] + 4 // RSI swings back up through 30
	bars := barsFromCloses(closes, 0.3)

	v := s.Evaluate(bars)
	require.Equal(t, domain.SignalBuy, v.Signal, "reason: %s", v.Reason)
	rr := (v.TakeProfit - v.EntryPrice) / (v.EntryPrice - v.StopLoss)
	assert.InDelta(t, 2.5, rr, 1e-9)

	// One bar earlier the RSI is still inside the oversold zone.
	early := s.Evaluate(bars[:26])
	assert.Equal(t, domain.SignalNoTrade, early.Signal)
}

func TestMACDCrossoverFiresOnceOnTurn(t *testing.T) {
	s, err := NewMACDCross(MACDConfig{})
	require.NoError(t, err)

	closes := make([]float64, 120)
	price := 105.0
	for i := 0; i < 60; i++ {
		closes[i] = price
		price -= 0.1
	}
	for i := 60; i < 120; i++ {
		closes[i] = price
		price += 0.1
	}
	bars := barsFromCloses(closes, 0.3)

	buys := 0
	for end := s.MinBars(); end <= len(bars); end++ {
		v := s.Evaluate(bars[:end])
		if v.Signal == domain.SignalBuy {
			buys++
			rr := (v.TakeProfit - v.EntryPrice) / (v.EntryPrice - v.StopLoss)
			assert.InDelta(t, 2.0, rr, 1e-9)
		}
	}
	assert.Equal(t, 1, buys)
}

func TestATRTrailingFollowsTrend(t *testing.T) {
	s, err := NewATRTrailing(ATRTrailingConfig{})
	require.NoError(t, err)

	up := make([]float64, 60)
	for i := range up {
		up[i] = 100 + 0.5*float64(i)
	}
	v := s.Evaluate(barsFromCloses(up, 0.3))
	require.Equal(t, domain.SignalBuy, v.Signal)
	rr := (v.TakeProfit - v.EntryPrice) / (v.EntryPrice - v.StopLoss)
	assert.InDelta(t, 3.0, rr, 1e-9)

	down := make([]float64, 60)
	for i := range down {
		down[i] = 100 - 0.5*float64(i)
	}
	v = s.Evaluate(barsFromCloses(down, 0.3))
	assert.Equal(t, domain.SignalSell, v.Signal)
}

func TestSupertrendFlip(t *testing.T) {
	s, err := NewSupertrendFlip(SupertrendConfig{})
	require.NoError(t, err)

	// A steady decline keeps the direction down; one wide-range bullish bar
	// flips it.
	bars := make([]domain.Bar, 31)
	price := 1.2000
	for i := 0; i < 30; i++ {
		bars[i] = domain.Bar{Open: price + 0.0003, High: price + 0.001, Low: price - 0.001, Close: price}
		price -= 0.0005
	}
	last := price + 0.06
	bars[30] = domain.Bar{Open: price, High: last, Low: price, Close: last}

	v := s.Evaluate(bars)
	require.Equal(t, domain.SignalBuy, v.Signal, "reason: %s", v.Reason)
	// The Supertrend line itself is the stop.
	assert.Less(t, v.StopLoss, v.EntryPrice)
	assert.Greater(t, v.TakeProfit, v.EntryPrice)

	// Without the breakout the direction never changes.
	hold := s.Evaluate(bars[:30])
	assert.Equal(t, domain.SignalNoTrade, hold.Signal)
}
