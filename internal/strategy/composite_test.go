package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forexSignalBot/internal/domain"
)

func trendingBars(n int, start, step float64) []domain.Bar {
	bars := make([]domain.Bar, n)
	price := start
	for i := 0; i < n; i++ {
		next := price + step
		open, close := price, next
		bars[i] = domain.Bar{
			Open:   open,
			High:   maxF(open, close) + 0.0002,
			Low:    minF(open, close) - 0.0002,
			Close:  close,
			Volume: 1000,
		}
		price = next
	}
	return bars
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func TestUltimateAccuracyShortHistoryIsNeutral(t *testing.T) {
	s, err := NewUltimateAccuracy(UltimateAccuracyConfig{})
	require.NoError(t, err)

	v := s.Evaluate(trendingBars(50, 1.1000, 0.0001))

	assert.Equal(t, domain.SignalNoTrade, v.Signal)
	require.NotNil(t, v.Accuracy)
	assert.Equal(t, 50.0, v.Accuracy.Score)
	assert.Equal(t, domain.ConfidenceVeryLow, v.Accuracy.Confidence)
	assert.Equal(t, "wait", v.Accuracy.Recommendation)
	assert.NotEmpty(t, v.Reason)
}

func TestUltimateAccuracyValidation(t *testing.T) {
	_, err := NewUltimateAccuracy(UltimateAccuracyConfig{MinAccuracy: 30})
	assert.Error(t, err)

	_, err = NewUltimateAccuracy(UltimateAccuracyConfig{MinAccuracy: 101})
	assert.Error(t, err)
}

func TestUltimateAccuracyGatesOnThreshold(t *testing.T) {
	bars := trendingBars(150, 1.1000, 0.0001)

	// At the default 75% threshold a mild steady trend scores in the middle
	// of the range and stays a wait.
	strict, err := NewUltimateAccuracy(UltimateAccuracyConfig{})
	require.NoError(t, err)
	v := strict.Evaluate(bars)
	assert.Equal(t, domain.SignalNoTrade, v.Signal)
	require.NotNil(t, v.Accuracy)
	assert.Equal(t, "wait", v.Accuracy.Recommendation)
	assert.Greater(t, v.Accuracy.Score, 50.0)
	assert.Less(t, v.Accuracy.Score, 75.0)
	assert.NotEmpty(t, v.Reason)

	// Lowering the gate turns the same score into an actionable buy.
	loose, err := NewUltimateAccuracy(UltimateAccuracyConfig{MinAccuracy: 50})
	require.NoError(t, err)
	v = loose.Evaluate(bars)
	require.Equal(t, domain.SignalBuy, v.Signal, "reason: %s", v.Reason)
	assert.Equal(t, "buy", v.Accuracy.Recommendation)
	assert.Less(t, v.StopLoss, v.EntryPrice)
	assert.Greater(t, v.TakeProfit, v.EntryPrice)
	rr := (v.TakeProfit - v.EntryPrice) / (v.EntryPrice - v.StopLoss)
	assert.InDelta(t, 2.0, rr, 1e-9)
}

func TestConfidenceTiers(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.Confidence
	}{
		{95, domain.ConfidenceVeryHigh},
		{90, domain.ConfidenceVeryHigh},
		{80, domain.ConfidenceHigh},
		{65, domain.ConfidenceMedium},
		{50, domain.ConfidenceLow},
		{44, domain.ConfidenceVeryLow},
		{10, domain.ConfidenceVeryLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, confidenceTier(tt.score), "score %.0f", tt.score)
	}
}

func TestAIMultiFactorBuySignalOnTrend(t *testing.T) {
	s, err := NewAIMultiFactor(AIMultiFactorConfig{})
	require.NoError(t, err)

	v := s.Evaluate(trendingBars(150, 1.1000, 0.0001))

	require.Equal(t, domain.SignalBuy, v.Signal, "reason: %s", v.Reason)
	require.NotNil(t, v.Accuracy)
	assert.GreaterOrEqual(t, v.Accuracy.BullScore, aiFireThreshold)
	assert.Greater(t, v.Accuracy.BullScore, v.Accuracy.BearScore)
	assert.Less(t, v.StopLoss, v.EntryPrice)
	assert.Greater(t, v.TakeProfit, v.EntryPrice)
}

func TestAIMultiFactorNoTradeListsDiagnostics(t *testing.T) {
	s, err := NewAIMultiFactor(AIMultiFactorConfig{})
	require.NoError(t, err)

	// A perfectly flat market has nothing to act on.
	bars := make([]domain.Bar, 120)
	for i := range bars {
		bars[i] = domain.Bar{Open: 100, High: 100.2, Low: 99.8, Close: 100, Volume: 1000}
	}
	v := s.Evaluate(bars)

	assert.Equal(t, domain.SignalNoTrade, v.Signal)
	assert.Contains(t, v.Reason, "bull=")
	assert.Contains(t, v.Reason, "bear=")
	assert.Contains(t, v.Reason, "momentum=")
}

func TestAIMultiFactorInsufficientData(t *testing.T) {
	s, err := NewAIMultiFactor(AIMultiFactorConfig{})
	require.NoError(t, err)

	v := s.Evaluate(trendingBars(50, 1.1, 0.0001))
	assert.Equal(t, domain.SignalNoTrade, v.Signal)
	assert.Equal(t, "insufficient data", v.Reason)
}
