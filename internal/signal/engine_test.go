package signal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forexSignalBot/internal/domain"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type stubStrategy struct {
	id      domain.StrategyID
	verdict domain.Verdict
	panics  bool
}

func (s *stubStrategy) ID() domain.StrategyID { return s.id }
func (s *stubStrategy) MinBars() int          { return 1 }
func (s *stubStrategy) Evaluate(bars []domain.Bar) domain.Verdict {
	if s.panics {
		panic("bad arithmetic")
	}
	return s.verdict
}

func someBars(n int) []domain.Bar {
	bars := make([]domain.Bar, n)
	for i := range bars {
		c := 1.1 + 0.0001*float64(i)
		bars[i] = domain.Bar{Open: c - 0.0001, High: c + 0.0005, Low: c - 0.0005, Close: c}
	}
	return bars
}

func TestGenerateWrapsVerdict(t *testing.T) {
	stub := &stubStrategy{
		id: "stub",
		verdict: domain.Verdict{
			Signal:     domain.SignalBuy,
			EntryPrice: 1.1000,
			StopLoss:   1.0950,
			TakeProfit: 1.1100,
			Reason:     "test entry",
		},
	}
	e, err := New(Config{}, &mockLogger{}, stub)
	require.NoError(t, err)

	sig := e.Generate(context.Background(), "EURUSD", "stub", someBars(60), 0.0001)

	assert.Equal(t, domain.SignalBuy, sig.Type)
	assert.Equal(t, "EURUSD", sig.Symbol)
	assert.InDelta(t, 50.0, sig.RiskPoints, 1e-6)
	assert.InDelta(t, 100.0, sig.RewardPoints, 1e-6)
	assert.InDelta(t, 2.0, sig.RiskReward, 1e-9)
	assert.False(t, sig.Timestamp.IsZero())
}

func TestGenerateUnknownStrategy(t *testing.T) {
	e, err := New(Config{}, &mockLogger{})
	require.NoError(t, err)

	sig := e.Generate(context.Background(), "EURUSD", "no_such_strategy", someBars(60), 0.0001)

	assert.Equal(t, domain.SignalNoTrade, sig.Type)
	assert.Contains(t, sig.Reason, "unknown strategy")
}

func TestGenerateRecoversPanic(t *testing.T) {
	e, err := New(Config{}, &mockLogger{}, &stubStrategy{id: "boom", panics: true})
	require.NoError(t, err)

	sig := e.Generate(context.Background(), "EURUSD", "boom", someBars(60), 0.0001)

	assert.Equal(t, domain.SignalNoTrade, sig.Type)
	assert.Contains(t, sig.Reason, "computation failure")
	assert.Contains(t, sig.Reason, "bad arithmetic")
}

func TestNewWithDefaultsRegistersAllStrategies(t *testing.T) {
	e, err := NewWithDefaults(Config{}, &mockLogger{})
	require.NoError(t, err)

	for _, id := range domain.AllStrategyIDs() {
		_, ok := e.strategies[id]
		assert.True(t, ok, "strategy %s not registered", id)
	}
}

func TestScanSymbolsSkipsAndFilters(t *testing.T) {
	buy := &stubStrategy{id: "stub", verdict: domain.Verdict{
		Signal: domain.SignalBuy, EntryPrice: 1.1, StopLoss: 1.09, TakeProfit: 1.12,
	}}
	e, err := New(Config{}, &mockLogger{}, buy)
	require.NoError(t, err)

	inputs := []ScanInput{
		{Symbol: "EURUSD", Bars: someBars(60), Point: 0.0001},
		{Symbol: "GBPUSD", Bars: someBars(10), Point: 0.0001}, // too short, skipped
		{Symbol: "USDJPY", Bars: someBars(80), Point: 0.01},
	}
	out := e.ScanSymbols(context.Background(), "stub", inputs)

	require.Len(t, out, 2)
	assert.Equal(t, "EURUSD", out[0].Symbol)
	assert.Equal(t, "USDJPY", out[1].Symbol)
}

func TestScanSymbolsDropsNoTrade(t *testing.T) {
	flat := &stubStrategy{id: "flat", verdict: domain.NoTrade("nothing to do")}
	e, err := New(Config{}, &mockLogger{}, flat)
	require.NoError(t, err)

	out := e.ScanSymbols(context.Background(), "flat", []ScanInput{
		{Symbol: "EURUSD", Bars: someBars(60), Point: 0.0001},
	})
	assert.Empty(t, out)
}
