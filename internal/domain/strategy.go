package domain

// StrategyID identifies a registered trading strategy.
type StrategyID string

const (
	StrategyMACrossover      StrategyID = "ma_crossover"
	StrategyDonchianBreakout StrategyID = "donchian_breakout"
	StrategyBollingerBands   StrategyID = "bollinger_bands"
	StrategyRSISwing         StrategyID = "rsi_swing"
	StrategyMACD             StrategyID = "macd"
	StrategyATRTrailing      StrategyID = "atr_trailing"
	StrategySupertrend       StrategyID = "supertrend"
	StrategyUltimateAccuracy StrategyID = "ultimate_accuracy"
	StrategyAIMultiFactor    StrategyID = "ai_multi_factor"
)

// AllStrategyIDs lists every built-in strategy in registration order.
func AllStrategyIDs() []StrategyID {
	return []StrategyID{
		StrategyMACrossover,
		StrategyDonchianBreakout,
		StrategyBollingerBands,
		StrategyRSISwing,
		StrategyMACD,
		StrategyATRTrailing,
		StrategySupertrend,
		StrategyUltimateAccuracy,
		StrategyAIMultiFactor,
	}
}
