package strategy

import (
	"fmt"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
)

// ATRTrailingConfig holds configuration for the trend-following ATR
// trailing-stop strategy.
type ATRTrailingConfig struct {
	ATRPeriod     int     // e.g. 14
	ATRMultiplier float64 // trailing distance in ATRs (e.g. 3.0)
	TrendMAPeriod int     // EMA period used as the trend filter (e.g. 50)
	RiskReward    float64
}

// ATRTrailing follows the trend defined by a long EMA, with ATR-based stop
// and target distances.
type ATRTrailing struct {
	cfg ATRTrailingConfig
}

// NewATRTrailing creates the strategy, filling zero fields with defaults.
func NewATRTrailing(cfg ATRTrailingConfig) (*ATRTrailing, error) {
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.ATRMultiplier == 0 {
		cfg.ATRMultiplier = 3.0
	}
	if cfg.TrendMAPeriod == 0 {
		cfg.TrendMAPeriod = 50
	}
	if cfg.RiskReward == 0 {
		cfg.RiskReward = 3.0
	}
	if cfg.ATRPeriod < 0 || cfg.TrendMAPeriod < 0 {
		return nil, fmt.Errorf("strategy periods must be positive")
	}
	return &ATRTrailing{cfg: cfg}, nil
}

func (s *ATRTrailing) ID() domain.StrategyID { return domain.StrategyATRTrailing }

func (s *ATRTrailing) MinBars() int {
	return maxInt(s.cfg.ATRPeriod, s.cfg.TrendMAPeriod) + 2
}

func (s *ATRTrailing) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < s.MinBars() {
		return domain.NoTrade(insufficientDataReason)
	}
	high, low, close := series(bars)

	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)
	trendMA := indicators.EMA(close, s.cfg.TrendMAPeriod)

	n := len(close)
	currClose := close[n-1]
	currMA := trendMA[n-1]
	stop := s.cfg.ATRMultiplier * atr[n-1]

	if currClose > currMA {
		return domain.Verdict{
			Signal:     domain.SignalBuy,
			EntryPrice: currClose,
			StopLoss:   currClose - stop,
			TakeProfit: currClose + stop*s.cfg.RiskReward,
			Reason:     fmt.Sprintf("uptrend: close above EMA%d", s.cfg.TrendMAPeriod),
		}
	}
	if currClose < currMA {
		return domain.Verdict{
			Signal:     domain.SignalSell,
			EntryPrice: currClose,
			StopLoss:   currClose + stop,
			TakeProfit: currClose - stop*s.cfg.RiskReward,
			Reason:     fmt.Sprintf("downtrend: close below EMA%d", s.cfg.TrendMAPeriod),
		}
	}
	return domain.NoTrade("no clear trend")
}
