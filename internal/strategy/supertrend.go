package strategy

import (
	"fmt"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
)

// SupertrendConfig holds configuration for the Supertrend flip strategy.
type SupertrendConfig struct {
	ATRPeriod     int     // e.g. 10
	ATRMultiplier float64 // band distance in ATRs (e.g. 3.0)
	RiskReward    float64
}

// SupertrendFlip enters when the Supertrend direction flips, using the
// Supertrend line itself as the stop.
type SupertrendFlip struct {
	cfg SupertrendConfig
}

// NewSupertrendFlip creates the strategy, filling zero fields with defaults.
func NewSupertrendFlip(cfg SupertrendConfig) (*SupertrendFlip, error) {
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = 10
	}
	if cfg.ATRMultiplier == 0 {
		cfg.ATRMultiplier = 3.0
	}
	if cfg.RiskReward == 0 {
		cfg.RiskReward = 2.0
	}
	if cfg.ATRPeriod < 0 {
		return nil, fmt.Errorf("strategy periods must be positive")
	}
	return &SupertrendFlip{cfg: cfg}, nil
}

func (s *SupertrendFlip) ID() domain.StrategyID { return domain.StrategySupertrend }

func (s *SupertrendFlip) MinBars() int {
	return s.cfg.ATRPeriod + 2
}

func (s *SupertrendFlip) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < s.MinBars() {
		return domain.NoTrade(insufficientDataReason)
	}
	high, low, close := series(bars)

	line, direction := indicators.Supertrend(high, low, close, s.cfg.ATRPeriod, s.cfg.ATRMultiplier)
	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)

	n := len(close)
	prevDir, currDir := direction[n-2], direction[n-1]
	currClose := close[n-1]
	target := s.cfg.ATRMultiplier * atr[n-1] * s.cfg.RiskReward

	if prevDir == -1 && currDir == 1 {
		return domain.Verdict{
			Signal:     domain.SignalBuy,
			EntryPrice: currClose,
			StopLoss:   line[n-1],
			TakeProfit: currClose + target,
			Reason:     "Supertrend flipped to uptrend",
		}
	}
	if prevDir == 1 && currDir == -1 {
		return domain.Verdict{
			Signal:     domain.SignalSell,
			EntryPrice: currClose,
			StopLoss:   line[n-1],
			TakeProfit: currClose - target,
			Reason:     "Supertrend flipped to downtrend",
		}
	}
	return domain.NoTrade("Supertrend direction unchanged")
}
