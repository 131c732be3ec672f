package strategy

import (
	"fmt"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
)

// RSISwingConfig holds configuration for the RSI swing strategy.
type RSISwingConfig struct {
	RSIPeriod     int
	Oversold      float64
	Overbought    float64
	ExitLevel     float64 // position-management level, not used for entries
	ATRPeriod     int
	ATRMultiplier float64
	RiskReward    float64
}

// RSISwing enters when RSI crosses back through the oversold or overbought
// threshold.
type RSISwing struct {
	cfg RSISwingConfig
}

// NewRSISwing creates the strategy, filling zero fields with defaults.
func NewRSISwing(cfg RSISwingConfig) (*RSISwing, error) {
	if cfg.RSIPeriod == 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.Oversold == 0 {
		cfg.Oversold = 30
	}
	if cfg.Overbought == 0 {
		cfg.Overbought = 70
	}
	if cfg.ExitLevel == 0 {
		cfg.ExitLevel = 50
	}
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.ATRMultiplier == 0 {
		cfg.ATRMultiplier = 2.0
	}
	if cfg.RiskReward == 0 {
		cfg.RiskReward = 2.5
	}
	if cfg.RSIPeriod < 0 || cfg.ATRPeriod < 0 {
		return nil, fmt.Errorf("strategy periods must be positive")
	}
	if cfg.Oversold >= cfg.Overbought {
		return nil, fmt.Errorf("oversold level must be below overbought level")
	}
	return &RSISwing{cfg: cfg}, nil
}

func (s *RSISwing) ID() domain.StrategyID { return domain.StrategyRSISwing }

func (s *RSISwing) MinBars() int {
	return maxInt(s.cfg.RSIPeriod, s.cfg.ATRPeriod) + 2
}

func (s *RSISwing) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < s.MinBars() {
		return domain.NoTrade(insufficientDataReason)
	}
	high, low, close := series(bars)

	rsi := indicators.RSI(close, s.cfg.RSIPeriod)
	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)

	n := len(close)
	prevRSI, currRSI := rsi[n-2], rsi[n-1]
	currClose := close[n-1]
	stop := s.cfg.ATRMultiplier * atr[n-1]

	if prevRSI < s.cfg.Oversold && currRSI >= s.cfg.Oversold {
		return domain.Verdict{
			Signal:     domain.SignalBuy,
			EntryPrice: currClose,
			StopLoss:   currClose - stop,
			TakeProfit: currClose + stop*s.cfg.RiskReward,
			Reason:     fmt.Sprintf("RSI crossed up out of oversold (%.1f -> %.1f)", prevRSI, currRSI),
		}
	}
	if prevRSI > s.cfg.Overbought && currRSI <= s.cfg.Overbought {
		return domain.Verdict{
			Signal:     domain.SignalSell,
			EntryPrice: currClose,
			StopLoss:   currClose + stop,
			TakeProfit: currClose - stop*s.cfg.RiskReward,
			Reason:     fmt.Sprintf("RSI crossed down out of overbought (%.1f -> %.1f)", prevRSI, currRSI),
		}
	}
	return domain.NoTrade("RSI not at an entry point")
}
