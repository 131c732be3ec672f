package strategy

import (
	"fmt"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
)

// DonchianBreakoutConfig holds configuration for the Donchian channel
// breakout strategy (turtle-style).
type DonchianBreakoutConfig struct {
	EntryPeriod   int     // channel lookback for entries (e.g. 20)
	ExitPeriod    int     // channel lookback for exits (e.g. 10)
	ATRPeriod     int     // ATR period for stop distance
	ATRMultiplier float64 // stop distance in ATRs
	RiskReward    float64
}

// DonchianBreakout enters when the close breaks the channel that was settled
// before the current bar formed.
type DonchianBreakout struct {
	cfg DonchianBreakoutConfig
}

// NewDonchianBreakout creates the strategy, filling zero fields with defaults.
func NewDonchianBreakout(cfg DonchianBreakoutConfig) (*DonchianBreakout, error) {
	if cfg.EntryPeriod == 0 {
		cfg.EntryPeriod = 20
	}
	if cfg.ExitPeriod == 0 {
		cfg.ExitPeriod = 10
	}
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.ATRMultiplier == 0 {
		cfg.ATRMultiplier = 2.0
	}
	if cfg.RiskReward == 0 {
		cfg.RiskReward = 3.0
	}
	if cfg.EntryPeriod < 0 || cfg.ExitPeriod < 0 || cfg.ATRPeriod < 0 {
		return nil, fmt.Errorf("strategy periods must be positive")
	}
	return &DonchianBreakout{cfg: cfg}, nil
}

func (s *DonchianBreakout) ID() domain.StrategyID { return domain.StrategyDonchianBreakout }

func (s *DonchianBreakout) MinBars() int {
	return maxInt(s.cfg.EntryPeriod, s.cfg.ExitPeriod, s.cfg.ATRPeriod) + 2
}

func (s *DonchianBreakout) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < s.MinBars() {
		return domain.NoTrade(insufficientDataReason)
	}
	high, low, close := series(bars)

	upper, lower := indicators.DonchianChannel(high, low, s.cfg.EntryPeriod)
	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)

	n := len(close)
	prevClose, currClose := close[n-2], close[n-1]
	// The channel two bars back excludes the breakout bar itself.
	prevUpper, prevLower := upper[n-3], lower[n-3]
	currATR := atr[n-1]
	stop := s.cfg.ATRMultiplier * currATR

	if prevClose <= prevUpper && currClose > prevUpper {
		return domain.Verdict{
			Signal:     domain.SignalBuy,
			EntryPrice: currClose,
			StopLoss:   currClose - stop,
			TakeProfit: currClose + stop*s.cfg.RiskReward,
			Reason:     fmt.Sprintf("broke above Donchian upper (%d periods)", s.cfg.EntryPeriod),
		}
	}
	if prevClose >= prevLower && currClose < prevLower {
		return domain.Verdict{
			Signal:     domain.SignalSell,
			EntryPrice: currClose,
			StopLoss:   currClose + stop,
			TakeProfit: currClose - stop*s.cfg.RiskReward,
			Reason:     fmt.Sprintf("broke below Donchian lower (%d periods)", s.cfg.EntryPeriod),
		}
	}
	return domain.NoTrade("no channel breakout")
}
