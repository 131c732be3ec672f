package strategy

import (
	"fmt"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
)

// MACrossoverConfig holds configuration for the MA Crossover strategy.
type MACrossoverConfig struct {
	FastPeriod    int     // fast EMA period (e.g. 10)
	SlowPeriod    int     // slow EMA period (e.g. 30)
	ATRPeriod     int     // ATR period for stop distance (e.g. 14)
	ATRMultiplier float64 // stop distance in ATRs (e.g. 2.0)
	RiskReward    float64 // take-profit distance as a multiple of the stop distance
}

// MACrossover enters when the fast EMA crosses the slow EMA with the close
// confirming on the fast side.
type MACrossover struct {
	cfg MACrossoverConfig
}

// NewMACrossover creates the strategy, filling zero fields with defaults.
func NewMACrossover(cfg MACrossoverConfig) (*MACrossover, error) {
	if cfg.FastPeriod == 0 {
		cfg.FastPeriod = 10
	}
	if cfg.SlowPeriod == 0 {
		cfg.SlowPeriod = 30
	}
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.ATRMultiplier == 0 {
		cfg.ATRMultiplier = 2.0
	}
	if cfg.RiskReward == 0 {
		cfg.RiskReward = 2.0
	}
	if cfg.FastPeriod < 0 || cfg.SlowPeriod < 0 || cfg.ATRPeriod < 0 {
		return nil, fmt.Errorf("strategy periods must be positive")
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		return nil, fmt.Errorf("fast MA period must be less than slow MA period")
	}
	if cfg.ATRMultiplier < 0 || cfg.RiskReward < 0 {
		return nil, fmt.Errorf("ATR multiplier and risk reward must be positive")
	}
	return &MACrossover{cfg: cfg}, nil
}

func (s *MACrossover) ID() domain.StrategyID { return domain.StrategyMACrossover }

func (s *MACrossover) MinBars() int {
	return maxInt(s.cfg.FastPeriod, s.cfg.SlowPeriod, s.cfg.ATRPeriod) + 2
}

func (s *MACrossover) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < s.MinBars() {
		return domain.NoTrade(insufficientDataReason)
	}
	high, low, close := series(bars)

	emaFast := indicators.EMA(close, s.cfg.FastPeriod)
	emaSlow := indicators.EMA(close, s.cfg.SlowPeriod)
	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)

	n := len(close)
	prevFast, prevSlow := emaFast[n-2], emaSlow[n-2]
	currFast, currSlow := emaFast[n-1], emaSlow[n-1]
	currClose, currATR := close[n-1], atr[n-1]

	stop := s.cfg.ATRMultiplier * currATR

	if prevFast <= prevSlow && currFast > currSlow && currClose > currFast {
		return domain.Verdict{
			Signal:     domain.SignalBuy,
			EntryPrice: currClose,
			StopLoss:   currClose - stop,
			TakeProfit: currClose + stop*s.cfg.RiskReward,
			Reason:     fmt.Sprintf("EMA%d crossed above EMA%d", s.cfg.FastPeriod, s.cfg.SlowPeriod),
		}
	}
	if prevFast >= prevSlow && currFast < currSlow && currClose < currFast {
		return domain.Verdict{
			Signal:     domain.SignalSell,
			EntryPrice: currClose,
			StopLoss:   currClose + stop,
			TakeProfit: currClose - stop*s.cfg.RiskReward,
			Reason:     fmt.Sprintf("EMA%d crossed below EMA%d", s.cfg.FastPeriod, s.cfg.SlowPeriod),
		}
	}
	return domain.NoTrade("no crossover signal")
}
