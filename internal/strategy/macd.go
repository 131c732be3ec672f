package strategy

import (
	"fmt"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
)

// MACDConfig holds configuration for the MACD crossover strategy.
type MACDConfig struct {
	FastPeriod    int // e.g. 12
	SlowPeriod    int // e.g. 26
	SignalPeriod  int // e.g. 9
	ATRPeriod     int
	ATRMultiplier float64
	RiskReward    float64
}

// MACDCross enters when the MACD line crosses its signal line.
type MACDCross struct {
	cfg MACDConfig
}

// NewMACDCross creates the strategy, filling zero fields with defaults.
func NewMACDCross(cfg MACDConfig) (*MACDCross, error) {
	if cfg.FastPeriod == 0 {
		cfg.FastPeriod = 12
	}
	if cfg.SlowPeriod == 0 {
		cfg.SlowPeriod = 26
	}
	if cfg.SignalPeriod == 0 {
		cfg.SignalPeriod = 9
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
	if cfg.FastPeriod < 0 || cfg.SlowPeriod < 0 || cfg.SignalPeriod < 0 || cfg.ATRPeriod < 0 {
		return nil, fmt.Errorf("strategy periods must be positive")
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		return nil, fmt.Errorf("fast period must be less than slow period")
	}
	return &MACDCross{cfg: cfg}, nil
}

func (s *MACDCross) ID() domain.StrategyID { return domain.StrategyMACD }

func (s *MACDCross) MinBars() int {
	return maxInt(s.cfg.SlowPeriod, s.cfg.ATRPeriod) + s.cfg.SignalPeriod + 2
}

func (s *MACDCross) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < s.MinBars() {
		return domain.NoTrade(insufficientDataReason)
	}
	high, low, close := series(bars)

	macdLine, signalLine, _ := indicators.MACD(close, s.cfg.FastPeriod, s.cfg.SlowPeriod, s.cfg.SignalPeriod)
	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)

	n := len(close)
	prevMACD, prevSignal := macdLine[n-2], signalLine[n-2]
	currMACD, currSignal := macdLine[n-1], signalLine[n-1]
	currClose := close[n-1]
	stop := s.cfg.ATRMultiplier * atr[n-1]

	if prevMACD <= prevSignal && currMACD > currSignal {
		return domain.Verdict{
			Signal:     domain.SignalBuy,
			EntryPrice: currClose,
			StopLoss:   currClose - stop,
			TakeProfit: currClose + stop*s.cfg.RiskReward,
			Reason:     "MACD crossed above signal line",
		}
	}
	if prevMACD >= prevSignal && currMACD < currSignal {
		return domain.Verdict{
			Signal:     domain.SignalSell,
			EntryPrice: currClose,
			StopLoss:   currClose + stop,
			TakeProfit: currClose - stop*s.cfg.RiskReward,
			Reason:     "MACD crossed below signal line",
		}
	}
	return domain.NoTrade("no MACD crossover")
}
