package strategy

import (
	"fmt"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
)

// BollingerBandsConfig holds configuration for the Bollinger + RSI
// mean-reversion strategy.
type BollingerBandsConfig struct {
	Period        int     // Bollinger window (e.g. 20)
	StdDev        float64 // band width in standard deviations (e.g. 2.0)
	RSIPeriod     int
	RSIOversold   float64
	RSIOverbought float64
	ATRPeriod     int
	ATRMultiplier float64 // stop distance in ATRs (e.g. 1.5)
}

// BollingerBands fades closes outside the bands when RSI confirms the
// extreme, targeting the middle band.
type BollingerBands struct {
	cfg BollingerBandsConfig
}

// NewBollingerBands creates the strategy, filling zero fields with defaults.
func NewBollingerBands(cfg BollingerBandsConfig) (*BollingerBands, error) {
	if cfg.Period == 0 {
		cfg.Period = 20
	}
	if cfg.StdDev == 0 {
		cfg.StdDev = 2.0
	}
	if cfg.RSIPeriod == 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.RSIOversold == 0 {
		cfg.RSIOversold = 30
	}
	if cfg.RSIOverbought == 0 {
		cfg.RSIOverbought = 70
	}
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.ATRMultiplier == 0 {
		cfg.ATRMultiplier = 1.5
	}
	if cfg.Period < 0 || cfg.RSIPeriod < 0 || cfg.ATRPeriod < 0 {
		return nil, fmt.Errorf("strategy periods must be positive")
	}
	if cfg.RSIOversold >= cfg.RSIOverbought {
		return nil, fmt.Errorf("RSI oversold level must be below overbought level")
	}
	return &BollingerBands{cfg: cfg}, nil
}

func (s *BollingerBands) ID() domain.StrategyID { return domain.StrategyBollingerBands }

func (s *BollingerBands) MinBars() int {
	return maxInt(s.cfg.Period, s.cfg.RSIPeriod, s.cfg.ATRPeriod) + 2
}

func (s *BollingerBands) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < s.MinBars() {
		return domain.NoTrade(insufficientDataReason)
	}
	high, low, close := series(bars)

	upper, middle, lower := indicators.BollingerBands(close, s.cfg.Period, s.cfg.StdDev)
	rsi := indicators.RSI(close, s.cfg.RSIPeriod)
	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)

	n := len(close)
	currClose := close[n-1]
	currRSI := rsi[n-1]
	stop := s.cfg.ATRMultiplier * atr[n-1]

	if currClose < lower[n-1] && currRSI < s.cfg.RSIOversold {
		return domain.Verdict{
			Signal:     domain.SignalBuy,
			EntryPrice: currClose,
			StopLoss:   currClose - stop,
			TakeProfit: middle[n-1],
			Reason:     fmt.Sprintf("oversold: close below lower band, RSI=%.1f", currRSI),
		}
	}
	if currClose > upper[n-1] && currRSI > s.cfg.RSIOverbought {
		return domain.Verdict{
			Signal:     domain.SignalSell,
			EntryPrice: currClose,
			StopLoss:   currClose + stop,
			TakeProfit: middle[n-1],
			Reason:     fmt.Sprintf("overbought: close above upper band, RSI=%.1f", currRSI),
		}
	}
	return domain.NoTrade("not in an overbought/oversold zone")
}
