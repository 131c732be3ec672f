// Package backtest replays historical bars through a strategy and simulates
// the resulting trades against each bar's high/low range. Profit is measured
// in points so results are comparable across symbols and position sizes.
package backtest

import (
	"fmt"
	"time"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"
)

// Config holds backtest parameters.
type Config struct {
	Point float64 // price value of one point, e.g. 0.00001 for 5-digit FX
}

// Outcome says how a simulated trade ended.
type Outcome string

const (
	OutcomeStopLoss   Outcome = "stop_loss"
	OutcomeTakeProfit Outcome = "take_profit"
	OutcomeEndOfData  Outcome = "end_of_data"
)

// SimulatedTrade records one entry/exit pair produced during replay.
type SimulatedTrade struct {
	Type       domain.SignalType
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	StopLoss   float64
	TakeProfit float64
	PnLPoints  float64
	Outcome    Outcome
	Reason     string // strategy reason at entry
}

// Result aggregates the replay statistics.
type Result struct {
	StrategyID        domain.StrategyID
	TotalTrades       int
	WinningTrades     int
	LosingTrades      int
	WinRate           float64 // 0..1, zero when no trades
	NetPoints         float64
	GrossProfitPoints float64
	GrossLossPoints   float64 // positive magnitude
	ProfitFactor      float64 // zero when no losses
	MaxDrawdownPoints float64
	Trades            []SimulatedTrade
}

// Run replays the bar series through the strategy. At most one simulated
// trade is open at a time; an open trade is checked against each later bar's
// range, with the stop loss taking precedence when both levels fall inside
// the same bar. A trade still open at the end of the series is closed at the
// final bar's close.
func Run(cfg Config, strat ports.Strategy, bars []domain.Bar) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is required")
	}
	if cfg.Point <= 0 {
		return nil, fmt.Errorf("point size must be positive")
	}
	minBars := strat.MinBars()
	if len(bars) <= minBars {
		return nil, fmt.Errorf("need more than %d bars, got %d", minBars, len(bars))
	}

	result := &Result{StrategyID: strat.ID()}
	var open *SimulatedTrade

	for i := minBars; i < len(bars); i++ {
		bar := bars[i]

		if open != nil {
			if price, outcome, hit := checkExit(open, bar); hit {
				closeTrade(result, open, bar.Time, price, outcome, cfg.Point)
				open = nil
			}
			continue
		}

		verdict := strat.Evaluate(bars[:i+1])
		if verdict.Signal == domain.SignalNoTrade {
			continue
		}
		open = &SimulatedTrade{
			Type:       verdict.Signal,
			EntryTime:  bar.Time,
			EntryPrice: verdict.EntryPrice,
			StopLoss:   verdict.StopLoss,
			TakeProfit: verdict.TakeProfit,
			Reason:     verdict.Reason,
		}
	}

	if open != nil {
		last := bars[len(bars)-1]
		closeTrade(result, open, last.Time, last.Close, OutcomeEndOfData, cfg.Point)
	}

	finalize(result)
	return result, nil
}

// checkExit tests an open trade against one bar's range.
func checkExit(t *SimulatedTrade, bar domain.Bar) (price float64, outcome Outcome, hit bool) {
	if t.Type == domain.SignalBuy {
		if t.StopLoss > 0 && bar.Low <= t.StopLoss {
			return t.StopLoss, OutcomeStopLoss, true
		}
		if t.TakeProfit > 0 && bar.High >= t.TakeProfit {
			return t.TakeProfit, OutcomeTakeProfit, true
		}
		return 0, "", false
	}
	if t.StopLoss > 0 && bar.High >= t.StopLoss {
		return t.StopLoss, OutcomeStopLoss, true
	}
	if t.TakeProfit > 0 && bar.Low <= t.TakeProfit {
		return t.TakeProfit, OutcomeTakeProfit, true
	}
	return 0, "", false
}

func closeTrade(result *Result, t *SimulatedTrade, at time.Time, price float64, outcome Outcome, point float64) {
	t.ExitTime = at
	t.ExitPrice = price
	t.Outcome = outcome

	diff := price - t.EntryPrice
	if t.Type == domain.SignalSell {
		diff = -diff
	}
	t.PnLPoints = diff / point

	result.TotalTrades++
	result.NetPoints += t.PnLPoints
	if t.PnLPoints > 0 {
		result.WinningTrades++
		result.GrossProfitPoints += t.PnLPoints
	} else if t.PnLPoints < 0 {
		result.LosingTrades++
		result.GrossLossPoints += -t.PnLPoints
	}
	result.Trades = append(result.Trades, *t)
}

func finalize(result *Result) {
	if result.TotalTrades > 0 {
		result.WinRate = float64(result.WinningTrades) / float64(result.TotalTrades)
	}
	if result.GrossLossPoints > 0 {
		result.ProfitFactor = result.GrossProfitPoints / result.GrossLossPoints
	}

	var running, peak float64
	for _, t := range result.Trades {
		running += t.PnLPoints
		if running > peak {
			peak = running
		}
		if dd := peak - running; dd > result.MaxDrawdownPoints {
			result.MaxDrawdownPoints = dd
		}
	}
}
