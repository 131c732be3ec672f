package risk

import (
	"fmt"
	"math"
	"strings"

	"forexSignalBot/internal/domain"
)

// Calculation is the full breakdown of a prospective position: the volume to
// trade plus the money and distance figures an operator reviews before
// confirming an order.
type Calculation struct {
	Symbol     string
	Direction  domain.SignalType
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64

	Point        float64
	TickValue    float64
	ContractSize float64

	LotSize         float64
	RiskAmount      float64
	RewardAmount    float64
	RiskRewardRatio float64

	StopDistancePoints   float64
	ProfitDistancePoints float64
	StopDistancePips     float64
	ProfitDistancePips   float64

	AccountEquity float64
	RiskPercent   float64
}

// Valid reports whether the calculation produced a tradable volume with a
// positive reward.
func (c Calculation) Valid() bool {
	return c.LotSize > 0 && c.RiskRewardRatio > 0
}

// RiskRewardText renders the ratio as "1:N.NN".
func (c Calculation) RiskRewardText() string {
	return fmt.Sprintf("1:%.2f", c.RiskRewardRatio)
}

// CalculatePosition sizes a position so the stop-out loss equals riskPercent
// of equity. Distances are derived from the direction: for a BUY the stop sits
// below entry and the target above, mirrored for a SELL. A non-positive stop
// distance or missing contract data yields an invalid (zero-lot) result.
func CalculatePosition(symbol string, direction domain.SignalType, entry, stopLoss, takeProfit, equity float64, info domain.SymbolInfo, riskPercent float64) Calculation {
	c := Calculation{
		Symbol:        symbol,
		Direction:     direction,
		EntryPrice:    entry,
		StopLoss:      stopLoss,
		TakeProfit:    takeProfit,
		Point:         info.Point,
		TickValue:     info.TickValue,
		ContractSize:  info.ContractSize,
		AccountEquity: equity,
		RiskPercent:   riskPercent,
	}

	var stopDistance, profitDistance float64
	if direction == domain.SignalBuy {
		stopDistance = entry - stopLoss
		profitDistance = takeProfit - entry
	} else {
		stopDistance = stopLoss - entry
		profitDistance = entry - takeProfit
	}
	if info.Point <= 0 || info.TickValue <= 0 || stopDistance <= 0 {
		return c
	}

	c.StopDistancePoints = stopDistance / info.Point
	c.ProfitDistancePoints = profitDistance / info.Point

	// Pips are quoted per convention: JPY pairs carry one less decimal.
	pipFactor := 10.0
	if strings.Contains(symbol, "JPY") {
		pipFactor = 100.0
	}
	c.StopDistancePips = c.StopDistancePoints / pipFactor
	c.ProfitDistancePips = c.ProfitDistancePoints / pipFactor

	c.RiskAmount = equity * riskPercent / 100

	valuePerPoint := info.TickValue / info.Point
	lot := c.RiskAmount / (stopDistance * valuePerPoint)
	if info.VolumeMin > 0 && lot < info.VolumeMin {
		lot = info.VolumeMin
	}
	if info.VolumeStep > 0 {
		lot = math.Round(lot/info.VolumeStep) * info.VolumeStep
	}
	c.LotSize = lot

	c.RewardAmount = lot * profitDistance * valuePerPoint
	if c.RiskAmount > 0 {
		c.RiskRewardRatio = c.RewardAmount / c.RiskAmount
	}
	return c
}

// CalculateFromSignal sizes a position for an already-generated signal using
// the price levels the strategy produced.
func CalculateFromSignal(sig domain.TradingSignal, equity float64, info domain.SymbolInfo, riskPercent float64) Calculation {
	return CalculatePosition(sig.Symbol, sig.Type, sig.EntryPrice, sig.StopLoss, sig.TakeProfit, equity, info, riskPercent)
}
