package domain

// OpenPosition is a live position as reported by the market gateway.
type OpenPosition struct {
	Ticket       string // gateway identifier; netting venues report one per symbol
	Symbol       string
	Type         SignalType // SignalBuy or SignalSell
	Volume       float64    // lots
	EntryPrice   float64
	CurrentPrice float64
	StopLoss     float64 // zero when no stop order is attached
	TakeProfit   float64 // zero when no target order is attached
	Profit       float64 // unrealized, account currency
}

// ProfitPoints returns the position's unrealized gain in points; losses are
// negative. Zero when the point size is unknown.
func (p OpenPosition) ProfitPoints(point float64) float64 {
	if point <= 0 {
		return 0
	}
	if p.Type == SignalSell {
		return (p.EntryPrice - p.CurrentPrice) / point
	}
	return (p.CurrentPrice - p.EntryPrice) / point
}
