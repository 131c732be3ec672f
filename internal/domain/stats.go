package domain

// TradeStats accumulates trade outcomes over one accounting period
// (a calendar day or an ISO week).
type TradeStats struct {
	Trades      int
	Wins        int
	Losses      int
	GrossProfit float64
	GrossLoss   float64 // stored as a positive magnitude
	BySymbol    map[string]int
}

// NewTradeStats returns an empty period accumulator.
func NewTradeStats() *TradeStats {
	return &TradeStats{BySymbol: make(map[string]int)}
}

// Record folds one closed trade into the period. A break-even trade counts
// toward the totals but toward neither the win nor the loss bucket.
func (s *TradeStats) Record(symbol string, pnl float64) {
	s.Trades++
	if s.BySymbol == nil {
		s.BySymbol = make(map[string]int)
	}
	s.BySymbol[symbol]++
	switch {
	case pnl > 0:
		s.Wins++
		s.GrossProfit += pnl
	case pnl < 0:
		s.Losses++
		s.GrossLoss += -pnl
	}
}

// NetProfit is gross profit less gross loss for the period.
func (s *TradeStats) NetProfit() float64 {
	return s.GrossProfit - s.GrossLoss
}

// WinRate is the share of winning trades in percent, 0 for an empty period.
func (s *TradeStats) WinRate() float64 {
	if s.Trades == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Trades) * 100
}
