package domain

import "time"

// SignalType is the direction a strategy recommends.
type SignalType string

const (
	SignalBuy     SignalType = "BUY"
	SignalSell    SignalType = "SELL"
	SignalNoTrade SignalType = "NO_TRADE"
)

// Confidence buckets a composite accuracy score into a coarse grade.
type Confidence string

const (
	ConfidenceVeryHigh Confidence = "very_high"
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
	ConfidenceVeryLow  Confidence = "very_low"
)

// AccuracyReport carries the scoring breakdown produced by the composite
// strategies. Simple strategies leave it nil.
type AccuracyReport struct {
	Score          float64    // 0..100 composite accuracy estimate
	Confidence     Confidence // bucketed grade of Score
	Recommendation string     // strong_buy, buy, sell, strong_sell or wait
	BullScore      float64    // multi-factor bullish total
	BearScore      float64    // multi-factor bearish total
}

// Verdict is the raw outcome of evaluating one strategy on one series.
// Price levels are zero when Signal is SignalNoTrade.
type Verdict struct {
	Signal     SignalType
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Reason     string
	Accuracy   *AccuracyReport
}

// NoTrade builds a flat verdict carrying only an explanation.
func NoTrade(reason string) Verdict {
	return Verdict{Signal: SignalNoTrade, Reason: reason}
}

// TradingSignal is a strategy verdict bound to a symbol and enriched with
// point-denominated risk metrics, ready for risk evaluation and execution.
type TradingSignal struct {
	Symbol       string
	StrategyID   StrategyID
	Type         SignalType
	EntryPrice   float64
	StopLoss     float64
	TakeProfit   float64
	Reason       string
	Timestamp    time.Time
	RiskPoints   float64
	RewardPoints float64
	RiskReward   float64
	Accuracy     *AccuracyReport
}

// NewTradingSignal binds a verdict to a symbol, deriving risk and reward in
// points from the price levels. A zero point size or a flat verdict yields
// zero metrics.
func NewTradingSignal(symbol string, id StrategyID, v Verdict, point float64, ts time.Time) TradingSignal {
	s := TradingSignal{
		Symbol:     symbol,
		StrategyID: id,
		Type:       v.Signal,
		EntryPrice: v.EntryPrice,
		StopLoss:   v.StopLoss,
		TakeProfit: v.TakeProfit,
		Reason:     v.Reason,
		Timestamp:  ts,
		Accuracy:   v.Accuracy,
	}
	if v.Signal == SignalNoTrade || point <= 0 {
		return s
	}
	s.RiskPoints = abs(v.EntryPrice-v.StopLoss) / point
	s.RewardPoints = abs(v.TakeProfit-v.EntryPrice) / point
	if s.RiskPoints > 0 {
		s.RiskReward = s.RewardPoints / s.RiskPoints
	}
	return s
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
