package strategy

import (
	"fmt"
	"math"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
	"forexSignalBot/internal/patterns"
)

// Factor weights of the short-term and long-term probability scores. These
// are policy constants; changing them changes what the system trades.
const (
	weightTrend       = 25.0
	weightRSIZone     = 20.0
	weightVolume      = 15.0
	weightBollinger   = 15.0
	weightConsecutive = 15.0
	weightMACDBias    = 10.0
)

// Composite blend weights, in percent.
const (
	blendShortTerm = 0.30
	blendLongTerm  = 0.30
	blendAIPattern = 0.20
	blendFibonacci = 0.10
	blendHurst     = 0.05
	blendIchimoku  = 0.05
)

// Recommendation thresholds.
const (
	ultimateMinBars     = 100
	strongBuyThreshold  = 90.0
	strongSellThreshold = 10.0
	defaultMinAccuracy  = 75.0
)

// UltimateAccuracyConfig holds configuration for the composite scorer.
type UltimateAccuracyConfig struct {
	MinAccuracy   float64 // minimum score to act on, default 75
	ATRPeriod     int     // stop sizing
	ATRMultiplier float64
}

// UltimateAccuracy blends a short-term six-factor probability, a long-term
// six-factor probability, an AI pattern score, Fibonacci proximity, the
// Hurst exponent and Ichimoku cloud position into one 0-100 score, then
// translates it into a gated recommendation.
type UltimateAccuracy struct {
	cfg UltimateAccuracyConfig
}

// NewUltimateAccuracy creates the scorer, filling zero fields with defaults.
func NewUltimateAccuracy(cfg UltimateAccuracyConfig) (*UltimateAccuracy, error) {
	if cfg.MinAccuracy == 0 {
		cfg.MinAccuracy = defaultMinAccuracy
	}
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.ATRMultiplier == 0 {
		cfg.ATRMultiplier = 2.0
	}
	if cfg.MinAccuracy < 50 || cfg.MinAccuracy > 100 {
		return nil, fmt.Errorf("minimum accuracy must be within [50, 100], got %.1f", cfg.MinAccuracy)
	}
	return &UltimateAccuracy{cfg: cfg}, nil
}

func (s *UltimateAccuracy) ID() domain.StrategyID { return domain.StrategyUltimateAccuracy }

func (s *UltimateAccuracy) MinBars() int { return ultimateMinBars }

func (s *UltimateAccuracy) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < ultimateMinBars {
		// Neutral, explained result rather than a failure.
		return domain.Verdict{
			Signal: domain.SignalNoTrade,
			Reason: fmt.Sprintf("insufficient history for composite scoring: %d bars, need %d", len(bars), ultimateMinBars),
			Accuracy: &domain.AccuracyReport{
				Score:          50.0,
				Confidence:     domain.ConfidenceVeryLow,
				Recommendation: "wait",
			},
		}
	}

	high, low, close := series(bars)
	volume := domain.Volumes(bars)

	st := shortTermScore(bars, close, volume)
	lt := longTermScore(bars, close, volume)
	ai := aiPatternScore(bars, close)
	fib := fibonacciScore(high, low, close)
	hurst := 100 * indicators.HurstExponent(close, 20)
	ichi := ichimokuScore(high, low, close)

	score := blendShortTerm*st + blendLongTerm*lt + blendAIPattern*ai +
		blendFibonacci*fib + blendHurst*hurst + blendIchimoku*ichi

	report := &domain.AccuracyReport{
		Score:      score,
		Confidence: confidenceTier(score),
	}

	strong := false
	var signal domain.SignalType
	switch {
	case score >= strongBuyThreshold:
		report.Recommendation = "strong_buy"
		signal = domain.SignalBuy
		strong = true
	case score >= s.cfg.MinAccuracy:
		report.Recommendation = "buy"
		signal = domain.SignalBuy
	case score <= strongSellThreshold:
		report.Recommendation = "strong_sell"
		signal = domain.SignalSell
		strong = true
	case score <= 100-s.cfg.MinAccuracy:
		report.Recommendation = "sell"
		signal = domain.SignalSell
	default:
		report.Recommendation = "wait"
		return domain.Verdict{
			Signal:   domain.SignalNoTrade,
			Reason:   fmt.Sprintf("composite score %.1f below the %.0f%% accuracy threshold", score, s.cfg.MinAccuracy),
			Accuracy: report,
		}
	}

	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)
	n := len(close)
	currClose := close[n-1]
	stop := s.cfg.ATRMultiplier * atr[n-1]
	rr := 2.0
	if strong {
		rr = 3.0
	}

	v := domain.Verdict{
		Signal:     signal,
		EntryPrice: currClose,
		Reason:     fmt.Sprintf("%s: composite score %.1f", report.Recommendation, score),
		Accuracy:   report,
	}
	if signal == domain.SignalBuy {
		v.StopLoss = currClose - stop
		v.TakeProfit = currClose + stop*rr
	} else {
		v.StopLoss = currClose + stop
		v.TakeProfit = currClose - stop*rr
	}
	return v
}

func confidenceTier(score float64) domain.Confidence {
	switch {
	case score >= 90:
		return domain.ConfidenceVeryHigh
	case score >= 75:
		return domain.ConfidenceHigh
	case score >= 60:
		return domain.ConfidenceMedium
	case score >= 45:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceVeryLow
	}
}

// shortTermScore sums the six weighted short-window factors into a 0-100
// probability that the next move is up.
func shortTermScore(bars []domain.Bar, close, volume []float64) float64 {
	return factorScore(bars, close, volume, factorWindows{
		trendMA:    20,
		rsiPeriod:  14,
		volMA:      20,
		bbPeriod:   20,
		candleRun:  3,
		macdFast:   12,
		macdSlow:   26,
		macdSignal: 9,
	})
}

// longTermScore applies the same factor structure over longer windows.
func longTermScore(bars []domain.Bar, close, volume []float64) float64 {
	return factorScore(bars, close, volume, factorWindows{
		trendMA:    50,
		rsiPeriod:  28,
		volMA:      50,
		bbPeriod:   50,
		candleRun:  5,
		macdFast:   24,
		macdSlow:   52,
		macdSignal: 18,
	})
}

type factorWindows struct {
	trendMA    int
	rsiPeriod  int
	volMA      int
	bbPeriod   int
	candleRun  int
	macdFast   int
	macdSlow   int
	macdSignal int
}

func factorScore(bars []domain.Bar, close, volume []float64, w factorWindows) float64 {
	n := len(close)
	var score float64

	// Trend versus the moving average.
	sma := indicators.SMA(close, w.trendMA)
	if !math.IsNaN(sma[n-1]) && close[n-1] > sma[n-1] {
		score += weightTrend
	}

	// RSI zone. Momentum in the bullish half scores highest; exhaustion
	// zones score for the bounce, not the extreme.
	rsi := indicators.RSI(close, w.rsiPeriod)
	switch r := rsi[n-1]; {
	case r > 70:
		score += weightRSIZone * 0.25
	case r > 50:
		score += weightRSIZone
	case r >= 45:
		score += weightRSIZone * 0.5
	case r >= 30:
		score += weightRSIZone * 0.25
	default:
		score += weightRSIZone * 0.6
	}

	// Volume confirmation. Without a volume feed this factor is neutral.
	if volume == nil || len(volume) != n {
		score += weightVolume / 2
	} else {
		volMA := indicators.SMA(volume, w.volMA)
		lastUp := close[n-1] > close[n-2]
		switch {
		case math.IsNaN(volMA[n-1]):
			score += weightVolume / 2
		case volume[n-1] > volMA[n-1] && lastUp:
			score += weightVolume
		case volume[n-1] <= volMA[n-1]:
			score += weightVolume / 2
		}
	}

	// Position inside the Bollinger channel.
	upper, _, lower := indicators.BollingerBands(close, w.bbPeriod, 2.0)
	if !math.IsNaN(upper[n-1]) && upper[n-1] > lower[n-1] {
		pos := (close[n-1] - lower[n-1]) / (upper[n-1] - lower[n-1])
		switch {
		case pos >= 0.8:
			score += weightBollinger * 0.25
		case pos >= 0.5:
			score += weightBollinger
		case pos >= 0.2:
			score += weightBollinger * 0.5
		default:
			score += weightBollinger * 0.75
		}
	} else {
		score += weightBollinger / 2
	}

	// Consecutive bullish candles up to the factor's run length.
	run := 0
	for i := n - 1; i >= 0 && run < w.candleRun; i-- {
		if bars[i].Close <= bars[i].Open {
			break
		}
		run++
	}
	score += weightConsecutive * float64(run) / float64(w.candleRun)

	// MACD bias.
	macdLine, signalLine, _ := indicators.MACD(close, w.macdFast, w.macdSlow, w.macdSignal)
	if macdLine[n-1] > signalLine[n-1] {
		score += weightMACDBias
	}

	return score
}

// aiPatternScore starts neutral at 50 and shifts on candlestick pattern hits
// and RSI divergence, clamped to [0, 100].
func aiPatternScore(bars []domain.Bar, close []float64) float64 {
	n := len(bars)
	score := 50.0

	last := bars[n-1]
	prev := bars[n-2]
	if patterns.IsBullishEngulfing(prev, last) {
		score += 15
	}
	if patterns.IsBearishEngulfing(prev, last) {
		score -= 15
	}
	if patterns.IsHammer(last) {
		score += 10
	}
	if patterns.IsShootingStar(last) {
		score -= 10
	}
	if n >= 3 {
		if patterns.IsMorningStar(bars[n-3], bars[n-2], last) {
			score += 20
		}
		if patterns.IsEveningStar(bars[n-3], bars[n-2], last) {
			score -= 20
		}
	}

	rsi := indicators.RSI(close, 14)
	switch patterns.DetectDivergence(close, rsi, 14) {
	case patterns.DivergenceBullish:
		score += 10
	case patterns.DivergenceBearish:
		score -= 10
	}

	return math.Min(100, math.Max(0, score))
}

// fibonacciScore rewards proximity of the close to a retracement level of
// the trailing 100-bar swing.
func fibonacciScore(high, low, close []float64) float64 {
	fib := indicators.FibonacciRetracement(high, low, 100)
	swing := fib.High - fib.Low
	if swing <= 0 {
		return 50
	}
	curr := close[len(close)-1]
	nearest := math.Inf(1)
	for _, lvl := range fib.Levels() {
		if d := math.Abs(curr - lvl); d < nearest {
			nearest = d
		}
	}
	// Full score at a level, fading to zero at 20% of the swing away.
	return math.Min(100, math.Max(0, 100*(1-nearest/(0.2*swing))))
}

// ichimokuScore scores the close against the cloud: above both leading
// spans is bullish, below both bearish, inside neutral; the
// conversion/base-line relation nudges the score.
func ichimokuScore(high, low, close []float64) float64 {
	cloud := indicators.Ichimoku(high, low, close, 9, 26, 52)
	n := len(close)
	top := math.Max(cloud.SenkouA[n-1], cloud.SenkouB[n-1])
	bottom := math.Min(cloud.SenkouA[n-1], cloud.SenkouB[n-1])

	score := 50.0
	switch {
	case math.IsNaN(top) || math.IsNaN(bottom):
		return score
	case close[n-1] > top:
		score = 80
	case close[n-1] < bottom:
		score = 20
	}
	if !math.IsNaN(cloud.Tenkan[n-1]) && !math.IsNaN(cloud.Kijun[n-1]) {
		if cloud.Tenkan[n-1] > cloud.Kijun[n-1] {
			score += 10
		} else if cloud.Tenkan[n-1] < cloud.Kijun[n-1] {
			score -= 10
		}
	}
	return math.Min(100, math.Max(0, score))
}
