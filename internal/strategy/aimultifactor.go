package strategy

import (
	"fmt"
	"math"
	"strings"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/indicators"
	"forexSignalBot/internal/patterns"
	"forexSignalBot/internal/probability"
)

// AIMultiFactor point budget. Bullish and bearish totals each top out at 110.
const (
	aiPatternPoints     = 10.0 // per pattern hit, up to three patterns
	aiRegimePoints      = 15.0
	aiMomentumPoints    = 15.0
	aiProbabilityPoints = 20.0
	aiTrendPoints       = 15.0
	aiADXPoints         = 15.0
	aiFireThreshold     = 35.0
)

// AIMultiFactorConfig holds configuration for the multi-factor scorer.
type AIMultiFactorConfig struct {
	ATRPeriod     int
	ATRMultiplier float64
	RiskReward    float64
}

// AIMultiFactor accumulates independent bullish and bearish point totals
// from pattern hits, regime, momentum quality, a Bayesian probability bonus,
// trend persistence and ADX strength. A verdict fires only when the winning
// side reaches the threshold and strictly beats the other.
type AIMultiFactor struct {
	cfg AIMultiFactorConfig
}

// NewAIMultiFactor creates the scorer, filling zero fields with defaults.
func NewAIMultiFactor(cfg AIMultiFactorConfig) (*AIMultiFactor, error) {
	if cfg.ATRPeriod == 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.ATRMultiplier == 0 {
		cfg.ATRMultiplier = 2.0
	}
	if cfg.RiskReward == 0 {
		cfg.RiskReward = 2.0
	}
	if cfg.ATRPeriod < 0 {
		return nil, fmt.Errorf("strategy periods must be positive")
	}
	return &AIMultiFactor{cfg: cfg}, nil
}

func (s *AIMultiFactor) ID() domain.StrategyID { return domain.StrategyAIMultiFactor }

func (s *AIMultiFactor) MinBars() int { return ultimateMinBars }

func (s *AIMultiFactor) Evaluate(bars []domain.Bar) domain.Verdict {
	if len(bars) < s.MinBars() {
		return domain.NoTrade(insufficientDataReason)
	}

	high, low, close := series(bars)
	volume := domain.Volumes(bars)
	n := len(close)

	var bull, bear float64
	parts := make([]string, 0, 6)

	// Candlestick pattern hits, ten points apiece.
	var bullHits, bearHits int
	last, prev := bars[n-1], bars[n-2]
	if patterns.IsBullishEngulfing(prev, last) {
		bullHits++
	}
	if patterns.IsHammer(last) {
		bullHits++
	}
	if patterns.IsMorningStar(bars[n-3], bars[n-2], last) {
		bullHits++
	}
	if patterns.IsBearishEngulfing(prev, last) {
		bearHits++
	}
	if patterns.IsShootingStar(last) {
		bearHits++
	}
	if patterns.IsEveningStar(bars[n-3], bars[n-2], last) {
		bearHits++
	}
	bull += aiPatternPoints * float64(bullHits)
	bear += aiPatternPoints * float64(bearHits)
	parts = append(parts, fmt.Sprintf("patterns=%d/%d", bullHits, bearHits))

	// Market regime.
	ema50 := indicators.EMA(close, 50)
	switch patterns.MarketRegime(close) {
	case patterns.RegimeTrending:
		if close[n-1] > ema50[n-1] {
			bull += aiRegimePoints
		} else {
			bear += aiRegimePoints
		}
		parts = append(parts, "regime=trending")
	case patterns.RegimeCrisis:
		bear += aiRegimePoints
		parts = append(parts, "regime=crisis")
	case patterns.RegimeVolatile:
		bull += aiRegimePoints / 3
		bear += aiRegimePoints / 3
		parts = append(parts, "regime=volatile")
	default:
		parts = append(parts, "regime=ranging")
	}

	// Momentum quality.
	mqi := patterns.MomentumQualityIndex(high, low, close, volume)
	switch {
	case mqi >= 0.7:
		bull += aiMomentumPoints
	case mqi >= 0.6:
		bull += aiMomentumPoints * 2 / 3
	case mqi <= 0.3:
		bear += aiMomentumPoints
	case mqi <= 0.4:
		bear += aiMomentumPoints * 2 / 3
	}
	parts = append(parts, fmt.Sprintf("momentum=%.2f", mqi))

	// Probability bonus: the short-term factor score acts as the prior and
	// the observed up-continuation rate as the likelihood.
	st := shortTermScore(bars, close, volume)
	prior := st / 100
	upGivenUp, _ := probability.Continuation(close)
	evidence := prior*upGivenUp + (1-prior)*(1-upGivenUp)
	posterior := probability.BayesianUpdate(prior, upGivenUp, evidence)
	bull += aiProbabilityPoints * posterior
	bear += aiProbabilityPoints * (1 - posterior)
	parts = append(parts, fmt.Sprintf("probability=%.2f", posterior))

	// Trend persistence: Hurst exponent plus cloud position.
	hurst := indicators.HurstExponent(close, 20)
	cloud := indicators.Ichimoku(high, low, close, 9, 26, 52)
	top := math.Max(cloud.SenkouA[n-1], cloud.SenkouB[n-1])
	bottom := math.Min(cloud.SenkouA[n-1], cloud.SenkouB[n-1])
	aboveCloud := !math.IsNaN(top) && close[n-1] > top
	belowCloud := !math.IsNaN(bottom) && close[n-1] < bottom
	switch {
	case hurst > 0.55 && aboveCloud:
		bull += aiTrendPoints
	case hurst > 0.55 && belowCloud:
		bear += aiTrendPoints
	case aboveCloud:
		bull += aiTrendPoints / 2
	case belowCloud:
		bear += aiTrendPoints / 2
	}
	parts = append(parts, fmt.Sprintf("hurst=%.2f", hurst))

	// ADX strength, credited to the dominant directional side.
	adx, plusDI, minusDI := indicators.ADX(high, low, close, 14)
	var adxPts float64
	switch {
	case adx[n-1] > 25:
		adxPts = aiADXPoints
	case adx[n-1] > 20:
		adxPts = aiADXPoints / 2
	}
	if adxPts > 0 {
		if plusDI[n-1] > minusDI[n-1] {
			bull += adxPts
		} else if minusDI[n-1] > plusDI[n-1] {
			bear += adxPts
		}
	}
	parts = append(parts, fmt.Sprintf("adx=%.1f", adx[n-1]))

	report := &domain.AccuracyReport{BullScore: bull, BearScore: bear}

	var signal domain.SignalType
	switch {
	case bull >= aiFireThreshold && bull > bear:
		signal = domain.SignalBuy
	case bear >= aiFireThreshold && bear > bull:
		signal = domain.SignalSell
	default:
		return domain.Verdict{
			Signal: domain.SignalNoTrade,
			Reason: fmt.Sprintf("no side dominant: bull=%.1f bear=%.1f (%s)",
				bull, bear, strings.Join(parts, ", ")),
			Accuracy: report,
		}
	}

	atr := indicators.ATR(high, low, close, s.cfg.ATRPeriod)
	currClose := close[n-1]
	stop := s.cfg.ATRMultiplier * atr[n-1]

	v := domain.Verdict{
		Signal:     signal,
		EntryPrice: currClose,
		Reason:     fmt.Sprintf("multi-factor %s: bull=%.1f bear=%.1f", strings.ToLower(string(signal)), bull, bear),
		Accuracy:   report,
	}
	if signal == domain.SignalBuy {
		v.StopLoss = currClose - stop
		v.TakeProfit = currClose + stop*s.cfg.RiskReward
	} else {
		v.StopLoss = currClose + stop
		v.TakeProfit = currClose - stop*s.cfg.RiskReward
	}
	return v
}
