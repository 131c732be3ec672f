// Package signal dispatches bar series to registered strategies and wraps
// their verdicts into normalized trading signals. All strategy failure modes
// (unknown identifier, insufficient data, panics) are converted into
// NO_TRADE signals here; nothing propagates past this boundary.
package signal

import (
	"context"
	"fmt"
	"time"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"
	"forexSignalBot/internal/strategy"
)

// Config holds parameters for the signal engine.
type Config struct {
	MinScanBars int // symbols with fewer closes are skipped during scans
}

// Engine selects strategies by identifier and produces trading signals.
type Engine struct {
	cfg        Config
	strategies map[domain.StrategyID]ports.Strategy
	logger     ports.Logger
	now        func() time.Time
}

// New creates an engine with the given strategies registered.
func New(cfg Config, logger ports.Logger, strategies ...ports.Strategy) (*Engine, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for signal engine")
	}
	if cfg.MinScanBars == 0 {
		cfg.MinScanBars = 50
	}
	if cfg.MinScanBars < 0 {
		return nil, fmt.Errorf("minimum scan bars must be positive")
	}
	e := &Engine{
		cfg:        cfg,
		strategies: make(map[domain.StrategyID]ports.Strategy),
		logger:     logger,
		now:        time.Now,
	}
	for _, s := range strategies {
		e.Register(s)
	}
	return e, nil
}

// NewWithDefaults creates an engine with all nine built-in strategies under
// their default parameters.
func NewWithDefaults(cfg Config, logger ports.Logger) (*Engine, error) {
	all, err := DefaultStrategies()
	if err != nil {
		return nil, err
	}
	return New(cfg, logger, all...)
}

// DefaultStrategies builds the nine built-in strategies under their default
// parameters.
func DefaultStrategies() ([]ports.Strategy, error) {
	maCross, err := strategy.NewMACrossover(strategy.MACrossoverConfig{})
	if err != nil {
		return nil, err
	}
	donchian, err := strategy.NewDonchianBreakout(strategy.DonchianBreakoutConfig{})
	if err != nil {
		return nil, err
	}
	bollinger, err := strategy.NewBollingerBands(strategy.BollingerBandsConfig{})
	if err != nil {
		return nil, err
	}
	rsiSwing, err := strategy.NewRSISwing(strategy.RSISwingConfig{})
	if err != nil {
		return nil, err
	}
	macd, err := strategy.NewMACDCross(strategy.MACDConfig{})
	if err != nil {
		return nil, err
	}
	atrTrailing, err := strategy.NewATRTrailing(strategy.ATRTrailingConfig{})
	if err != nil {
		return nil, err
	}
	supertrend, err := strategy.NewSupertrendFlip(strategy.SupertrendConfig{})
	if err != nil {
		return nil, err
	}
	ultimate, err := strategy.NewUltimateAccuracy(strategy.UltimateAccuracyConfig{})
	if err != nil {
		return nil, err
	}
	multiFactor, err := strategy.NewAIMultiFactor(strategy.AIMultiFactorConfig{})
	if err != nil {
		return nil, err
	}
	return []ports.Strategy{
		maCross, donchian, bollinger, rsiSwing, macd,
		atrTrailing, supertrend, ultimate, multiFactor,
	}, nil
}

// Register adds or replaces a strategy in the dispatch table.
func (e *Engine) Register(s ports.Strategy) {
	e.strategies[s.ID()] = s
}

// Generate evaluates one strategy against one symbol's bars and wraps the
// outcome. Strategy panics are recovered and reported as NO_TRADE signals.
func (e *Engine) Generate(ctx context.Context, symbol string, id domain.StrategyID, bars []domain.Bar, point float64) (sig domain.TradingSignal) {
	ts := e.now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error(ctx, fmt.Errorf("%v", r), "strategy evaluation panicked",
				map[string]interface{}{"symbol": symbol, "strategy": string(id)})
			sig = domain.NewTradingSignal(symbol, id,
				domain.NoTrade(fmt.Sprintf("computation failure: %v", r)), point, ts)
		}
	}()

	strat, ok := e.strategies[id]
	if !ok {
		e.logger.Warn(ctx, "unknown strategy requested",
			map[string]interface{}{"symbol": symbol, "strategy": string(id)})
		return domain.NewTradingSignal(symbol, id,
			domain.NoTrade(fmt.Sprintf("unknown strategy: %s", id)), point, ts)
	}

	verdict := strat.Evaluate(bars)
	sig = domain.NewTradingSignal(symbol, id, verdict, point, ts)

	e.logger.Debug(ctx, "signal generated", map[string]interface{}{
		"symbol":   symbol,
		"strategy": string(id),
		"signal":   string(sig.Type),
		"reason":   sig.Reason,
	})
	return sig
}

// ScanInput is one symbol's data for a multi-symbol scan.
type ScanInput struct {
	Symbol string
	Bars   []domain.Bar
	Point  float64
}

// ScanSymbols runs one strategy across several symbols, preserving input
// order. Symbols with too few bars are skipped; only actionable (non
// NO_TRADE) signals are returned.
func (e *Engine) ScanSymbols(ctx context.Context, id domain.StrategyID, inputs []ScanInput) []domain.TradingSignal {
	var out []domain.TradingSignal
	for _, in := range inputs {
		if len(in.Bars) < e.cfg.MinScanBars {
			e.logger.Debug(ctx, "skipping symbol with insufficient history", map[string]interface{}{
				"symbol": in.Symbol,
				"bars":   len(in.Bars),
				"needed": e.cfg.MinScanBars,
			})
			continue
		}
		sig := e.Generate(ctx, in.Symbol, id, in.Bars, in.Point)
		if sig.Type == domain.SignalNoTrade {
			continue
		}
		out = append(out, sig)
	}
	return out
}
