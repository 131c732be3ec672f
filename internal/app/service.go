// Package app hosts the scan service, the long-running loop that pulls bars
// from the market gateway, evaluates the configured strategy over every
// watched symbol and hands actionable signals to the execution orchestrator.
package app

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/execution"
	"forexSignalBot/internal/ports"
	"forexSignalBot/internal/signal"
)

// Config holds the dependencies and parameters for the scan service.
type Config struct {
	Symbols           []string
	Timeframe         string
	BarCount          int
	ScanInterval      time.Duration
	Strategy          domain.StrategyID
	MinSignalAccuracy float64 // scored signals below this are discarded; unscored signals pass

	Gateway      ports.MarketGateway
	Engine       *signal.Engine
	Orchestrator *execution.Orchestrator
	Positions    *execution.PositionManager // optional, nil disables position management
	Journal      ports.SignalJournal        // optional, nil disables signal persistence
	Logger       ports.Logger
}

// Service runs the periodic symbol scan.
type Service struct {
	cfg    Config
	logger ports.Logger
}

// New creates a scan service, validating required dependencies.
func New(cfg Config) (*Service, error) {
	if cfg.Gateway == nil || cfg.Engine == nil || cfg.Orchestrator == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("missing required dependencies for scan service")
	}
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("at least one symbol is required")
	}
	if cfg.Timeframe == "" {
		return nil, fmt.Errorf("timeframe is required")
	}
	if cfg.Strategy == "" {
		return nil, fmt.Errorf("strategy identifier is required")
	}
	if cfg.BarCount <= 0 {
		cfg.BarCount = 200
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = 5 * time.Minute
	}
	if cfg.MinSignalAccuracy < 0 || cfg.MinSignalAccuracy > 100 {
		return nil, fmt.Errorf("minimum signal accuracy must be between 0 and 100")
	}
	return &Service{cfg: cfg, logger: cfg.Logger}, nil
}

// Start runs the scan loop until the context is cancelled or a shutdown
// signal arrives. The first scan runs immediately.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting scan service", map[string]interface{}{
		"symbols":  s.cfg.Symbols,
		"strategy": string(s.cfg.Strategy),
		"interval": s.cfg.ScanInterval.String(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer ossignal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := s.cfg.Gateway.Ping(ctx); err != nil {
		s.logger.Error(ctx, err, "Gateway connectivity check failed")
		return fmt.Errorf("gateway ping failed: %w", err)
	}
	s.logger.Info(ctx, "Gateway connection verified")

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	s.ScanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Scan service stopped")
			return nil
		case <-ticker.C:
			s.ScanOnce(ctx)
		}
	}
}

// ScanOnce performs a single pass over all configured symbols. Per-symbol
// failures are logged and skipped so one unavailable symbol cannot stall the
// rest of the scan.
func (s *Service) ScanOnce(ctx context.Context) {
	started := time.Now()

	// Manage live positions before looking for new entries so stops tighten
	// even when no fresh signal appears.
	if s.cfg.Positions != nil {
		if _, err := s.cfg.Positions.MonitorAll(ctx); err != nil {
			s.logger.Error(ctx, err, "Position management pass failed")
		}
	}

	var inputs []signal.ScanInput
	for _, symbol := range s.cfg.Symbols {
		info, err := s.cfg.Gateway.GetSymbolInfo(ctx, symbol)
		if err != nil {
			s.logger.Error(ctx, err, "Failed to fetch symbol info, skipping symbol",
				map[string]interface{}{"symbol": symbol})
			continue
		}
		bars, err := s.cfg.Gateway.GetBars(ctx, symbol, s.cfg.Timeframe, s.cfg.BarCount)
		if err != nil {
			s.logger.Error(ctx, err, "Failed to fetch bars, skipping symbol",
				map[string]interface{}{"symbol": symbol, "timeframe": s.cfg.Timeframe})
			continue
		}
		inputs = append(inputs, signal.ScanInput{Symbol: symbol, Bars: bars, Point: info.Point})
	}

	signals := s.cfg.Engine.ScanSymbols(ctx, s.cfg.Strategy, inputs)
	for _, sig := range signals {
		s.handleSignal(ctx, sig)
	}

	s.logger.Info(ctx, "Scan pass complete", map[string]interface{}{
		"symbolsScanned": len(inputs),
		"signals":        len(signals),
		"elapsed":        time.Since(started).String(),
	})
}

func (s *Service) handleSignal(ctx context.Context, sig domain.TradingSignal) {
	if sig.Accuracy != nil && sig.Accuracy.Score < s.cfg.MinSignalAccuracy {
		s.logger.Info(ctx, "Discarding signal below accuracy floor", map[string]interface{}{
			"symbol":   sig.Symbol,
			"strategy": string(sig.StrategyID),
			"score":    sig.Accuracy.Score,
			"floor":    s.cfg.MinSignalAccuracy,
		})
		return
	}

	if s.cfg.Journal != nil {
		if _, err := s.cfg.Journal.SaveSignal(ctx, sig); err != nil {
			s.logger.Error(ctx, err, "Failed to journal signal",
				map[string]interface{}{"symbol": sig.Symbol, "strategy": string(sig.StrategyID)})
		}
	}

	res, err := s.cfg.Orchestrator.ProcessSignal(ctx, sig)
	if err != nil {
		s.logger.Error(ctx, err, "Signal execution failed",
			map[string]interface{}{"symbol": sig.Symbol, "ticketID": res.TicketID})
		return
	}
	if !res.Success {
		s.logger.Info(ctx, "Signal not executed", map[string]interface{}{
			"symbol": sig.Symbol,
			"reason": res.Message,
		})
		return
	}
	s.logger.Info(ctx, "Signal processed", map[string]interface{}{
		"symbol":   sig.Symbol,
		"ticketID": res.TicketID,
		"mode":     string(res.Mode),
		"lots":     res.LotSize,
	})
}
