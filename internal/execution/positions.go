package execution

import (
	"context"
	"fmt"
	"math"
	"sync"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"
)

// PositionConfig holds the dependencies and thresholds of the PositionManager.
// Gateway, Market and Logger are required. All point thresholds default to
// sensible values when zero, and every management feature is enabled unless
// its Disable flag is set.
type PositionConfig struct {
	Gateway  ports.PositionGateway
	Market   ports.MarketGateway
	Logger   ports.Logger
	Notifier ports.Notifier

	// TrailingStepPoints is the distance kept between price and the trailed
	// stop. Defaults to 10.
	TrailingStepPoints float64
	// BreakEvenTriggerPoints is the profit at which the stop moves to entry.
	// Defaults to 20.
	BreakEvenTriggerPoints float64
	// BreakEvenOffsetPoints is added past entry when moving to break even so
	// a touch of entry still closes slightly positive. Defaults to 5.
	BreakEvenOffsetPoints float64
	// MinImprovementPoints is the smallest stop move worth sending to the
	// gateway. Defaults to 5.
	MinImprovementPoints float64
	// PartialCloseTriggerPoints is the profit at which part of the position
	// is taken off. Defaults to 30.
	PartialCloseTriggerPoints float64
	// PartialClosePercent is the share of the volume closed at the partial
	// trigger. Defaults to 50.
	PartialClosePercent float64

	DisableTrailing     bool
	DisableBreakEven    bool
	DisablePartialClose bool
}

// MonitorReport summarizes one pass over the open positions.
type MonitorReport struct {
	Checked         int
	BreakEvenMoved  int
	PartialClosed   int
	TrailingUpdated int
}

// positionState is the per-ticket memory that keeps the one-shot actions from
// repeating across passes.
type positionState struct {
	breakEvenMoved     bool
	partialClosed      bool
	highestProfitPoint float64
}

// PositionManager walks the open positions each scan pass and applies
// break-even moves, partial profit taking and trailing stops. Safe for
// concurrent use.
type PositionManager struct {
	cfg      PositionConfig
	gateway  ports.PositionGateway
	market   ports.MarketGateway
	logger   ports.Logger
	notifier ports.Notifier

	mu    sync.Mutex
	state map[string]*positionState
}

// NewPositionManager creates a position manager with defaults applied.
func NewPositionManager(cfg PositionConfig) (*PositionManager, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("position gateway is required")
	}
	if cfg.Market == nil {
		return nil, fmt.Errorf("market gateway is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.TrailingStepPoints <= 0 {
		cfg.TrailingStepPoints = 10
	}
	if cfg.BreakEvenTriggerPoints <= 0 {
		cfg.BreakEvenTriggerPoints = 20
	}
	if cfg.BreakEvenOffsetPoints <= 0 {
		cfg.BreakEvenOffsetPoints = 5
	}
	if cfg.MinImprovementPoints <= 0 {
		cfg.MinImprovementPoints = 5
	}
	if cfg.PartialCloseTriggerPoints <= 0 {
		cfg.PartialCloseTriggerPoints = 30
	}
	if cfg.PartialClosePercent <= 0 || cfg.PartialClosePercent >= 100 {
		cfg.PartialClosePercent = 50
	}
	return &PositionManager{
		cfg:      cfg,
		gateway:  cfg.Gateway,
		market:   cfg.Market,
		logger:   cfg.Logger,
		notifier: cfg.Notifier,
		state:    make(map[string]*positionState),
	}, nil
}

// MonitorAll runs one management pass over every open position. A failure on
// one position is logged and the pass continues; only the position listing
// itself is a hard error.
func (m *PositionManager) MonitorAll(ctx context.Context) (MonitorReport, error) {
	op := "MonitorAll"
	var report MonitorReport

	positions, err := m.gateway.GetOpenPositions(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list open positions: %w", err)
	}
	m.pruneClosed(positions)

	for _, pos := range positions {
		report.Checked++
		info, err := m.market.GetSymbolInfo(ctx, pos.Symbol)
		if err != nil {
			m.logger.Error(ctx, err, "failed to get symbol info for position", map[string]interface{}{
				"ticket": pos.Ticket,
				"symbol": pos.Symbol,
			})
			continue
		}
		if info.Point <= 0 {
			continue
		}

		st := m.stateFor(pos.Ticket)
		profit := pos.ProfitPoints(info.Point)
		m.mu.Lock()
		if profit > st.highestProfitPoint {
			st.highestProfitPoint = profit
		}
		m.mu.Unlock()

		if !m.cfg.DisableBreakEven && m.checkBreakEven(ctx, pos, info, st, profit) {
			report.BreakEvenMoved++
		}
		if !m.cfg.DisablePartialClose && m.checkPartialClose(ctx, pos, info, st, profit) {
			report.PartialClosed++
		}
		if !m.cfg.DisableTrailing && m.checkTrailing(ctx, pos, info, st) {
			report.TrailingUpdated++
		}
	}

	m.logger.Debug(ctx, op+" pass complete", map[string]interface{}{
		"checked":          report.Checked,
		"break_even":       report.BreakEvenMoved,
		"partial_closed":   report.PartialClosed,
		"trailing_updated": report.TrailingUpdated,
	})
	return report, nil
}

// checkBreakEven moves the stop to entry plus a small offset once the trigger
// profit is reached. One-shot per ticket.
func (m *PositionManager) checkBreakEven(ctx context.Context, pos domain.OpenPosition, info domain.SymbolInfo, st *positionState, profit float64) bool {
	m.mu.Lock()
	done := st.breakEvenMoved
	m.mu.Unlock()
	if done || profit < m.cfg.BreakEvenTriggerPoints {
		return false
	}

	offset := m.cfg.BreakEvenOffsetPoints * info.Point
	newSL := pos.EntryPrice + offset
	if pos.Type == domain.SignalSell {
		newSL = pos.EntryPrice - offset
	}

	if err := m.gateway.ModifyPositionStops(ctx, pos, newSL, pos.TakeProfit); err != nil {
		m.logger.Error(ctx, err, "break-even move failed", map[string]interface{}{
			"ticket": pos.Ticket,
			"symbol": pos.Symbol,
		})
		return false
	}

	m.mu.Lock()
	st.breakEvenMoved = true
	m.mu.Unlock()
	m.notify(ctx, ports.NotifyInfo, fmt.Sprintf("%s %s moved to break even at %.5f (+%.1f points)",
		pos.Symbol, pos.Type, newSL, profit))
	m.logger.Info(ctx, "stop moved to break even", map[string]interface{}{
		"ticket":   pos.Ticket,
		"symbol":   pos.Symbol,
		"stopLoss": newSL,
	})
	return true
}

// checkPartialClose takes the configured share off the position once the
// trigger profit is reached. One-shot per ticket; skipped when the volume is
// too small to leave a tradable remainder.
func (m *PositionManager) checkPartialClose(ctx context.Context, pos domain.OpenPosition, info domain.SymbolInfo, st *positionState, profit float64) bool {
	m.mu.Lock()
	done := st.partialClosed
	m.mu.Unlock()
	if done || profit < m.cfg.PartialCloseTriggerPoints {
		return false
	}
	if pos.Volume < 2*info.VolumeMin {
		return false
	}

	closeVol := pos.Volume * m.cfg.PartialClosePercent / 100
	if info.VolumeStep > 0 {
		closeVol = math.Round(closeVol/info.VolumeStep) * info.VolumeStep
	}
	if closeVol < info.VolumeMin {
		closeVol = info.VolumeMin
	}

	if _, err := m.gateway.ClosePositionPartial(ctx, pos, closeVol); err != nil {
		m.logger.Error(ctx, err, "partial close failed", map[string]interface{}{
			"ticket": pos.Ticket,
			"symbol": pos.Symbol,
			"volume": closeVol,
		})
		return false
	}

	m.mu.Lock()
	st.partialClosed = true
	m.mu.Unlock()
	m.notify(ctx, ports.NotifySuccess, fmt.Sprintf("partial close on %s: %.2f of %.2f lot at +%.1f points",
		pos.Symbol, closeVol, pos.Volume, profit))
	m.logger.Info(ctx, "position partially closed", map[string]interface{}{
		"ticket": pos.Ticket,
		"symbol": pos.Symbol,
		"volume": closeVol,
	})
	return true
}

// checkTrailing trails the stop behind price. Trailing only starts after the
// break-even move so an early stop never loosens risk, and a move below the
// minimum improvement is not worth a gateway round trip.
func (m *PositionManager) checkTrailing(ctx context.Context, pos domain.OpenPosition, info domain.SymbolInfo, st *positionState) bool {
	m.mu.Lock()
	armed := st.breakEvenMoved
	m.mu.Unlock()
	if !armed {
		return false
	}

	step := m.cfg.TrailingStepPoints * info.Point
	minMove := m.cfg.MinImprovementPoints * info.Point

	var newSL float64
	if pos.Type == domain.SignalSell {
		newSL = pos.CurrentPrice + step
		if pos.StopLoss != 0 && newSL >= pos.StopLoss-minMove {
			return false
		}
	} else {
		newSL = pos.CurrentPrice - step
		if newSL <= pos.StopLoss+minMove {
			return false
		}
	}

	if err := m.gateway.ModifyPositionStops(ctx, pos, newSL, pos.TakeProfit); err != nil {
		m.logger.Error(ctx, err, "trailing stop update failed", map[string]interface{}{
			"ticket": pos.Ticket,
			"symbol": pos.Symbol,
		})
		return false
	}

	m.notify(ctx, ports.NotifyInfo, fmt.Sprintf("trailing stop on %s %s moved to %.5f",
		pos.Symbol, pos.Type, newSL))
	m.logger.Info(ctx, "trailing stop updated", map[string]interface{}{
		"ticket":   pos.Ticket,
		"symbol":   pos.Symbol,
		"stopLoss": newSL,
	})
	return true
}

func (m *PositionManager) stateFor(ticket string) *positionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.state[ticket]
	if !ok {
		st = &positionState{}
		m.state[ticket] = st
	}
	return st
}

// pruneClosed drops state for tickets no longer open so a reopened ticket
// starts fresh.
func (m *PositionManager) pruneClosed(open []domain.OpenPosition) {
	alive := make(map[string]bool, len(open))
	for _, p := range open {
		alive[p.Ticket] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.state {
		if !alive[id] {
			delete(m.state, id)
		}
	}
}

func (m *PositionManager) notify(ctx context.Context, level ports.NotifyLevel, msg string) {
	if m.notifier != nil {
		m.notifier.Notify(ctx, level, msg)
		return
	}
	m.logger.Info(ctx, msg, map[string]interface{}{"notify_level": string(level)})
}
