// Package execution turns approved signals into orders. Depending on the
// configured mode a signal is only journaled (dry run), parked on a ticket
// until an operator confirms it, or sent to the market immediately.
package execution

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"
	"forexSignalBot/internal/risk"
)

// Mode selects how approved signals are acted on.
type Mode string

const (
	ModeDryRun        Mode = "dry_run"
	ModeManualConfirm Mode = "manual_confirm"
	ModeAuto          Mode = "auto"
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDryRun, ModeManualConfirm, ModeAuto:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown execution mode %q", s)
}

// Config holds the dependencies of the Orchestrator. Gateway, Risk and Logger
// are required; the ticket journal and notifier are optional.
type Config struct {
	Mode     Mode
	Gateway  ports.MarketGateway
	Risk     *risk.Manager
	Logger   ports.Logger
	Notifier ports.Notifier
	Tickets  ports.TicketJournal
	Now      func() time.Time
}

// Result reports the outcome of processing one signal. Success is false both
// for risk rejections and for failed order placements; Message says which.
type Result struct {
	Success  bool
	Message  string
	Mode     Mode
	TicketID string
	LotSize  float64
	Order    *ports.OrderResult
}

// Orchestrator routes approved signals through the configured execution mode
// and tracks manual-confirmation tickets. Safe for concurrent use.
type Orchestrator struct {
	cfg      Config
	gateway  ports.MarketGateway
	riskMgr  *risk.Manager
	logger   ports.Logger
	notifier ports.Notifier
	tickets  ports.TicketJournal
	now      func() time.Time

	mu      sync.Mutex
	counter int
	pending map[string]domain.TradeTicket
	history []domain.TradeTicket
}

// New creates an orchestrator. Defaults the mode to dry run so that a missing
// configuration value can never place live orders.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("market gateway is required")
	}
	if cfg.Risk == nil {
		return nil, fmt.Errorf("risk manager is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeDryRun
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{
		cfg:      cfg,
		gateway:  cfg.Gateway,
		riskMgr:  cfg.Risk,
		logger:   cfg.Logger,
		notifier: cfg.Notifier,
		tickets:  cfg.Tickets,
		now:      cfg.Now,
		pending:  make(map[string]domain.TradeTicket),
	}, nil
}

// ProcessSignal runs the risk gate over a generated signal and dispatches on
// the configured mode. A risk rejection yields a failed Result without an
// error; errors are reserved for gateway and journal failures.
func (o *Orchestrator) ProcessSignal(ctx context.Context, sig domain.TradingSignal) (Result, error) {
	equity, err := o.gateway.GetEquity(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get account equity: %w", err)
	}
	info, err := o.gateway.GetSymbolInfo(ctx, sig.Symbol)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get symbol info for %s: %w", sig.Symbol, err)
	}
	positions, err := o.gateway.GetOpenPositionCounts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get open positions: %w", err)
	}

	approved, reason, lot := o.riskMgr.CheckSignal(ctx, sig, equity, positions, info)
	if !approved {
		// A flat signal is the normal case and not worth a warning.
		if sig.Type != domain.SignalNoTrade {
			o.notify(ctx, ports.NotifyWarning, fmt.Sprintf("signal rejected: %s", reason))
		}
		return Result{Mode: o.cfg.Mode, Message: reason}, nil
	}

	calc := risk.CalculateFromSignal(sig, equity, info, o.riskMgr.RiskPercent())

	switch o.cfg.Mode {
	case ModeDryRun:
		return o.dryRun(ctx, sig, lot, calc)
	case ModeManualConfirm:
		return o.createTicket(ctx, sig, lot, calc)
	default:
		return o.auto(ctx, sig, lot, info)
	}
}

func (o *Orchestrator) dryRun(ctx context.Context, sig domain.TradingSignal, lot float64, calc risk.Calculation) (Result, error) {
	ticket := o.newTicket(sig, lot)
	ticket.Status = domain.TicketSimulated
	ticket.Reason = "dry run, order not sent"
	o.appendHistory(ticket)
	o.journalSave(ctx, ticket)

	o.notify(ctx, ports.NotifyInfo, fmt.Sprintf("[DRY RUN] %s %s %.2f lot entry %.5f sl %.5f tp %.5f%s",
		sig.Symbol, sig.Type, lot, sig.EntryPrice, sig.StopLoss, sig.TakeProfit, riskDetail(calc)))
	o.logger.Info(ctx, "dry run signal recorded", map[string]interface{}{
		"ticket": ticket.ID,
		"symbol": sig.Symbol,
		"lot":    lot,
	})
	return Result{Success: true, Message: "signal recorded, dry run", Mode: ModeDryRun, TicketID: ticket.ID, LotSize: lot}, nil
}

func (o *Orchestrator) createTicket(ctx context.Context, sig domain.TradingSignal, lot float64, calc risk.Calculation) (Result, error) {
	ticket := o.newTicket(sig, lot)

	o.mu.Lock()
	o.pending[ticket.ID] = ticket
	o.mu.Unlock()
	o.journalSave(ctx, ticket)

	o.notify(ctx, ports.NotifyInfo, fmt.Sprintf("ticket %s created: %s %s %.2f lot%s, awaiting confirmation",
		ticket.ID, sig.Symbol, sig.Type, lot, riskDetail(calc)))
	return Result{Success: true, Message: "ticket created, awaiting confirmation", Mode: ModeManualConfirm, TicketID: ticket.ID, LotSize: lot}, nil
}

// riskDetail renders the position calculation for notification text, empty
// when the calculation is degenerate.
func riskDetail(calc risk.Calculation) string {
	if !calc.Valid() {
		return ""
	}
	return fmt.Sprintf(" (risk %.2f, reward %.2f, rr %s)",
		calc.RiskAmount, calc.RewardAmount, calc.RiskRewardText())
}

func (o *Orchestrator) auto(ctx context.Context, sig domain.TradingSignal, lot float64, info domain.SymbolInfo) (Result, error) {
	ticket := o.newTicket(sig, lot)
	res, err := o.placeOrder(ctx, &ticket, info)
	o.appendHistory(ticket)
	o.journalSave(ctx, ticket)
	if err != nil {
		return Result{Message: ticket.Reason, Mode: ModeAuto, TicketID: ticket.ID, LotSize: lot}, err
	}
	return Result{Success: true, Message: "order executed", Mode: ModeAuto, TicketID: ticket.ID, LotSize: lot, Order: res}, nil
}

// placeOrder sends the market order for a ticket and fills in the execution
// details, including the post-fill slippage measurement.
func (o *Orchestrator) placeOrder(ctx context.Context, ticket *domain.TradeTicket, info domain.SymbolInfo) (*ports.OrderResult, error) {
	res, err := o.gateway.PlaceMarketOrder(ctx, ports.OrderRequest{
		Symbol:     ticket.Symbol,
		Side:       ticket.Type,
		Volume:     ticket.Volume,
		StopLoss:   ticket.StopLoss,
		TakeProfit: ticket.TakeProfit,
	})
	if err != nil {
		ticket.Status = domain.TicketRejected
		ticket.Reason = err.Error()
		o.notify(ctx, ports.NotifyError, fmt.Sprintf("order for %s failed: %v", ticket.Symbol, err))
		o.logger.Error(ctx, err, "order placement failed", map[string]interface{}{
			"ticket": ticket.ID,
			"symbol": ticket.Symbol,
		})
		return nil, fmt.Errorf("%w: %s", ports.ErrOrderPlacementFailed, err)
	}

	ticket.Status = domain.TicketExecuted
	ticket.ExecutedAt = res.Timestamp
	ticket.ExecutedPrice = res.FilledPrice

	acceptable, slippage := o.riskMgr.CheckMaxSlippage(ticket.EntryPrice, res.FilledPrice, info.Point)
	ticket.SlippagePoints = slippage
	if !acceptable {
		o.notify(ctx, ports.NotifyWarning, fmt.Sprintf("high slippage on %s: %.1f points", ticket.Symbol, slippage))
	}

	// The realized result is folded in when the position closes; the trade
	// still counts toward the daily and weekly limits now.
	o.riskMgr.RecordTrade(ctx, ticket.Symbol, 0)

	o.notify(ctx, ports.NotifySuccess, fmt.Sprintf("order executed: %s %s %.2f lot at %.5f",
		ticket.Symbol, ticket.Type, ticket.Volume, res.FilledPrice))
	o.logger.Info(ctx, "order executed", map[string]interface{}{
		"ticket":   ticket.ID,
		"symbol":   ticket.Symbol,
		"price":    res.FilledPrice,
		"slippage": slippage,
	})
	return res, nil
}

// ApproveTicket executes a pending ticket from manual-confirmation mode.
func (o *Orchestrator) ApproveTicket(ctx context.Context, id string) (Result, error) {
	o.mu.Lock()
	ticket, ok := o.pending[id]
	if ok {
		delete(o.pending, id)
	}
	o.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: ticket %s", ports.ErrNotFound, id)
	}

	info, err := o.gateway.GetSymbolInfo(ctx, ticket.Symbol)
	if err != nil {
		// Put the ticket back so the operator can retry.
		o.mu.Lock()
		o.pending[id] = ticket
		o.mu.Unlock()
		return Result{}, fmt.Errorf("failed to get symbol info for %s: %w", ticket.Symbol, err)
	}

	res, err := o.placeOrder(ctx, &ticket, info)
	o.appendHistory(ticket)
	o.journalUpdate(ctx, ticket)
	if err != nil {
		return Result{Message: ticket.Reason, Mode: ModeManualConfirm, TicketID: id}, err
	}
	return Result{Success: true, Message: "ticket executed", Mode: ModeManualConfirm, TicketID: id, LotSize: ticket.Volume, Order: res}, nil
}

// RejectTicket cancels a pending ticket without executing it.
func (o *Orchestrator) RejectTicket(ctx context.Context, id, reason string) error {
	o.mu.Lock()
	ticket, ok := o.pending[id]
	if ok {
		delete(o.pending, id)
	}
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: ticket %s", ports.ErrNotFound, id)
	}

	ticket.Status = domain.TicketCancelled
	if reason == "" {
		reason = "rejected by operator"
	}
	ticket.Reason = reason
	o.appendHistory(ticket)
	o.journalUpdate(ctx, ticket)
	o.notify(ctx, ports.NotifyInfo, fmt.Sprintf("ticket %s rejected: %s", id, reason))
	return nil
}

// PendingTickets lists tickets awaiting confirmation, oldest first.
func (o *Orchestrator) PendingTickets() []domain.TradeTicket {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.TradeTicket, 0, len(o.pending))
	for _, t := range o.pending {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// History returns the most recent processed tickets, up to limit. A limit of
// zero or less returns everything.
func (o *Orchestrator) History(limit int) []domain.TradeTicket {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := len(o.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.TradeTicket, n)
	copy(out, o.history[len(o.history)-n:])
	return out
}

func (o *Orchestrator) newTicket(sig domain.TradingSignal, lot float64) domain.TradeTicket {
	o.mu.Lock()
	o.counter++
	id := fmt.Sprintf("T%s_%04d", o.now().UTC().Format("20060102"), o.counter)
	o.mu.Unlock()
	return domain.TradeTicket{
		ID:         id,
		Symbol:     sig.Symbol,
		Type:       sig.Type,
		Volume:     lot,
		EntryPrice: sig.EntryPrice,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
		StrategyID: sig.StrategyID,
		Status:     domain.TicketPending,
		CreatedAt:  o.now().UTC(),
	}
}

func (o *Orchestrator) appendHistory(t domain.TradeTicket) {
	o.mu.Lock()
	o.history = append(o.history, t)
	o.mu.Unlock()
}

// journalSave and journalUpdate tolerate a missing or failing journal; losing
// the audit trail must not stop trading decisions.
func (o *Orchestrator) journalSave(ctx context.Context, t domain.TradeTicket) {
	if o.tickets == nil {
		return
	}
	if err := o.tickets.SaveTicket(ctx, t); err != nil {
		o.logger.Error(ctx, err, "failed to journal ticket", map[string]interface{}{"ticket": t.ID})
	}
}

func (o *Orchestrator) journalUpdate(ctx context.Context, t domain.TradeTicket) {
	if o.tickets == nil {
		return
	}
	if err := o.tickets.UpdateTicket(ctx, t); err != nil {
		o.logger.Error(ctx, err, "failed to update journaled ticket", map[string]interface{}{"ticket": t.ID})
	}
}

func (o *Orchestrator) notify(ctx context.Context, level ports.NotifyLevel, msg string) {
	if o.notifier != nil {
		o.notifier.Notify(ctx, level, msg)
		return
	}
	o.logger.Info(ctx, msg, map[string]interface{}{"notify_level": string(level)})
}
