package risk

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"
)

// Config holds the trading limits enforced by the Manager. Zero values are
// replaced with conservative defaults by New.
type Config struct {
	RiskPercentPerTrade      float64 // percent of equity risked per trade
	MaxPositionsPerSymbol    int
	MaxTradesPerDay          int
	MaxTradesPerSymbolPerDay int
	MaxSlippagePoints        float64
	MaxSpreadPoints          float64
	DailyLossLimitPercent    float64 // percent of equity
	WeeklyLossLimitPercent   float64 // percent of equity
	TradingStartHour         int     // inclusive, UTC
	TradingEndHour           int     // inclusive, UTC
	Logger                   ports.Logger
	Notifier                 ports.Notifier   // optional, kill switch events
	Now                      func() time.Time // injectable clock, defaults to time.Now
}

// Manager gates approved signals behind a fixed sequence of limit checks and
// tracks daily and weekly trade statistics. A breached loss limit arms the
// kill switch, which blocks all further approvals until an operator clears it.
// All methods are safe for concurrent use.
type Manager struct {
	cfg      Config
	logger   ports.Logger
	notifier ports.Notifier
	now      func() time.Time

	mu               sync.Mutex
	killSwitchActive bool
	killSwitchReason string
	daily            map[string]*domain.TradeStats
	weekly           map[string]*domain.TradeStats
}

// New creates a risk manager, filling unset limits with the defaults used by
// the original deployment.
func New(cfg Config) (*Manager, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.RiskPercentPerTrade <= 0 {
		cfg.RiskPercentPerTrade = 1.0
	}
	if cfg.MaxPositionsPerSymbol <= 0 {
		cfg.MaxPositionsPerSymbol = 1
	}
	if cfg.MaxTradesPerDay <= 0 {
		cfg.MaxTradesPerDay = 3
	}
	if cfg.MaxTradesPerSymbolPerDay <= 0 {
		cfg.MaxTradesPerSymbolPerDay = 1
	}
	if cfg.MaxSlippagePoints <= 0 {
		cfg.MaxSlippagePoints = 5
	}
	if cfg.MaxSpreadPoints <= 0 {
		cfg.MaxSpreadPoints = 10
	}
	if cfg.DailyLossLimitPercent <= 0 {
		cfg.DailyLossLimitPercent = 3.0
	}
	if cfg.WeeklyLossLimitPercent <= 0 {
		cfg.WeeklyLossLimitPercent = 5.0
	}
	if cfg.TradingEndHour <= 0 {
		cfg.TradingEndHour = 23
	}
	if cfg.TradingStartHour < 0 || cfg.TradingStartHour > 23 ||
		cfg.TradingEndHour > 23 || cfg.TradingStartHour > cfg.TradingEndHour {
		return nil, fmt.Errorf("invalid trading hours %d-%d", cfg.TradingStartHour, cfg.TradingEndHour)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		cfg:      cfg,
		logger:   cfg.Logger,
		notifier: cfg.Notifier,
		now:      cfg.Now,
		daily:    make(map[string]*domain.TradeStats),
		weekly:   make(map[string]*domain.TradeStats),
	}, nil
}

// CheckSignal runs the limit checks in a fixed order and stops at the first
// failure. On approval the returned lot size is the volume to trade; on
// rejection it is zero and the reason explains which check failed.
func (m *Manager) CheckSignal(ctx context.Context, sig domain.TradingSignal, equity float64, openPositions map[string]int, info domain.SymbolInfo) (bool, string, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 1. Kill switch blocks everything until manually cleared.
	if m.killSwitchActive {
		return m.reject(ctx, sig, fmt.Sprintf("kill switch active: %s", m.killSwitchReason))
	}

	// 2. Flat signals need no action.
	if sig.Type == domain.SignalNoTrade {
		return m.reject(ctx, sig, "signal is NO_TRADE")
	}

	// 3. Per-symbol open position cap.
	if openPositions[sig.Symbol] >= m.cfg.MaxPositionsPerSymbol {
		return m.reject(ctx, sig, fmt.Sprintf("max open positions for %s reached (%d/%d)",
			sig.Symbol, openPositions[sig.Symbol], m.cfg.MaxPositionsPerSymbol))
	}

	now := m.now().UTC()
	day := m.daily[dayKey(now)]

	// 4. Daily trade cap across all symbols.
	if day != nil && day.Trades >= m.cfg.MaxTradesPerDay {
		return m.reject(ctx, sig, fmt.Sprintf("daily trade limit reached (%d/%d)",
			day.Trades, m.cfg.MaxTradesPerDay))
	}

	// 5. Daily trade cap for this symbol.
	if day != nil && day.BySymbol[sig.Symbol] >= m.cfg.MaxTradesPerSymbolPerDay {
		return m.reject(ctx, sig, fmt.Sprintf("daily trade limit for %s reached (%d/%d)",
			sig.Symbol, day.BySymbol[sig.Symbol], m.cfg.MaxTradesPerSymbolPerDay))
	}

	// 6. Spread guard.
	if spread := info.Spread(); spread > m.cfg.MaxSpreadPoints {
		return m.reject(ctx, sig, fmt.Sprintf("spread too wide: %.1f > %.1f points",
			spread, m.cfg.MaxSpreadPoints))
	}

	// 7. Daily loss limit. Breaching it arms the kill switch.
	dailyLimit := equity * m.cfg.DailyLossLimitPercent / 100
	if day != nil && day.GrossLoss >= dailyLimit {
		reason := fmt.Sprintf("daily loss limit breached: %.2f >= %.2f", day.GrossLoss, dailyLimit)
		m.armKillSwitch(ctx, reason)
		return m.reject(ctx, sig, reason)
	}

	// 8. Weekly loss limit, same consequence.
	weeklyLimit := equity * m.cfg.WeeklyLossLimitPercent / 100
	if week := m.weekly[weekKey(now)]; week != nil && week.GrossLoss >= weeklyLimit {
		reason := fmt.Sprintf("weekly loss limit breached: %.2f >= %.2f", week.GrossLoss, weeklyLimit)
		m.armKillSwitch(ctx, reason)
		return m.reject(ctx, sig, reason)
	}

	// 9. Trading session window, inclusive on both ends.
	if h := now.Hour(); h < m.cfg.TradingStartHour || h > m.cfg.TradingEndHour {
		return m.reject(ctx, sig, fmt.Sprintf("outside trading hours %02d:00-%02d:59 UTC",
			m.cfg.TradingStartHour, m.cfg.TradingEndHour))
	}

	// 10. Position sizing.
	lot := m.positionSize(equity, sig.RiskPoints, info)
	if lot <= 0 {
		return m.reject(ctx, sig, "computed lot size is zero")
	}

	m.logger.Info(ctx, "signal approved", map[string]interface{}{
		"symbol":   sig.Symbol,
		"strategy": string(sig.StrategyID),
		"type":     string(sig.Type),
		"lot":      lot,
	})
	return true, "all risk checks passed", lot
}

// positionSize derives the lot from the configured risk percentage, the stop
// distance in points and the per-point tick value, clamped to the broker's
// minimum volume and then rounded to the nearest volume step (half away from
// zero).
func (m *Manager) positionSize(equity, stopDistancePoints float64, info domain.SymbolInfo) float64 {
	if equity <= 0 || stopDistancePoints <= 0 || info.TickValue <= 0 {
		return 0
	}
	riskMoney := equity * m.cfg.RiskPercentPerTrade / 100
	lot := riskMoney / (stopDistancePoints * info.TickValue)
	if info.VolumeMin > 0 && lot < info.VolumeMin {
		lot = info.VolumeMin
	}
	if info.VolumeStep > 0 {
		lot = math.Round(lot/info.VolumeStep) * info.VolumeStep
	}
	if info.VolumeMax > 0 && lot > info.VolumeMax {
		lot = info.VolumeMax
	}
	return lot
}

// RecordTrade folds one closed trade into the current day's and ISO week's
// statistics. Both periods are updated under the same lock acquisition, so a
// concurrent CheckSignal sees either neither update or both.
func (m *Manager) RecordTrade(ctx context.Context, symbol string, pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	dk, wk := dayKey(now), weekKey(now)

	day := m.daily[dk]
	if day == nil {
		day = domain.NewTradeStats()
		m.daily[dk] = day
	}
	day.Record(symbol, pnl)

	week := m.weekly[wk]
	if week == nil {
		week = domain.NewTradeStats()
		m.weekly[wk] = week
	}
	week.Record(symbol, pnl)

	m.prune(now)

	m.logger.Debug(ctx, "trade recorded", map[string]interface{}{
		"symbol":       symbol,
		"pnl":          pnl,
		"daily_trades": day.Trades,
		"daily_net":    day.NetProfit(),
	})
}

// prune drops statistics older than the previous day and previous week so the
// period maps stay bounded across long sessions.
func (m *Manager) prune(now time.Time) {
	keepDays := map[string]bool{
		dayKey(now):                     true,
		dayKey(now.AddDate(0, 0, -1)):   true,
	}
	for k := range m.daily {
		if !keepDays[k] {
			delete(m.daily, k)
		}
	}
	keepWeeks := map[string]bool{
		weekKey(now):                   true,
		weekKey(now.AddDate(0, 0, -7)): true,
	}
	for k := range m.weekly {
		if !keepWeeks[k] {
			delete(m.weekly, k)
		}
	}
}

// RiskPercent returns the configured percent of equity risked per trade.
func (m *Manager) RiskPercent() float64 {
	return m.cfg.RiskPercentPerTrade
}

// KillSwitch reports whether the switch is armed and why.
func (m *Manager) KillSwitch() (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.killSwitchActive, m.killSwitchReason
}

// DeactivateKillSwitch clears the kill switch. This is the only way to clear
// it; nothing in the manager resets it automatically.
func (m *Manager) DeactivateKillSwitch(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.killSwitchActive {
		return
	}
	m.killSwitchActive = false
	m.killSwitchReason = ""
	m.logger.Warn(ctx, "kill switch deactivated by operator")
	m.notify(ctx, ports.NotifyWarning, "kill switch deactivated by operator")
}

// armKillSwitch must be called with the lock held.
func (m *Manager) armKillSwitch(ctx context.Context, reason string) {
	if m.killSwitchActive {
		return
	}
	m.killSwitchActive = true
	m.killSwitchReason = reason
	m.logger.Error(ctx, ports.ErrKillSwitchActive, "kill switch armed", map[string]interface{}{
		"reason": reason,
	})
	m.notify(ctx, ports.NotifyError, "KILL SWITCH ACTIVATED: "+reason)
}

// reject must be called with the lock held.
func (m *Manager) reject(ctx context.Context, sig domain.TradingSignal, reason string) (bool, string, float64) {
	m.logger.Info(ctx, "signal rejected", map[string]interface{}{
		"symbol":   sig.Symbol,
		"strategy": string(sig.StrategyID),
		"reason":   reason,
	})
	return false, reason, 0
}

func (m *Manager) notify(ctx context.Context, level ports.NotifyLevel, msg string) {
	if m.notifier != nil {
		m.notifier.Notify(ctx, level, msg)
	}
}

// CheckMaxSlippage compares the executed price against the expected one and
// reports whether the slippage in points is within the configured maximum.
// Informational only; it never mutates state.
func (m *Manager) CheckMaxSlippage(expected, executed, point float64) (bool, float64) {
	if point <= 0 {
		return false, 0
	}
	slippage := math.Abs(expected-executed) / point
	return slippage <= m.cfg.MaxSlippagePoints, slippage
}

// Report is a point-in-time snapshot of one accounting period.
type Report struct {
	Period      string
	Trades      int
	Wins        int
	Losses      int
	WinRate     float64
	GrossProfit float64
	GrossLoss   float64
	NetProfit   float64
	BySymbol    map[string]int
}

// DailyReport snapshots the statistics for the given "YYYY-MM-DD" day, or for
// the current day when the argument is empty. A day with no trades yields an
// all-zero report.
func (m *Manager) DailyReport(date string) Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	if date == "" {
		date = dayKey(m.now().UTC())
	}
	return snapshot(date, m.daily[date])
}

// WeeklyReport snapshots the statistics for the given "YYYY-Www" ISO week, or
// for the current week when the argument is empty.
func (m *Manager) WeeklyReport(week string) Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	if week == "" {
		week = weekKey(m.now().UTC())
	}
	return snapshot(week, m.weekly[week])
}

func snapshot(period string, s *domain.TradeStats) Report {
	r := Report{Period: period, BySymbol: make(map[string]int)}
	if s == nil {
		return r
	}
	r.Trades = s.Trades
	r.Wins = s.Wins
	r.Losses = s.Losses
	r.WinRate = s.WinRate()
	r.GrossProfit = s.GrossProfit
	r.GrossLoss = s.GrossLoss
	r.NetProfit = s.NetProfit()
	for k, v := range s.BySymbol {
		r.BySymbol[k] = v
	}
	return r
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func weekKey(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}
