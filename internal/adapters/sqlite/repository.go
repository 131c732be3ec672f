package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Journal implements the ports.SignalJournal and ports.TicketJournal
// interfaces using SQLite. Every generated signal and every ticket outcome is
// persisted so a session leaves a reviewable trail.
type Journal struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite journal.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewJournal creates a new SQLite journal instance.
func NewJournal(cfg Config) (*Journal, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite journal")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/signal_bot.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally, the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	j := &Journal{db: db, logger: cfg.Logger}
	if err := j.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}
	return j, nil
}

// initializeSchema creates tables if they don't exist.
func (j *Journal) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		strategy TEXT NOT NULL,
		signal_type TEXT NOT NULL,
		entry_price REAL NOT NULL,
		stop_loss REAL NOT NULL,
		take_profit REAL NOT NULL,
		reason TEXT NOT NULL,
		risk_points REAL NOT NULL,
		reward_points REAL NOT NULL,
		risk_reward REAL NOT NULL,
		accuracy_score REAL DEFAULT NULL,
		confidence TEXT DEFAULT NULL,
		recommendation TEXT DEFAULT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		signal_type TEXT NOT NULL,
		volume REAL NOT NULL,
		entry_price REAL NOT NULL,
		stop_loss REAL NOT NULL,
		take_profit REAL NOT NULL,
		strategy TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		executed_at TIMESTAMP DEFAULT NULL,
		executed_price REAL DEFAULT NULL,
		slippage_points REAL DEFAULT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_signals_symbol_created_at ON signals (symbol, created_at);
	CREATE INDEX IF NOT EXISTS idx_tickets_created_at ON tickets (created_at);
	`
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		j.logger.Info(context.Background(), "Closing SQLite database connection")
		return j.db.Close()
	}
	return nil
}

// --- SignalJournal implementation ---

// SaveSignal records a generated signal and returns its assigned ID.
func (j *Journal) SaveSignal(ctx context.Context, sig domain.TradingSignal) (int64, error) {
	const query = `
	INSERT INTO signals (symbol, strategy, signal_type, entry_price, stop_loss, take_profit,
	                     reason, risk_points, reward_points, risk_reward,
	                     accuracy_score, confidence, recommendation, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var score sql.NullFloat64
	var confidence, recommendation sql.NullString
	if sig.Accuracy != nil {
		score = sql.NullFloat64{Float64: sig.Accuracy.Score, Valid: true}
		confidence = sql.NullString{String: string(sig.Accuracy.Confidence), Valid: true}
		recommendation = sql.NullString{String: sig.Accuracy.Recommendation, Valid: true}
	}

	result, err := j.db.ExecContext(ctx, query,
		sig.Symbol, string(sig.StrategyID), string(sig.Type), sig.EntryPrice, sig.StopLoss, sig.TakeProfit,
		sig.Reason, sig.RiskPoints, sig.RewardPoints, sig.RiskReward,
		score, confidence, recommendation, sig.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to insert signal for symbol %s: %w", sig.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for signal %s: %w", sig.Symbol, err)
	}
	j.logger.Debug(ctx, "Signal journaled", map[string]interface{}{"signalID": id, "symbol": sig.Symbol, "strategy": string(sig.StrategyID)})
	return id, nil
}

// FindSignalsBySymbol retrieves the most recent signals for a symbol, up to a limit.
func (j *Journal) FindSignalsBySymbol(ctx context.Context, symbol string, limit int) ([]domain.TradingSignal, error) {
	const query = `
	SELECT symbol, strategy, signal_type, entry_price, stop_loss, take_profit,
	       reason, risk_points, reward_points, risk_reward,
	       accuracy_score, confidence, recommendation, created_at
	FROM signals
	WHERE symbol = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := j.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals for symbol %s: %w", symbol, err)
	}
	defer rows.Close()

	signals := make([]domain.TradingSignal, 0)
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal during FindSignalsBySymbol: %w", err)
		}
		signals = append(signals, sig)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signal rows: %w", err)
	}
	return signals, nil
}

// CountSignalsSince counts the signals recorded at or after the given time.
func (j *Journal) CountSignalsSince(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM signals WHERE created_at >= ?`
	var count int
	if err := j.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count signals since %s: %w", since, err)
	}
	return count, nil
}

// --- TicketJournal implementation ---

// SaveTicket records a new ticket.
func (j *Journal) SaveTicket(ctx context.Context, t domain.TradeTicket) error {
	const query = `
	INSERT INTO tickets (id, symbol, signal_type, volume, entry_price, stop_loss, take_profit,
	                     strategy, status, reason, created_at, executed_at, executed_price, slippage_points)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := j.db.ExecContext(ctx, query,
		t.ID, t.Symbol, string(t.Type), t.Volume, t.EntryPrice, t.StopLoss, t.TakeProfit,
		string(t.StrategyID), string(t.Status), t.Reason, t.CreatedAt,
		nullTime(t.ExecutedAt), nullFloat(t.ExecutedPrice), nullFloat(t.SlippagePoints))
	if err != nil {
		return fmt.Errorf("failed to insert ticket %s: %w", t.ID, err)
	}
	j.logger.Debug(ctx, "Ticket journaled", map[string]interface{}{"ticketID": t.ID, "symbol": t.Symbol, "status": string(t.Status)})
	return nil
}

// UpdateTicket modifies an existing ticket (status, fill details).
func (j *Journal) UpdateTicket(ctx context.Context, t domain.TradeTicket) error {
	const query = `
	UPDATE tickets
	SET status = ?, reason = ?, executed_at = ?, executed_price = ?, slippage_points = ?
	WHERE id = ?`

	result, err := j.db.ExecContext(ctx, query,
		string(t.Status), t.Reason, nullTime(t.ExecutedAt), nullFloat(t.ExecutedPrice), nullFloat(t.SlippagePoints),
		t.ID)
	if err != nil {
		return fmt.Errorf("failed to update ticket %s: %w", t.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for ticket %s: %w", t.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ticket %s not found for update: %w", t.ID, ports.ErrNotFound)
	}
	j.logger.Debug(ctx, "Ticket updated", map[string]interface{}{"ticketID": t.ID, "status": string(t.Status)})
	return nil
}

// FindTicket retrieves a ticket by its identifier. Returns nil, nil if not found.
func (j *Journal) FindTicket(ctx context.Context, id string) (*domain.TradeTicket, error) {
	const query = `
	SELECT id, symbol, signal_type, volume, entry_price, stop_loss, take_profit,
	       strategy, status, reason, created_at, executed_at,
	       COALESCE(executed_price, 0), COALESCE(slippage_points, 0)
	FROM tickets
	WHERE id = ?`

	row := j.db.QueryRowContext(ctx, query, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			j.logger.Debug(ctx, "Ticket not found", map[string]interface{}{"ticketID": id})
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query ticket %s: %w", id, err)
	}
	return t, nil
}

// FindTicketsBetween retrieves tickets created in [from, to), newest first.
func (j *Journal) FindTicketsBetween(ctx context.Context, from, to time.Time) ([]domain.TradeTicket, error) {
	const query = `
	SELECT id, symbol, signal_type, volume, entry_price, stop_loss, take_profit,
	       strategy, status, reason, created_at, executed_at,
	       COALESCE(executed_price, 0), COALESCE(slippage_points, 0)
	FROM tickets
	WHERE created_at >= ? AND created_at < ?
	ORDER BY created_at DESC`

	rows, err := j.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets between %s and %s: %w", from, to, err)
	}
	defer rows.Close()

	tickets := make([]domain.TradeTicket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket during FindTicketsBetween: %w", err)
		}
		tickets = append(tickets, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket rows: %w", err)
	}
	return tickets, nil
}

// --- Helper scan functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanSignal scans a row into a domain.TradingSignal.
func scanSignal(s scanner) (domain.TradingSignal, error) {
	var sig domain.TradingSignal
	var strategy, signalType string
	var score sql.NullFloat64
	var confidence, recommendation sql.NullString
	err := s.Scan(
		&sig.Symbol, &strategy, &signalType, &sig.EntryPrice, &sig.StopLoss, &sig.TakeProfit,
		&sig.Reason, &sig.RiskPoints, &sig.RewardPoints, &sig.RiskReward,
		&score, &confidence, &recommendation, &sig.Timestamp)
	if err != nil {
		return domain.TradingSignal{}, err
	}
	sig.StrategyID = domain.StrategyID(strategy)
	sig.Type = domain.SignalType(signalType)
	if score.Valid {
		sig.Accuracy = &domain.AccuracyReport{
			Score:          score.Float64,
			Confidence:     domain.Confidence(confidence.String),
			Recommendation: recommendation.String,
		}
	}
	return sig, nil
}

// scanTicket scans a row into a domain.TradeTicket.
func scanTicket(s scanner) (*domain.TradeTicket, error) {
	t := &domain.TradeTicket{}
	var signalType, strategy, status string
	var executedAt sql.NullTime
	err := s.Scan(
		&t.ID, &t.Symbol, &signalType, &t.Volume, &t.EntryPrice, &t.StopLoss, &t.TakeProfit,
		&strategy, &status, &t.Reason, &t.CreatedAt, &executedAt,
		&t.ExecutedPrice, &t.SlippagePoints)
	if err != nil {
		return nil, err
	}
	t.Type = domain.SignalType(signalType)
	t.StrategyID = domain.StrategyID(strategy)
	t.Status = domain.TicketStatus(status)
	if executedAt.Valid {
		t.ExecutedAt = executedAt.Time
	}
	return t, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
