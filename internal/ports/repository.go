package ports

import (
	"context"
	"time"

	"forexSignalBot/internal/domain"
)

// SignalJournal defines the interface for persisting generated signals.
type SignalJournal interface {
	// SaveSignal records a generated signal and returns its assigned ID.
	SaveSignal(ctx context.Context, sig domain.TradingSignal) (int64, error)
	// FindSignalsBySymbol retrieves the most recent signals for a symbol, up to a limit.
	FindSignalsBySymbol(ctx context.Context, symbol string, limit int) ([]domain.TradingSignal, error)
	// CountSignalsSince counts the signals recorded at or after the given time.
	CountSignalsSince(ctx context.Context, since time.Time) (int, error)
}

// TicketJournal defines the interface for persisting trade tickets through
// their lifecycle.
type TicketJournal interface {
	// SaveTicket records a new ticket.
	SaveTicket(ctx context.Context, t domain.TradeTicket) error
	// UpdateTicket modifies an existing ticket (status, fill details).
	UpdateTicket(ctx context.Context, t domain.TradeTicket) error
	// FindTicket retrieves a ticket by its identifier.
	// Returns nil, nil if not found.
	FindTicket(ctx context.Context, id string) (*domain.TradeTicket, error)
	// FindTicketsBetween retrieves tickets created in [from, to), newest first.
	FindTicketsBetween(ctx context.Context, from, to time.Time) ([]domain.TradeTicket, error)
}
