package domain

import "time"

// TicketStatus tracks a trade ticket through the execution pipeline.
type TicketStatus string

const (
	TicketPending   TicketStatus = "pending"
	TicketExecuted  TicketStatus = "executed"
	TicketRejected  TicketStatus = "rejected"
	TicketCancelled TicketStatus = "cancelled"
	TicketSimulated TicketStatus = "simulated"
)

// TradeTicket is one attempt to act on an approved signal. Tickets are
// journaled regardless of outcome so every decision leaves a trail.
type TradeTicket struct {
	ID             string
	Symbol         string
	Type           SignalType
	Volume         float64
	EntryPrice     float64
	StopLoss       float64
	TakeProfit     float64
	StrategyID     StrategyID
	Status         TicketStatus
	Reason         string // rejection or cancellation detail
	CreatedAt      time.Time
	ExecutedAt     time.Time
	ExecutedPrice  float64
	SlippagePoints float64
}
