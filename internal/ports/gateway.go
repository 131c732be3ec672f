package ports

import (
	"context"
	"time"

	"forexSignalBot/internal/domain"
)

// OrderRequest describes a market order derived from an approved trade ticket.
type OrderRequest struct {
	Symbol     string
	Side       domain.SignalType // SignalBuy or SignalSell
	Volume     float64           // lots
	StopLoss   float64
	TakeProfit float64
}

// OrderResult holds the essential fill details returned by the gateway.
type OrderResult struct {
	OrderID     int64
	Symbol      string
	FilledPrice float64
	FilledQty   float64
	Status      string
	Timestamp   time.Time
}

// MarketGateway defines the interface for interacting with a market data and
// order routing venue. The abstraction decouples signal generation and risk
// control from any specific broker implementation.
type MarketGateway interface {
	// Ping verifies connectivity to the venue.
	Ping(ctx context.Context) error

	// GetBars retrieves up to count historical bars for a symbol and
	// timeframe, ordered oldest first.
	GetBars(ctx context.Context, symbol, timeframe string, count int) ([]domain.Bar, error)

	// GetSymbolInfo retrieves contract terms and the current quote for a symbol.
	GetSymbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, error)

	// GetEquity retrieves the current account equity in the account currency.
	GetEquity(ctx context.Context) (float64, error)

	// GetOpenPositionCounts retrieves the number of open positions per symbol.
	GetOpenPositionCounts(ctx context.Context) (map[string]int, error)

	// PlaceMarketOrder submits a market order and returns the fill details.
	PlaceMarketOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// PositionGateway exposes management operations over live positions. It is
// separate from MarketGateway because only the position monitor needs it.
type PositionGateway interface {
	// GetOpenPositions retrieves all currently open positions with their
	// attached stop and target levels.
	GetOpenPositions(ctx context.Context) ([]domain.OpenPosition, error)

	// ModifyPositionStops replaces the stop loss and take profit levels
	// protecting a position. A zero level removes that order.
	ModifyPositionStops(ctx context.Context, pos domain.OpenPosition, stopLoss, takeProfit float64) error

	// ClosePositionPartial reduces a position by the given volume at market.
	ClosePositionPartial(ctx context.Context, pos domain.OpenPosition, volume float64) (*OrderResult, error)
}
