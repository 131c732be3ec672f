package ports

import (
	"forexSignalBot/internal/domain"
)

// Strategy defines the interface for trading strategies.
// Evaluate inspects a bar series (oldest first) and returns a verdict for the
// most recent bar. Implementations must return a NO_TRADE verdict, not an
// error, when the series is shorter than MinBars.
type Strategy interface {
	// ID returns the stable identifier the strategy is registered under.
	ID() domain.StrategyID

	// MinBars returns the minimum number of bars needed for the strategy calculations.
	MinBars() int

	// Evaluate runs the strategy over the series and returns its verdict.
	Evaluate(bars []domain.Bar) domain.Verdict
}
