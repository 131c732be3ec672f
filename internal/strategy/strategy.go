// Package strategy implements the nine built-in trading strategies: seven
// single-rule crossover/breakout/reversion evaluators plus the two
// multi-factor composite scorers. Every strategy is a pure evaluator over a
// bar series; insufficient history is an explicit NO_TRADE branch, never an
// error.
package strategy

import (
	"forexSignalBot/internal/domain"
)

const insufficientDataReason = "insufficient data"

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func series(bars []domain.Bar) (high, low, close []float64) {
	return domain.Highs(bars), domain.Lows(bars), domain.Closes(bars)
}
