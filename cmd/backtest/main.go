// backtest replays a CSV bar series (see cmd/fetch_bars) through one of the
// built-in strategies and prints the simulated trade statistics.
package main

import (
	"flag"
	"fmt"
	"log"

	"forexSignalBot/internal/backtest"
	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"
	"forexSignalBot/internal/signal"
	"forexSignalBot/internal/utils"
)

func main() {
	file := flag.String("file", "bars.csv", "CSV bar series to replay")
	stratID := flag.String("strategy", "ultimate_accuracy", "strategy identifier")
	point := flag.Float64("point", 0.01, "price value of one point")
	showTrades := flag.Bool("trades", false, "print each simulated trade")
	flag.Parse()

	bars, err := utils.ReadBarsFromCSV(*file)
	if err != nil {
		log.Fatalf("FATAL: Failed to load bars: %v", err)
	}

	strat, err := findStrategy(domain.StrategyID(*stratID))
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	result, err := backtest.Run(backtest.Config{Point: *point}, strat, bars)
	if err != nil {
		log.Fatalf("FATAL: Backtest failed: %v", err)
	}

	printResult(result, len(bars))
	if *showTrades {
		printTrades(result)
	}
}

func findStrategy(id domain.StrategyID) (ports.Strategy, error) {
	all, err := signal.DefaultStrategies()
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.ID() == id {
			return s, nil
		}
	}
	ids := make([]domain.StrategyID, len(all))
	for i, s := range all {
		ids[i] = s.ID()
	}
	return nil, fmt.Errorf("unknown strategy %q, available: %v", id, ids)
}

func printResult(r *backtest.Result, barCount int) {
	fmt.Printf("Strategy:        %s\n", r.StrategyID)
	fmt.Printf("Bars replayed:   %d\n", barCount)
	fmt.Printf("Trades:          %d (%d wins / %d losses)\n", r.TotalTrades, r.WinningTrades, r.LosingTrades)
	fmt.Printf("Win rate:        %.1f%%\n", r.WinRate*100)
	fmt.Printf("Net points:      %+.1f\n", r.NetPoints)
	fmt.Printf("Gross profit:    %.1f points\n", r.GrossProfitPoints)
	fmt.Printf("Gross loss:      %.1f points\n", r.GrossLossPoints)
	fmt.Printf("Profit factor:   %.2f\n", r.ProfitFactor)
	fmt.Printf("Max drawdown:    %.1f points\n", r.MaxDrawdownPoints)
}

func printTrades(r *backtest.Result) {
	fmt.Println()
	for i, t := range r.Trades {
		fmt.Printf("#%d %s %s entry %.5f exit %.5f (%s) %+.1f pts  %s\n",
			i+1, t.EntryTime.Format("2006-01-02 15:04"), t.Type,
			t.EntryPrice, t.ExitPrice, t.Outcome, t.PnLPoints, t.Reason)
	}
}
