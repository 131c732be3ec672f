// fetch_bars downloads historical bars for one symbol and writes them to a
// CSV file that cmd/backtest can replay.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"forexSignalBot/config"
	"forexSignalBot/internal/adapters/binanceclient"
	"forexSignalBot/internal/adapters/logger"
	"forexSignalBot/internal/utils"
)

func main() {
	symbol := flag.String("symbol", "BTCUSDT", "symbol to fetch")
	timeframe := flag.String("timeframe", "1d", "bar timeframe")
	count := flag.Int("count", 500, "number of bars to fetch")
	out := flag.String("out", "bars.csv", "output CSV path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.New(logger.Options{Level: cfg.LogLevel, Console: cfg.LogConsole})

	gateway, err := binanceclient.New(binanceclient.Config{
		APIKey:         cfg.APIKey,
		SecretKey:      cfg.SecretKey,
		UseTestnet:     cfg.IsTestnet,
		Logger:         appLogger,
		RetryMaxElapse: cfg.RetryMaxElapse,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance gateway: %v", err)
	}

	ctx := context.Background()
	fmt.Printf("Fetching %d %s bars for %s...\n", *count, *timeframe, *symbol)
	bars, err := gateway.GetBars(ctx, *symbol, *timeframe, *count)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to fetch bars")
		log.Fatalf("FATAL: Failed to fetch bars: %v", err)
	}

	if err := utils.WriteBarsToCSV(bars, *out); err != nil {
		appLogger.Error(ctx, err, "Failed to write CSV")
		log.Fatalf("FATAL: Failed to write CSV: %v", err)
	}
	fmt.Printf("Wrote %d bars to %s\n", len(bars), *out)
}
