package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"forexSignalBot/config"
	"forexSignalBot/internal/adapters/binanceclient"
	"forexSignalBot/internal/adapters/logger"
	"forexSignalBot/internal/adapters/sqlite"
	"forexSignalBot/internal/app"
	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/execution"
	"forexSignalBot/internal/risk"
	"forexSignalBot/internal/signal"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.New(logger.Options{Level: cfg.LogLevel, Console: cfg.LogConsole})
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel})

	// 3. Initialize Journal (Database Adapter)
	journal, err := sqlite.NewJournal(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal journal")
		log.Fatalf("FATAL: Failed to initialize signal journal: %v", err)
	}
	defer func() {
		if err := journal.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing signal journal")
		}
	}()
	appLogger.Info(context.Background(), "Signal journal initialized", map[string]interface{}{"path": cfg.DBPath})

	// 4. Initialize Market Gateway (Binance Adapter)
	gateway, err := binanceclient.New(binanceclient.Config{
		APIKey:         cfg.APIKey,
		SecretKey:      cfg.SecretKey,
		UseTestnet:     cfg.IsTestnet,
		Logger:         appLogger,
		RetryMaxElapse: cfg.RetryMaxElapse,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance gateway")
		log.Fatalf("FATAL: Failed to initialize Binance gateway: %v", err)
	}
	appLogger.Info(context.Background(), "Binance gateway initialized", map[string]interface{}{"testnet": cfg.IsTestnet})

	// 5. Initialize Risk Manager
	riskManager, err := risk.New(risk.Config{
		RiskPercentPerTrade:      cfg.RiskPercentPerTrade,
		MaxPositionsPerSymbol:    cfg.MaxPositionsPerSymbol,
		MaxTradesPerDay:          cfg.MaxTradesPerDay,
		MaxTradesPerSymbolPerDay: cfg.MaxTradesPerSymbolPerDay,
		MaxSlippagePoints:        cfg.MaxSlippagePoints,
		MaxSpreadPoints:          cfg.MaxSpreadPoints,
		DailyLossLimitPercent:    cfg.DailyLossLimitPercent,
		WeeklyLossLimitPercent:   cfg.WeeklyLossLimitPercent,
		TradingStartHour:         cfg.TradingStartHour,
		TradingEndHour:           cfg.TradingEndHour,
		Logger:                   appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize risk manager")
		log.Fatalf("FATAL: Failed to initialize risk manager: %v", err)
	}
	appLogger.Info(context.Background(), "Risk manager initialized")

	// 6. Initialize Signal Engine with the built-in strategies
	engine, err := signal.NewWithDefaults(signal.Config{}, appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal engine")
		log.Fatalf("FATAL: Failed to initialize signal engine: %v", err)
	}
	appLogger.Info(context.Background(), "Signal engine initialized")

	// 7. Initialize Execution Orchestrator
	mode, err := execution.ParseMode(cfg.ExecutionMode)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Invalid execution mode")
		log.Fatalf("FATAL: Invalid execution mode: %v", err)
	}
	orchestrator, err := execution.New(execution.Config{
		Mode:    mode,
		Gateway: gateway,
		Risk:    riskManager,
		Logger:  appLogger,
		Tickets: journal,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize execution orchestrator")
		log.Fatalf("FATAL: Failed to initialize execution orchestrator: %v", err)
	}
	appLogger.Info(context.Background(), "Execution orchestrator initialized", map[string]interface{}{"mode": string(mode)})

	// 8. Initialize Position Manager. Only auto mode holds live positions to
	// manage; the other modes never send orders.
	var positions *execution.PositionManager
	if mode == execution.ModeAuto {
		positions, err = execution.NewPositionManager(execution.PositionConfig{
			Gateway: gateway,
			Market:  gateway,
			Logger:  appLogger,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize position manager")
			log.Fatalf("FATAL: Failed to initialize position manager: %v", err)
		}
		appLogger.Info(context.Background(), "Position manager initialized")
	}

	// 9. Initialize Scan Service
	service, err := app.New(app.Config{
		Symbols:           cfg.Symbols,
		Timeframe:         cfg.Timeframe,
		BarCount:          cfg.BarCount,
		ScanInterval:      cfg.ScanInterval,
		Strategy:          domain.StrategyID(cfg.Strategy),
		MinSignalAccuracy: cfg.MinSignalAccuracy,
		Gateway:           gateway,
		Engine:            engine,
		Orchestrator:      orchestrator,
		Positions:         positions,
		Journal:           journal,
		Logger:            appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize scan service")
		log.Fatalf("FATAL: Failed to initialize scan service: %v", err)
	}
	appLogger.Info(context.Background(), "Scan service initialized")

	// 10. Start the Service
	if err := service.Start(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "Scan service exited with error")
		log.Fatalf("FATAL: Scan service exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
