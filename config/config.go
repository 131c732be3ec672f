package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Binance API
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Scan targets
	Symbols      []string
	Timeframe    string
	BarCount     int
	ScanInterval time.Duration

	// Execution
	ExecutionMode string // dry_run, manual_confirm or auto
	Strategy      string // strategy identifier evaluated on each scan

	// Risk Limits
	RiskPercentPerTrade      float64
	MaxPositionsPerSymbol    int
	MaxTradesPerDay          int
	MaxTradesPerSymbolPerDay int
	MaxSlippagePoints        float64
	MaxSpreadPoints          float64
	DailyLossLimitPercent    float64
	WeeklyLossLimitPercent   float64
	TradingStartHour         int
	TradingEndHour           int
	MinSignalAccuracy        float64

	// News filter knobs. Carried from the original deployment; no calendar
	// feed is wired, so nothing consumes them yet.
	AvoidNewsTrading  bool
	NewsBufferMinutes int

	// Database
	DBPath string

	// Logging
	LogLevel   string
	LogConsole bool

	// Connection Settings
	RetryMaxElapse time.Duration
}

// Load reads configuration from environment variables (.env file).
func Load() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	// Scan targets
	symbols := getEnv("SYMBOLS", "BTCUSDT")
	for _, s := range strings.Split(symbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Symbols = append(cfg.Symbols, s)
		}
	}
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must name at least one symbol")
	}

	cfg.Timeframe = getEnv("TIMEFRAME", "1d")
	if cfg.Timeframe == "" {
		errs = append(errs, "TIMEFRAME must be set")
	}

	cfg.BarCount, err = getEnvAsIntRequired("BAR_COUNT", 200)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid BAR_COUNT: %v", err))
	} else if cfg.BarCount < 100 {
		errs = append(errs, "BAR_COUNT must be at least 100 for the composite strategies")
	}

	scanIntervalSeconds := getEnvAsInt("SCAN_INTERVAL_SECONDS", 300)
	if scanIntervalSeconds <= 0 {
		errs = append(errs, "SCAN_INTERVAL_SECONDS must be positive")
	}
	cfg.ScanInterval = time.Duration(scanIntervalSeconds) * time.Second

	// Execution
	cfg.ExecutionMode = getEnv("EXECUTION_MODE", "dry_run")
	switch cfg.ExecutionMode {
	case "dry_run", "manual_confirm", "auto":
	default:
		errs = append(errs, fmt.Sprintf("invalid EXECUTION_MODE %q (want dry_run, manual_confirm or auto)", cfg.ExecutionMode))
	}
	if cfg.ExecutionMode == "auto" && (cfg.APIKey == "" || cfg.SecretKey == "") {
		errs = append(errs, "BINANCE_API_KEY and BINANCE_API_SECRET must be set for auto execution")
	}

	cfg.Strategy = getEnv("STRATEGY", "ultimate_accuracy")
	if cfg.Strategy == "" {
		errs = append(errs, "STRATEGY must be set")
	}

	// Risk Limits
	cfg.RiskPercentPerTrade, err = getEnvAsFloatRequired("RISK_PER_TRADE_PERCENT", 1.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RISK_PER_TRADE_PERCENT: %v", err))
	} else if cfg.RiskPercentPerTrade <= 0 || cfg.RiskPercentPerTrade > 100 {
		errs = append(errs, "RISK_PER_TRADE_PERCENT must be between 0 and 100")
	}

	cfg.MaxPositionsPerSymbol, err = getEnvAsIntRequired("MAX_POSITIONS_PER_SYMBOL", 1)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_POSITIONS_PER_SYMBOL: %v", err))
	} else if cfg.MaxPositionsPerSymbol <= 0 {
		errs = append(errs, "MAX_POSITIONS_PER_SYMBOL must be positive")
	}

	cfg.MaxTradesPerDay, err = getEnvAsIntRequired("MAX_TRADES_PER_DAY", 3)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_TRADES_PER_DAY: %v", err))
	} else if cfg.MaxTradesPerDay <= 0 {
		errs = append(errs, "MAX_TRADES_PER_DAY must be positive")
	}

	cfg.MaxTradesPerSymbolPerDay, err = getEnvAsIntRequired("MAX_TRADES_PER_SYMBOL_PER_DAY", 1)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_TRADES_PER_SYMBOL_PER_DAY: %v", err))
	} else if cfg.MaxTradesPerSymbolPerDay <= 0 {
		errs = append(errs, "MAX_TRADES_PER_SYMBOL_PER_DAY must be positive")
	}

	cfg.MaxSlippagePoints = getEnvAsFloat("MAX_SLIPPAGE_POINTS", 5)
	cfg.MaxSpreadPoints = getEnvAsFloat("MAX_SPREAD_POINTS", 10)
	if cfg.MaxSlippagePoints <= 0 || cfg.MaxSpreadPoints <= 0 {
		errs = append(errs, "MAX_SLIPPAGE_POINTS and MAX_SPREAD_POINTS must be positive")
	}

	cfg.DailyLossLimitPercent = getEnvAsFloat("DAILY_LOSS_LIMIT_PERCENT", 3.0)
	cfg.WeeklyLossLimitPercent = getEnvAsFloat("WEEKLY_LOSS_LIMIT_PERCENT", 5.0)
	if cfg.DailyLossLimitPercent <= 0 || cfg.WeeklyLossLimitPercent <= 0 {
		errs = append(errs, "loss limit percentages must be positive")
	}
	if cfg.DailyLossLimitPercent > cfg.WeeklyLossLimitPercent {
		errs = append(errs, "DAILY_LOSS_LIMIT_PERCENT must not exceed WEEKLY_LOSS_LIMIT_PERCENT")
	}

	cfg.TradingStartHour = getEnvAsInt("TRADING_START_HOUR", 0)
	cfg.TradingEndHour = getEnvAsInt("TRADING_END_HOUR", 23)
	if cfg.TradingStartHour < 0 || cfg.TradingStartHour > 23 ||
		cfg.TradingEndHour < 0 || cfg.TradingEndHour > 23 ||
		cfg.TradingStartHour > cfg.TradingEndHour {
		errs = append(errs, "invalid trading hours (want 0 <= start <= end <= 23)")
	}

	cfg.MinSignalAccuracy = getEnvAsFloat("MIN_SIGNAL_ACCURACY", 75.0)
	if cfg.MinSignalAccuracy < 0 || cfg.MinSignalAccuracy > 100 {
		errs = append(errs, "MIN_SIGNAL_ACCURACY must be between 0 and 100")
	}

	cfg.AvoidNewsTrading = getEnvAsBool("AVOID_NEWS_TRADING", true)
	cfg.NewsBufferMinutes = getEnvAsInt("NEWS_BUFFER_MINUTES", 30)

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/signal_bot.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogConsole = getEnvAsBool("LOG_CONSOLE", true)

	// Connection Settings
	retryMaxElapseSeconds := getEnvAsInt("RETRY_MAX_ELAPSE_SECONDS", 30)
	if retryMaxElapseSeconds <= 0 {
		errs = append(errs, "RETRY_MAX_ELAPSE_SECONDS must be positive")
	}
	cfg.RetryMaxElapse = time.Duration(retryMaxElapseSeconds) * time.Second

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
