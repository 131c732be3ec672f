package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Signal Generation Errors
	ErrInsufficientData = errors.New("not enough bars for the requested calculation")
	ErrUnknownStrategy  = errors.New("strategy is not registered")

	// Risk Errors
	ErrKillSwitchActive = errors.New("kill switch is active, trading halted")
	ErrTradeRejected    = errors.New("trade rejected by risk checks")

	// Market Gateway Errors
	ErrGatewayUnavailable   = errors.New("market gateway is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the market gateway")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("gateway authentication failed (check API keys)")
	ErrSymbolNotFound       = errors.New("symbol not available on the gateway")
	ErrOrderPlacementFailed = errors.New("failed to place order")

	// Journal Errors
	ErrDuplicateEntry = errors.New("journal record already exists")
	ErrDBConnection   = errors.New("journal connection error")
	ErrQueryFailed    = errors.New("journal query failed")
	ErrUpdateFailed   = errors.New("journal update failed")
)
