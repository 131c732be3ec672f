// Package binanceclient implements ports.MarketGateway against the Binance
// futures API using the go-binance library.
package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/cenkalti/backoff/v4"
)

const (
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"
)

// Client implements the ports.MarketGateway interface using the go-binance library.
type Client struct {
	futuresClient  *futures.Client
	logger         ports.Logger
	retryMaxElapse time.Duration

	mu      sync.Mutex
	symbols map[string]domain.SymbolInfo // contract terms cache, quotes excluded
}

// Config holds configuration specific to the Binance gateway adapter.
type Config struct {
	APIKey         string
	SecretKey      string
	UseTestnet     bool
	Logger         ports.Logger
	RetryMaxElapse time.Duration // total time budget for retried reads (e.g. 30s)
}

// New creates a new Binance gateway adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance gateway")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		cfg.Logger.Warn(context.Background(), "APIKey or SecretKey is empty, only public endpoints will work")
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
		cfg.Logger.Info(context.Background(), "Binance gateway configured for Testnet", map[string]interface{}{"baseURL": client.BaseURL})
	} else {
		client.BaseURL = baseURLProduction
		cfg.Logger.Info(context.Background(), "Binance gateway configured for Production", map[string]interface{}{"baseURL": client.BaseURL})
	}

	retryMaxElapse := cfg.RetryMaxElapse
	if retryMaxElapse <= 0 {
		retryMaxElapse = 30 * time.Second
	}

	return &Client{
		futuresClient:  client,
		logger:         cfg.Logger,
		retryMaxElapse: retryMaxElapse,
		symbols:        make(map[string]domain.SymbolInfo),
	}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003:
			mappedErr = ports.ErrRateLimited
		case -1021:
			mappedErr = ports.ErrTimeout
		case -1022:
			mappedErr = ports.ErrAuthenticationFailed
		case -1121:
			mappedErr = ports.ErrSymbolNotFound
		case -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1115, -1116, -1117, -1120, -1125, -1127, -1128, -1130:
			mappedErr = ports.ErrInvalidRequest
		case -2010, -2022, -4003, -4014:
			mappedErr = ports.ErrOrderPlacementFailed
		case -2014, -2015:
			mappedErr = ports.ErrAuthenticationFailed
		default:
			mappedErr = ports.ErrUnknown
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if strings.Contains(err.Error(), "use of closed network connection") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	} else {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// retryRead runs a read-only call under exponential backoff. Authentication
// and bad-request failures are not worth retrying and abort immediately.
func (c *Client) retryRead(ctx context.Context, op func() error) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case -1022, -2014, -2015, -1121:
				return backoff.Permanent(err)
			}
		}
		return err
	}
	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = c.retryMaxElapse
	return backoff.Retry(wrapped, backoff.WithContext(strategy, ctx))
}

// Ping checks connectivity to the venue.
func (c *Client) Ping(ctx context.Context) error {
	op := "Ping"
	if err := c.futuresClient.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, fmt.Errorf("%w: %s", ports.ErrGatewayUnavailable, err), op)
	}
	c.logger.Debug(ctx, op+" successful")
	return nil
}

// GetBars retrieves up to count historical bars, oldest first. Transient
// failures are retried with exponential backoff.
func (c *Client) GetBars(ctx context.Context, symbol, timeframe string, count int) ([]domain.Bar, error) {
	op := "GetBars"
	var klines []*futures.Kline
	err := c.retryRead(ctx, func() error {
		var callErr error
		klines, callErr = c.futuresClient.NewKlinesService().
			Symbol(symbol).
			Interval(timeframe).
			Limit(count).
			Do(ctx)
		return callErr
	})
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	bars := make([]domain.Bar, 0, len(klines))
	for _, k := range klines {
		bar, err := translateKline(k)
		if err != nil {
			return nil, c.handleError(ctx, fmt.Errorf("failed to translate kline: %w", err), op)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// GetSymbolInfo retrieves contract terms and the current quote for a symbol.
// Contract terms are cached after the first lookup; the quote is always fresh.
func (c *Client) GetSymbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, error) {
	op := "GetSymbolInfo"

	info, err := c.contractTerms(ctx, symbol)
	if err != nil {
		return domain.SymbolInfo{}, c.handleError(ctx, err, op)
	}

	var tickers []*futures.BookTicker
	err = c.retryRead(ctx, func() error {
		var callErr error
		tickers, callErr = c.futuresClient.NewListBookTickersService().Symbol(symbol).Do(ctx)
		return callErr
	})
	if err != nil {
		return domain.SymbolInfo{}, c.handleError(ctx, err, op)
	}
	if len(tickers) == 0 {
		return domain.SymbolInfo{}, c.handleError(ctx, fmt.Errorf("%w: no quote for %s", ports.ErrSymbolNotFound, symbol), op)
	}

	bid, err := strconv.ParseFloat(tickers[0].BidPrice, 64)
	if err != nil {
		return domain.SymbolInfo{}, c.handleError(ctx, fmt.Errorf("could not parse bid '%s': %w", tickers[0].BidPrice, err), op)
	}
	ask, err := strconv.ParseFloat(tickers[0].AskPrice, 64)
	if err != nil {
		return domain.SymbolInfo{}, c.handleError(ctx, fmt.Errorf("could not parse ask '%s': %w", tickers[0].AskPrice, err), op)
	}

	info.Bid = bid
	info.Ask = ask
	if info.Point > 0 && ask > bid {
		info.SpreadPoints = (ask - bid) / info.Point
	}
	return info, nil
}

// contractTerms resolves the static part of SymbolInfo from exchange metadata.
func (c *Client) contractTerms(ctx context.Context, symbol string) (domain.SymbolInfo, error) {
	c.mu.Lock()
	cached, ok := c.symbols[symbol]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	var exchangeInfo *futures.ExchangeInfo
	err := c.retryRead(ctx, func() error {
		var callErr error
		exchangeInfo, callErr = c.futuresClient.NewExchangeInfoService().Do(ctx)
		return callErr
	})
	if err != nil {
		return domain.SymbolInfo{}, err
	}

	for i := range exchangeInfo.Symbols {
		s := &exchangeInfo.Symbols[i]
		if s.Symbol != symbol {
			continue
		}
		info := domain.SymbolInfo{
			Name:         s.Symbol,
			Digits:       s.PricePrecision,
			ContractSize: 1, // USDT-margined futures quote PnL per unit of quantity
		}
		if pf := s.PriceFilter(); pf != nil {
			if tick, err := strconv.ParseFloat(pf.TickSize, 64); err == nil && tick > 0 {
				info.Point = tick
				// Value of a one-point move per unit of quantity.
				info.TickValue = tick * info.ContractSize
			}
		}
		if lf := s.LotSizeFilter(); lf != nil {
			if v, err := strconv.ParseFloat(lf.MinQuantity, 64); err == nil {
				info.VolumeMin = v
			}
			if v, err := strconv.ParseFloat(lf.MaxQuantity, 64); err == nil {
				info.VolumeMax = v
			}
			if v, err := strconv.ParseFloat(lf.StepSize, 64); err == nil {
				info.VolumeStep = v
			}
		}
		c.mu.Lock()
		c.symbols[symbol] = info
		c.mu.Unlock()
		return info, nil
	}
	return domain.SymbolInfo{}, fmt.Errorf("%w: %s", ports.ErrSymbolNotFound, symbol)
}

// GetEquity retrieves the current account equity (margin balance) in USDT.
func (c *Client) GetEquity(ctx context.Context) (float64, error) {
	op := "GetEquity"
	account, err := c.futuresClient.NewGetAccountService().Do(ctx)
	if err != nil {
		return 0, c.handleError(ctx, err, op)
	}
	equity, err := strconv.ParseFloat(account.TotalMarginBalance, 64)
	if err != nil {
		return 0, c.handleError(ctx, fmt.Errorf("could not parse margin balance '%s': %w", account.TotalMarginBalance, err), op)
	}
	return equity, nil
}

// GetOpenPositionCounts retrieves the number of open positions per symbol.
// Binance reports at most one net position per symbol, so counts are 0 or 1
// unless hedge mode splits a symbol into long and short legs.
func (c *Client) GetOpenPositionCounts(ctx context.Context) (map[string]int, error) {
	op := "GetOpenPositionCounts"
	positions, err := c.futuresClient.NewGetPositionRiskService().Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	counts := make(map[string]int)
	for _, pos := range positions {
		amt, err := strconv.ParseFloat(pos.PositionAmt, 64)
		if err != nil || amt == 0 {
			continue
		}
		counts[pos.Symbol]++
	}
	return counts, nil
}

// GetOpenPositions retrieves all nonzero positions with their attached stop
// and target levels. Binance keeps exit levels as separate close-position
// orders, so each position's open orders are read to recover them.
func (c *Client) GetOpenPositions(ctx context.Context) ([]domain.OpenPosition, error) {
	op := "GetOpenPositions"
	var risks []*futures.PositionRisk
	err := c.retryRead(ctx, func() error {
		var callErr error
		risks, callErr = c.futuresClient.NewGetPositionRiskService().Do(ctx)
		return callErr
	})
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	var positions []domain.OpenPosition
	for _, r := range risks {
		amt, err := strconv.ParseFloat(r.PositionAmt, 64)
		if err != nil || amt == 0 {
			continue
		}
		entry, err := strconv.ParseFloat(r.EntryPrice, 64)
		if err != nil {
			return nil, c.handleError(ctx, fmt.Errorf("could not parse entry price '%s': %w", r.EntryPrice, err), op)
		}
		mark, err := strconv.ParseFloat(r.MarkPrice, 64)
		if err != nil {
			return nil, c.handleError(ctx, fmt.Errorf("could not parse mark price '%s': %w", r.MarkPrice, err), op)
		}
		profit, err := strconv.ParseFloat(r.UnRealizedProfit, 64)
		if err != nil {
			return nil, c.handleError(ctx, fmt.Errorf("could not parse unrealized profit '%s': %w", r.UnRealizedProfit, err), op)
		}

		pos := domain.OpenPosition{
			Ticket:       r.Symbol, // one net position per symbol
			Symbol:       r.Symbol,
			Type:         domain.SignalBuy,
			Volume:       amt,
			EntryPrice:   entry,
			CurrentPrice: mark,
			Profit:       profit,
		}
		if amt < 0 {
			pos.Type = domain.SignalSell
			pos.Volume = -amt
		}

		if err := c.attachExitLevels(ctx, &pos); err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// attachExitLevels fills StopLoss/TakeProfit from the symbol's open exit orders.
func (c *Client) attachExitLevels(ctx context.Context, pos *domain.OpenPosition) error {
	op := "GetOpenPositions"
	var orders []*futures.Order
	err := c.retryRead(ctx, func() error {
		var callErr error
		orders, callErr = c.futuresClient.NewListOpenOrdersService().Symbol(pos.Symbol).Do(ctx)
		return callErr
	})
	if err != nil {
		return c.handleError(ctx, err, op)
	}
	for _, o := range orders {
		price, err := strconv.ParseFloat(o.StopPrice, 64)
		if err != nil || price <= 0 {
			continue
		}
		switch o.Type {
		case futures.OrderTypeStopMarket:
			pos.StopLoss = price
		case futures.OrderTypeTakeProfitMarket:
			pos.TakeProfit = price
		}
	}
	return nil
}

// ModifyPositionStops replaces the exit orders protecting a position. The
// existing exit orders are cancelled first; exit orders are the only resting
// orders this bot places, so a symbol-wide cancel is safe.
func (c *Client) ModifyPositionStops(ctx context.Context, pos domain.OpenPosition, stopLoss, takeProfit float64) error {
	op := "ModifyPositionStops"

	info, err := c.contractTerms(ctx, pos.Symbol)
	if err != nil {
		return c.handleError(ctx, err, op)
	}

	if err := c.futuresClient.NewCancelAllOpenOrdersService().Symbol(pos.Symbol).Do(ctx); err != nil {
		return c.handleError(ctx, err, op)
	}

	exitSide := futures.SideTypeSell
	if pos.Type == domain.SignalSell {
		exitSide = futures.SideTypeBuy
	}
	if stopLoss > 0 {
		if err := c.placeExitOrder(ctx, pos.Symbol, exitSide, futures.OrderTypeStopMarket, stopLoss, info); err != nil {
			return err
		}
	}
	if takeProfit > 0 {
		if err := c.placeExitOrder(ctx, pos.Symbol, exitSide, futures.OrderTypeTakeProfitMarket, takeProfit, info); err != nil {
			return err
		}
	}
	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"symbol":     pos.Symbol,
		"stopLoss":   stopLoss,
		"takeProfit": takeProfit,
	})
	return nil
}

// ClosePositionPartial reduces a position by volume with a reduce-only market
// order on the opposite side.
func (c *Client) ClosePositionPartial(ctx context.Context, pos domain.OpenPosition, volume float64) (*ports.OrderResult, error) {
	op := "ClosePositionPartial"

	info, err := c.contractTerms(ctx, pos.Symbol)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	side := futures.SideTypeSell
	if pos.Type == domain.SignalSell {
		side = futures.SideTypeBuy
	}
	order, err := c.futuresClient.NewCreateOrderService().
		Symbol(pos.Symbol).
		Side(side).
		Type(futures.OrderTypeMarket).
		Quantity(formatQuantity(volume, info.VolumeStep)).
		ReduceOnly(true).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	result := translateOrderResult(order)
	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"symbol":  pos.Symbol,
		"volume":  volume,
		"orderID": result.OrderID,
	})
	return result, nil
}

// PlaceMarketOrder submits a market order and returns the fill details. Stop
// loss and take profit levels are attached as separate close-position orders
// after the entry fills.
func (c *Client) PlaceMarketOrder(ctx context.Context, req ports.OrderRequest) (*ports.OrderResult, error) {
	op := "PlaceMarketOrder"

	side := futures.SideTypeBuy
	exitSide := futures.SideTypeSell
	if req.Side == domain.SignalSell {
		side = futures.SideTypeSell
		exitSide = futures.SideTypeBuy
	}

	info, err := c.contractTerms(ctx, req.Symbol)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	order, err := c.futuresClient.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(side).
		Type(futures.OrderTypeMarket).
		Quantity(formatQuantity(req.Volume, info.VolumeStep)).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	result := translateOrderResult(order)
	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"symbol":  req.Symbol,
		"side":    string(req.Side),
		"volume":  req.Volume,
		"orderID": result.OrderID,
		"price":   result.FilledPrice,
	})

	if req.StopLoss > 0 {
		if err := c.placeExitOrder(ctx, req.Symbol, exitSide, futures.OrderTypeStopMarket, req.StopLoss, info); err != nil {
			return result, err
		}
	}
	if req.TakeProfit > 0 {
		if err := c.placeExitOrder(ctx, req.Symbol, exitSide, futures.OrderTypeTakeProfitMarket, req.TakeProfit, info); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (c *Client) placeExitOrder(ctx context.Context, symbol string, side futures.SideType, orderType futures.OrderType, stopPrice float64, info domain.SymbolInfo) error {
	op := "PlaceExitOrder"
	_, err := c.futuresClient.NewCreateOrderService().
		Symbol(symbol).
		Side(side).
		Type(orderType).
		StopPrice(formatPrice(stopPrice, info.Digits)).
		ClosePosition(true).
		Do(ctx)
	if err != nil {
		return c.handleError(ctx, err, op)
	}
	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"symbol":    symbol,
		"type":      string(orderType),
		"stopPrice": stopPrice,
	})
	return nil
}

// --- Translation helpers ---

func translateKline(k *futures.Kline) (domain.Bar, error) {
	if k == nil {
		return domain.Bar{}, errors.New("received nil kline")
	}
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing open price '%s': %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing high price '%s': %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing low price '%s': %w", k.Low, err)
	}
	cls, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing close price '%s': %w", k.Close, err)
	}
	vol, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing volume '%s': %w", k.Volume, err)
	}
	return domain.Bar{
		Time:   time.UnixMilli(k.OpenTime),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cls,
		Volume: vol,
	}, nil
}

func translateOrderResult(order *futures.CreateOrderResponse) *ports.OrderResult {
	if order == nil {
		return nil
	}
	avgPrice, _ := strconv.ParseFloat(order.AvgPrice, 64)
	execQty, _ := strconv.ParseFloat(order.ExecutedQuantity, 64)
	return &ports.OrderResult{
		OrderID:     order.OrderID,
		Symbol:      order.Symbol,
		FilledPrice: avgPrice,
		FilledQty:   execQty,
		Status:      string(order.Status),
		Timestamp:   time.UnixMilli(order.UpdateTime),
	}
}

func formatQuantity(qty, step float64) string {
	decimals := 3
	if step > 0 {
		decimals = 0
		for step < 1 && decimals < 8 {
			step *= 10
			decimals++
		}
	}
	return strconv.FormatFloat(qty, 'f', decimals, 64)
}

func formatPrice(price float64, digits int) string {
	if digits <= 0 {
		digits = 5
	}
	return strconv.FormatFloat(price, 'f', digits, 64)
}
