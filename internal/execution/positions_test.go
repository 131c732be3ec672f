package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forexSignalBot/internal/domain"
	"forexSignalBot/internal/ports"
)

type stopChange struct {
	ticket     string
	stopLoss   float64
	takeProfit float64
}

type partialClose struct {
	ticket string
	volume float64
}

type mockPositionGateway struct {
	positions []domain.OpenPosition
	listErr   error
	modifyErr error
	closeErr  error

	modified []stopChange
	closed   []partialClose
}

func (g *mockPositionGateway) GetOpenPositions(ctx context.Context) ([]domain.OpenPosition, error) {
	return g.positions, g.listErr
}

func (g *mockPositionGateway) ModifyPositionStops(ctx context.Context, pos domain.OpenPosition, stopLoss, takeProfit float64) error {
	if g.modifyErr != nil {
		return g.modifyErr
	}
	g.modified = append(g.modified, stopChange{ticket: pos.Ticket, stopLoss: stopLoss, takeProfit: takeProfit})
	return nil
}

func (g *mockPositionGateway) ClosePositionPartial(ctx context.Context, pos domain.OpenPosition, volume float64) (*ports.OrderResult, error) {
	if g.closeErr != nil {
		return nil, g.closeErr
	}
	g.closed = append(g.closed, partialClose{ticket: pos.Ticket, volume: volume})
	return &ports.OrderResult{Symbol: pos.Symbol, FilledQty: volume, Status: "FILLED"}, nil
}

func buyPosition(profitPoints float64) domain.OpenPosition {
	// Point is 0.00001, so profit in points maps directly onto price distance.
	return domain.OpenPosition{
		Ticket:       "EURUSD",
		Symbol:       "EURUSD",
		Type:         domain.SignalBuy,
		Volume:       0.10,
		EntryPrice:   1.1000,
		CurrentPrice: 1.1000 + profitPoints*0.00001,
		StopLoss:     1.0950,
		TakeProfit:   1.1100,
	}
}

func newPositionManager(t *testing.T, gw *mockPositionGateway, cfg PositionConfig) *PositionManager {
	t.Helper()
	cfg.Gateway = gw
	cfg.Market = testGateway()
	cfg.Logger = &mockLogger{}
	m, err := NewPositionManager(cfg)
	require.NoError(t, err)
	return m
}

func TestNewPositionManagerValidatesDependencies(t *testing.T) {
	_, err := NewPositionManager(PositionConfig{Market: testGateway(), Logger: &mockLogger{}})
	assert.ErrorContains(t, err, "position gateway")

	_, err = NewPositionManager(PositionConfig{Gateway: &mockPositionGateway{}, Logger: &mockLogger{}})
	assert.ErrorContains(t, err, "market gateway")

	_, err = NewPositionManager(PositionConfig{Gateway: &mockPositionGateway{}, Market: testGateway()})
	assert.ErrorContains(t, err, "logger")
}

func TestMonitorAllEmptyBook(t *testing.T) {
	gw := &mockPositionGateway{}
	m := newPositionManager(t, gw, PositionConfig{})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MonitorReport{}, report)
}

func TestMonitorAllListFailure(t *testing.T) {
	gw := &mockPositionGateway{listErr: errors.New("connection reset")}
	m := newPositionManager(t, gw, PositionConfig{})

	_, err := m.MonitorAll(context.Background())
	assert.ErrorContains(t, err, "failed to list open positions")
}

func TestBreakEvenMovesStopOnceTriggered(t *testing.T) {
	gw := &mockPositionGateway{positions: []domain.OpenPosition{buyPosition(25)}}
	m := newPositionManager(t, gw, PositionConfig{DisableTrailing: true})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.BreakEvenMoved)
	require.Len(t, gw.modified, 1)
	// Entry 1.1000 plus the default 5-point offset.
	assert.InDelta(t, 1.10005, gw.modified[0].stopLoss, 1e-9)
	assert.InDelta(t, 1.1100, gw.modified[0].takeProfit, 1e-9)
}

func TestBreakEvenBelowTriggerDoesNothing(t *testing.T) {
	gw := &mockPositionGateway{positions: []domain.OpenPosition{buyPosition(15)}}
	m := newPositionManager(t, gw, PositionConfig{})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.BreakEvenMoved)
	assert.Empty(t, gw.modified)
}

func TestBreakEvenFiresOnlyOncePerTicket(t *testing.T) {
	gw := &mockPositionGateway{positions: []domain.OpenPosition{buyPosition(25)}}
	m := newPositionManager(t, gw, PositionConfig{DisableTrailing: true})

	_, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	_, err = m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, gw.modified, 1)
}

func TestBreakEvenSellDirection(t *testing.T) {
	pos := domain.OpenPosition{
		Ticket:       "EURUSD",
		Symbol:       "EURUSD",
		Type:         domain.SignalSell,
		Volume:       0.10,
		EntryPrice:   1.1000,
		CurrentPrice: 1.1000 - 25*0.00001,
		StopLoss:     1.1050,
	}
	gw := &mockPositionGateway{positions: []domain.OpenPosition{pos}}
	m := newPositionManager(t, gw, PositionConfig{DisableTrailing: true})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.BreakEvenMoved)
	require.Len(t, gw.modified, 1)
	assert.InDelta(t, 1.09995, gw.modified[0].stopLoss, 1e-9)
}

func TestPartialCloseTakesHalfAtTrigger(t *testing.T) {
	gw := &mockPositionGateway{positions: []domain.OpenPosition{buyPosition(35)}}
	m := newPositionManager(t, gw, PositionConfig{DisableTrailing: true, DisableBreakEven: true})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.PartialClosed)
	require.Len(t, gw.closed, 1)
	assert.InDelta(t, 0.05, gw.closed[0].volume, 1e-9)
}

func TestPartialCloseSkipsTinyPositions(t *testing.T) {
	pos := buyPosition(35)
	pos.Volume = 0.01 // closing half would leave nothing tradable
	gw := &mockPositionGateway{positions: []domain.OpenPosition{pos}}
	m := newPositionManager(t, gw, PositionConfig{DisableTrailing: true, DisableBreakEven: true})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.PartialClosed)
	assert.Empty(t, gw.closed)
}

func TestPartialCloseRoundsToVolumeStep(t *testing.T) {
	pos := buyPosition(35)
	pos.Volume = 0.03
	gw := &mockPositionGateway{positions: []domain.OpenPosition{pos}}
	m := newPositionManager(t, gw, PositionConfig{DisableTrailing: true, DisableBreakEven: true})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.PartialClosed)
	require.Len(t, gw.closed, 1)
	// Half of 0.03 rounds to the 0.01 step.
	assert.InDelta(t, 0.02, gw.closed[0].volume, 1e-9)
}

func TestPartialCloseFiresOnlyOncePerTicket(t *testing.T) {
	gw := &mockPositionGateway{positions: []domain.OpenPosition{buyPosition(35)}}
	m := newPositionManager(t, gw, PositionConfig{DisableTrailing: true, DisableBreakEven: true})

	_, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	_, err = m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, gw.closed, 1)
}

func TestTrailingWaitsForBreakEven(t *testing.T) {
	gw := &mockPositionGateway{positions: []domain.OpenPosition{buyPosition(15)}}
	m := newPositionManager(t, gw, PositionConfig{DisableBreakEven: true, DisablePartialClose: true})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.TrailingUpdated)
	assert.Empty(t, gw.modified)
}

func TestTrailingFollowsPriceAfterBreakEven(t *testing.T) {
	// Stop already close to price so only the break-even move fires on the
	// first pass.
	armed := buyPosition(25)
	armed.StopLoss = 1.1002
	gw := &mockPositionGateway{positions: []domain.OpenPosition{armed}}
	m := newPositionManager(t, gw, PositionConfig{DisablePartialClose: true})

	// First pass arms trailing by moving to break even.
	_, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	require.Len(t, gw.modified, 1)

	// Price runs on; the stop should trail ten points behind.
	pos := buyPosition(40)
	pos.StopLoss = 1.10005
	gw.positions = []domain.OpenPosition{pos}

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.TrailingUpdated)
	require.Len(t, gw.modified, 2)
	assert.InDelta(t, 1.1004-10*0.00001, gw.modified[1].stopLoss, 1e-9)
}

func TestTrailingSkipsMovesBelowMinimumImprovement(t *testing.T) {
	armed := buyPosition(25)
	armed.StopLoss = 1.1002
	gw := &mockPositionGateway{positions: []domain.OpenPosition{armed}}
	m := newPositionManager(t, gw, PositionConfig{DisablePartialClose: true})

	_, err := m.MonitorAll(context.Background())
	require.NoError(t, err)

	// Stop already 10 points behind; a 3-point improvement is under the
	// 5-point minimum and stays put.
	pos := buyPosition(28)
	pos.StopLoss = 1.1000 + 15*0.00001
	gw.positions = []domain.OpenPosition{pos}

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.TrailingUpdated)
	assert.Len(t, gw.modified, 1)
}

func TestTrailingSellDirection(t *testing.T) {
	sell := domain.OpenPosition{
		Ticket:       "EURUSD",
		Symbol:       "EURUSD",
		Type:         domain.SignalSell,
		Volume:       0.10,
		EntryPrice:   1.1000,
		CurrentPrice: 1.1000 - 25*0.00001,
		StopLoss:     1.0999,
	}
	gw := &mockPositionGateway{positions: []domain.OpenPosition{sell}}
	m := newPositionManager(t, gw, PositionConfig{DisablePartialClose: true})

	_, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	require.Len(t, gw.modified, 1)

	sell.CurrentPrice = 1.1000 - 40*0.00001
	sell.StopLoss = 1.09995
	gw.positions = []domain.OpenPosition{sell}

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.TrailingUpdated)
	require.Len(t, gw.modified, 2)
	assert.InDelta(t, sell.CurrentPrice+10*0.00001, gw.modified[1].stopLoss, 1e-9)
}

func TestDisabledFeaturesNeverTouchTheGateway(t *testing.T) {
	gw := &mockPositionGateway{positions: []domain.OpenPosition{buyPosition(50)}}
	m := newPositionManager(t, gw, PositionConfig{
		DisableTrailing:     true,
		DisableBreakEven:    true,
		DisablePartialClose: true,
	})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Empty(t, gw.modified)
	assert.Empty(t, gw.closed)
}

func TestModifyFailureIsToleratedAndRetriedNextPass(t *testing.T) {
	gw := &mockPositionGateway{
		positions: []domain.OpenPosition{buyPosition(25)},
		modifyErr: errors.New("rate limited"),
	}
	m := newPositionManager(t, gw, PositionConfig{DisablePartialClose: true})

	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.BreakEvenMoved)

	gw.modifyErr = nil
	report, err = m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.BreakEvenMoved)
}

func TestStateIsPrunedWhenPositionCloses(t *testing.T) {
	gw := &mockPositionGateway{positions: []domain.OpenPosition{buyPosition(25)}}
	m := newPositionManager(t, gw, PositionConfig{DisableTrailing: true, DisablePartialClose: true})

	_, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	require.Len(t, gw.modified, 1)

	// Position closes, then the same ticket reopens. The fresh position
	// gets its own break-even move.
	gw.positions = nil
	_, err = m.MonitorAll(context.Background())
	require.NoError(t, err)

	gw.positions = []domain.OpenPosition{buyPosition(25)}
	report, err := m.MonitorAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.BreakEvenMoved)
	assert.Len(t, gw.modified, 2)
}
