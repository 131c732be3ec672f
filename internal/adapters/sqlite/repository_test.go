package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"forexSignalBot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Journal, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "signal-bot-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	journal, err := NewJournal(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		journal.Close()
		os.RemoveAll(tmpDir)
	}
	return journal, cleanup
}

func sampleSignal(symbol string, ts time.Time) domain.TradingSignal {
	return domain.TradingSignal{
		Symbol:       symbol,
		StrategyID:   domain.StrategyMACrossover,
		Type:         domain.SignalBuy,
		EntryPrice:   1.1000,
		StopLoss:     1.0950,
		TakeProfit:   1.1100,
		Reason:       "fast ema crossed above slow ema",
		Timestamp:    ts,
		RiskPoints:   500,
		RewardPoints: 1000,
		RiskReward:   2.0,
	}
}

func sampleTicket(id string, ts time.Time) domain.TradeTicket {
	return domain.TradeTicket{
		ID:         id,
		Symbol:     "EURUSD",
		Type:       domain.SignalBuy,
		Volume:     0.20,
		EntryPrice: 1.1000,
		StopLoss:   1.0950,
		TakeProfit: 1.1100,
		StrategyID: domain.StrategyMACrossover,
		Status:     domain.TicketPending,
		CreatedAt:  ts,
	}
}

func TestJournal_SaveAndFindSignals(t *testing.T) {
	journal, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	first := sampleSignal("EURUSD", base)
	id, err := journal.SaveSignal(ctx, first)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	second := sampleSignal("EURUSD", base.Add(time.Hour))
	second.Type = domain.SignalSell
	second.Accuracy = &domain.AccuracyReport{
		Score:          82.5,
		Confidence:     domain.ConfidenceHigh,
		Recommendation: "buy",
	}
	_, err = journal.SaveSignal(ctx, second)
	require.NoError(t, err)

	_, err = journal.SaveSignal(ctx, sampleSignal("GBPUSD", base))
	require.NoError(t, err)

	found, err := journal.FindSignalsBySymbol(ctx, "EURUSD", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)

	// Newest first.
	assert.Equal(t, domain.SignalSell, found[0].Type)
	require.NotNil(t, found[0].Accuracy)
	assert.InDelta(t, 82.5, found[0].Accuracy.Score, 1e-9)
	assert.Equal(t, domain.ConfidenceHigh, found[0].Accuracy.Confidence)

	assert.Equal(t, domain.SignalBuy, found[1].Type)
	assert.Nil(t, found[1].Accuracy)
	assert.InDelta(t, 2.0, found[1].RiskReward, 1e-9)
}

func TestJournal_FindSignalsLimit(t *testing.T) {
	journal, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := journal.SaveSignal(ctx, sampleSignal("EURUSD", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	found, err := journal.FindSignalsBySymbol(ctx, "EURUSD", 3)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestJournal_CountSignalsSince(t *testing.T) {
	journal, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := journal.SaveSignal(ctx, sampleSignal("EURUSD", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	count, err := journal.CountSignalsSince(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = journal.CountSignalsSince(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestJournal_TicketLifecycle(t *testing.T) {
	journal, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ticket := sampleTicket("T20250310_0001", created)
	require.NoError(t, journal.SaveTicket(ctx, ticket))

	found, err := journal.FindTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.TicketPending, found.Status)
	assert.True(t, found.ExecutedAt.IsZero())

	ticket.Status = domain.TicketExecuted
	ticket.ExecutedAt = created.Add(time.Second)
	ticket.ExecutedPrice = 1.10002
	ticket.SlippagePoints = 2.0
	require.NoError(t, journal.UpdateTicket(ctx, ticket))

	found, err = journal.FindTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.TicketExecuted, found.Status)
	assert.InDelta(t, 1.10002, found.ExecutedPrice, 1e-9)
	assert.InDelta(t, 2.0, found.SlippagePoints, 1e-9)
	assert.False(t, found.ExecutedAt.IsZero())
}

func TestJournal_FindTicketNotFound(t *testing.T) {
	journal, cleanup := setupTestDB(t)
	defer cleanup()

	found, err := journal.FindTicket(context.Background(), "T20250310_9999")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestJournal_UpdateMissingTicket(t *testing.T) {
	journal, cleanup := setupTestDB(t)
	defer cleanup()

	err := journal.UpdateTicket(context.Background(), sampleTicket("T20250310_0042", time.Now()))
	require.Error(t, err)
}

func TestJournal_FindTicketsBetween(t *testing.T) {
	journal, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"T20250310_0001", "T20250310_0002", "T20250311_0001"} {
		ticket := sampleTicket(id, base.Add(time.Duration(i)*12*time.Hour))
		require.NoError(t, journal.SaveTicket(ctx, ticket))
	}

	// [00:00, 24:00) of March 10 covers the first two tickets only.
	found, err := journal.FindTicketsBetween(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "T20250310_0002", found[0].ID)
	assert.Equal(t, "T20250310_0001", found[1].ID)
}

func TestJournal_DuplicateTicketID(t *testing.T) {
	journal, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	ticket := sampleTicket("T20250310_0001", time.Now().UTC())
	require.NoError(t, journal.SaveTicket(ctx, ticket))
	err := journal.SaveTicket(ctx, ticket)
	require.Error(t, err)
}
