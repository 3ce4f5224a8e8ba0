package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/stats"
	"signal_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeJournal struct {
	recs []models.TradeRecord
	err  error
}

func (f *fakeJournal) Insert(_ context.Context, rec models.TradeRecord) error {
	f.recs = append(f.recs, rec)
	return f.err
}

func (f *fakeJournal) Last(_ context.Context, n int) ([]models.TradeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n > len(f.recs) {
		n = len(f.recs)
	}
	return f.recs[len(f.recs)-n:], nil
}

func newTestLedger(t *testing.T) *stats.Ledger {
	t.Helper()
	return stats.NewLedger(stats.NewStore(filepath.Join(t.TempDir(), "stats.json")), nil)
}

func TestLastTrades_PrefersJournal(t *testing.T) {
	ledger := newTestLedger(t)
	ledger.AddTrade(context.Background(), "ETHUSDT", models.ResultLoss, -10)

	journal := &fakeJournal{recs: []models.TradeRecord{
		{Time: time.Now(), Symbol: "BTCUSDT", Result: models.ResultWin, ProfitRate: 30},
	}}
	c := NewCommands(nil, nil, ledger, nil, journal)

	got := c.lastTrades(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "BTCUSDT", got[0].Symbol)
}

func TestLastTrades_FallsBackToLedgerOnJournalError(t *testing.T) {
	ledger := newTestLedger(t)
	ledger.AddTrade(context.Background(), "ETHUSDT", models.ResultLoss, -10)

	c := NewCommands(nil, nil, ledger, nil, &fakeJournal{err: errors.New("pg down")})

	got := c.lastTrades(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "ETHUSDT", got[0].Symbol)
}

func TestLastTrades_NoJournal(t *testing.T) {
	ledger := newTestLedger(t)
	ledger.AddTrade(context.Background(), "BTCUSDT", models.ResultWin, 15)

	c := NewCommands(nil, nil, ledger, nil, nil)

	got := c.lastTrades(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "BTCUSDT", got[0].Symbol)
}

func TestConsume_ExitsWhenUpdatesChannelCloses(t *testing.T) {
	c := NewCommands(&Telegram{chatID: 42}, nil, newTestLedger(t), nil, nil)

	updates := make(chan tgbot.Update, 2)
	// zero-value and foreign-chat updates must be skipped, not dispatched
	updates <- tgbot.Update{}
	updates <- tgbot.Update{Message: &tgbot.Message{Chat: &tgbot.Chat{ID: 7}}}
	close(updates)

	done := make(chan struct{})
	go func() {
		c.consume(context.Background(), updates)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not return after the updates channel closed")
	}
}
