package stats

import (
	"context"
	"sync"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// TradeJournal mirrors every appended trade into an external store and reads
// the recent ones back for the operator status view.
// Best-effort: the file snapshot stays the restore source.
type TradeJournal interface {
	Insert(ctx context.Context, rec models.TradeRecord) error
	Last(ctx context.Context, n int) ([]models.TradeRecord, error)
}

// Ledger accumulates trade outcomes for the lifetime of the service.
// Monotonic except for an explicit operator Reset.
type Ledger struct {
	mu      sync.Mutex
	stats   models.TradeStats
	store   *Store
	journal TradeJournal // may be nil
}

// NewLedger restores the last snapshot if one loads, otherwise starts a
// zeroed ledger. Deserialization failure is tolerated, never fatal.
func NewLedger(store *Store, journal TradeJournal) *Ledger {
	l := &Ledger{store: store, journal: journal}

	if st, err := store.Load(); err == nil {
		l.stats = *st
		logger.Info("stats restored: total=%d wins=%d losses=%d", st.Total, st.Wins, st.Losses)
	} else {
		l.stats = models.TradeStats{StartedAt: time.Now()}
		logger.Info("stats snapshot unavailable (%v), starting fresh", err)
	}
	return l
}

func (l *Ledger) AddTrade(ctx context.Context, symbol string, result models.TradeResult, profitRate float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := models.TradeRecord{
		Time:       time.Now(),
		Symbol:     symbol,
		Result:     result,
		ProfitRate: profitRate,
	}
	l.stats.Total++
	if result == models.ResultWin {
		l.stats.Wins++
	} else {
		l.stats.Losses++
	}
	l.stats.Trades = append(l.stats.Trades, rec)

	l.persistLocked()

	if l.journal != nil {
		if err := l.journal.Insert(ctx, rec); err != nil {
			logger.Error("trade journal insert: %v", err)
		}
	}
}

// Reset zeroes everything. Only the explicit operator command calls this.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats = models.TradeStats{StartedAt: time.Now()}
	l.persistLocked()
}

// WinRate in percent; 0 on an empty ledger.
func (l *Ledger) WinRate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stats.Total == 0 {
		return 0
	}
	return float64(l.stats.Wins) / float64(l.stats.Total) * 100
}

// Snapshot returns a copy safe to read outside the lock.
func (l *Ledger) Snapshot() models.TradeStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	cp := l.stats
	cp.Trades = append([]models.TradeRecord(nil), l.stats.Trades...)
	return cp
}

// LastTrades returns up to n most recent records, oldest first.
func (l *Ledger) LastTrades(n int) []models.TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.stats.Trades) {
		n = len(l.stats.Trades)
	}
	tail := l.stats.Trades[len(l.stats.Trades)-n:]
	return append([]models.TradeRecord(nil), tail...)
}

func (l *Ledger) persistLocked() {
	if err := l.store.Save(&l.stats); err != nil {
		// persistence failure must never take the pipeline down
		logger.Error("stats snapshot write: %v", err)
	}
}
