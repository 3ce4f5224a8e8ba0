package pg

import (
	"context"
	"fmt"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Trades keeps an append-only journal of settled trades in Postgres, next to
// the file snapshot the ledger restores from.
type Trades struct {
	db db.TxManager
}

// NewTrades instance
func NewTrades(m db.TxManager) *Trades {
	return &Trades{db: m}
}

const insertTradeSQL = `
INSERT INTO trades (ts, symbol, result, profit_rate)
VALUES ($1, $2, $3, $4)`

func (t *Trades) Insert(ctx context.Context, rec models.TradeRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Trades.Insert: %w", err)
		}
	}()
	return t.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertTradeSQL, rec.Time, rec.Symbol, string(rec.Result), rec.ProfitRate)
		return err
	})
}

const selectLastSQL = `
SELECT ts, symbol, result, profit_rate
FROM trades ORDER BY ts DESC LIMIT $1`

// Last returns up to n most recent journal rows, oldest first, matching the
// order the in-memory ledger reports.
func (t *Trades) Last(ctx context.Context, n int) (recs []models.TradeRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Trades.Last: %w", err)
		}
	}()
	err = t.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx, selectLastSQL, n)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rec models.TradeRecord
			var result string
			if err := rows.Scan(&rec.Time, &rec.Symbol, &result, &rec.ProfitRate); err != nil {
				return err
			}
			rec.Result = models.TradeResult(result)
			recs = append(recs, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}
