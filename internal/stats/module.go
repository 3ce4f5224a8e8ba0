package stats

import (
	"signal_bot/internal/modules/config"
	"signal_bot/internal/stats/pg"
	"signal_bot/pkg/db"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("stats",
		fx.Provide(
			func(cfg *config.Config) *Store {
				return NewStore(cfg.StatsFile)
			},
			func(m *db.PgTxManager) TradeJournal {
				if m == nil {
					return nil
				}
				return pg.NewTrades(m)
			},
			NewLedger,
		),
	)
}
