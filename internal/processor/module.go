package processor

import (
	"signal_bot/internal/exchange"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/notify"
	"signal_bot/internal/stats"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("processor",
		fx.Provide(
			func(c *exchange.Client) Exchange { return c },
			func(ex Exchange, ledger *stats.Ledger, n notify.Notifier, cfg *config.Config) *Processor {
				return New(ex, ledger, n, Config{
					MaxLossRatio:   cfg.MaxLossRatio,
					MaxLeverage:    cfg.MaxLeverage,
					SafetyFraction: cfg.SafetyFraction,
					MinBalance:     cfg.MinBalance,
					MinOrderSize:   cfg.MinOrderSize,
				})
			},
		),
	)
}
