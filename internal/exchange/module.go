package exchange

import (
	"signal_bot/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func(cfg *config.Config) *Client {
				return NewClient(Credentials{
					APIKey:     cfg.Bitget.APIKey,
					APISecret:  cfg.Bitget.APISecret,
					Passphrase: cfg.Bitget.Passphrase,
					BaseURL:    cfg.Bitget.BaseURL,
				})
			},
		),
	)
}
