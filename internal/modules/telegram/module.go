package telegram

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/telegram/service"
	"signal_bot/internal/notify"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// Sink first: the processor depends on notify.Notifier only, so the
		// command loop can depend on the processor without a cycle.
		fx.Provide(
			func(cfg *config.Config) *service.Telegram {
				if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
					return nil
				}
				t, err := service.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
				if err != nil {
					logger.Error("telegram init failed, falling back to stdout: %v", err)
					return nil
				}
				return t
			},
			func(t *service.Telegram) notify.Notifier {
				if t == nil {
					return notify.NewStdout()
				}
				return t
			},
			service.NewCommands,
		),
		fx.Invoke(
			func(lc fx.Lifecycle, c *service.Commands, ctx context.Context) {
				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						c.Start(ctx)
						return nil
					},
					OnStop: func(_ context.Context) error {
						c.Stop()
						return nil
					},
				})
			},
		),
	)
}
