package webhook

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/webhook/service"
	"signal_bot/internal/processor"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("webhook",
		fx.Provide(
			func(cfg *config.Config, proc *processor.Processor) *service.Server {
				return service.NewServer(cfg.Service.Host, cfg.Service.Port, proc)
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, s *service.Server) {
				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						s.Start()
						return nil
					},
					OnStop: func(ctx context.Context) error {
						return s.Stop(ctx)
					},
				})
			},
		),
	)
}
