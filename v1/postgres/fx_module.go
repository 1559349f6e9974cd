package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

var FXModule = fx.Module("postgres",
	fx.Provide(
		NewConfig,
		NewPostgres,
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

func RegisterPostgresLifecycle(lifecycle fx.Lifecycle, postgres *Postgres, logger Logger) {
	wg := &sync.WaitGroup{}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				postgres.MonitorConnection(context.Background())
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				postgres.RetryConnection(context.Background(), logger)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := postgres.GracefulShutdown(); err != nil {
				return err
			}
			wg.Wait()
			return nil
		},
	})
}
