package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides the tracer to the dependency injection container and
// flushes pending spans on shutdown.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewConfig,
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle shuts the tracer provider down when the
// application stops so batched spans reach the exporter.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer, logger Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down tracer", nil)
			if tracer == nil || tracer.tracer == nil {
				return nil
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
