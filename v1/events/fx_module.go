package events

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the usage event publisher into Fx.
//
// It provides:
//   - Config      (NewConfig)
//   - *Publisher  (NewPublisher)
var FXModule = fx.Module(
	"events",

	fx.Provide(
		NewConfig,
		NewPublisher,
	),

	fx.Invoke(RegisterPublisherLifecycle),
)

// RegisterPublisherLifecycle closes the broker connection on shutdown.
func RegisterPublisherLifecycle(lc fx.Lifecycle, publisher *Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.GracefulShutdown()
		},
	})
}
