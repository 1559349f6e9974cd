package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the embedding clients into Fx.
//
// It provides:
//   - *Config       (NewConfig)
//   - *Client       (NewClient)
//   - *ImageConfig  (NewImageConfig)
//   - *ImageClient  (NewImageClient)
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewConfig,
		NewClient,
		NewImageConfig,
		NewImageClient,
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// RegisterEmbeddingLifecycle ensures that both clients release their HTTP
// resources on application shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client, imageClient *ImageClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := client.Close(); err != nil {
				return err
			}
			return imageClient.Close()
		},
	})
}
