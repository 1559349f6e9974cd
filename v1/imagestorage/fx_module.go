package imagestorage

import "go.uber.org/fx"

// FXModule wires the image storage into Fx.
//
// It provides:
//   - Config    (NewConfig)
//   - *Storage  (NewStorage)
var FXModule = fx.Module(
	"imagestorage",

	fx.Provide(
		NewConfig,
		NewStorage,
	),
)
