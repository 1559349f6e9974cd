package vectorstore

import (
	"go.uber.org/fx"

	"github.com/ragstack/core/v1/vespa"
)

// FXModule wires the vector store façade into Fx.
//
// It provides:
//   - Config     (NewConfig)
//   - *Registry  (New)
var FXModule = fx.Module(
	"vectorstore",

	fx.Provide(
		NewConfig,
		New,
	),
)

// New constructs the Registry together with its two engine clients: one for
// the document schema and one for the image schema.
func New(cfg Config, logger Logger) (*Registry, error) {
	documentClient, err := vespa.NewClient(vespa.NewConfig(), logger)
	if err != nil {
		return nil, err
	}

	imageClient, err := vespa.NewClient(vespa.NewImageConfig(), logger)
	if err != nil {
		return nil, err
	}

	return NewRegistry(cfg, documentClient, imageClient, logger)
}
