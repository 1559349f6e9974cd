package embedding

import "context"

// Provider contract
type Provider interface {
	// Embed generates one embedding per input text, in order.
	Embed(ctx context.Context, texts ...string) ([][]float64, error)
}
