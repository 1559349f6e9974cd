package embedding

import (
	"context"
	"fmt"
	"strings"
)

// ImageClient computes embeddings for the image modality. Images and text
// queries embed into one shared space, so a text query can retrieve images
// directly. Unlike the document models, the image model takes no task
// prefix.
type ImageClient struct {
	provider *InferenceProvider
}

// NewImageClient constructs an ImageClient from ImageConfig.
func NewImageClient(cfg *ImageConfig) (*ImageClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	return &ImageClient{
		provider: newInferenceProvider(cfg.Endpoint, cfg.ServiceToken, cfg.Model, cfg.HTTPTimeoutS),
	}, nil
}

// EmbedImage computes the embedding for raw image bytes.
func (c *ImageClient) EmbedImage(ctx context.Context, data []byte) ([]float64, error) {
	return c.provider.EmbedImage(ctx, data)
}

// EmbedText computes the embedding for a cross-modal text query.
func (c *ImageClient) EmbedText(ctx context.Context, query string) ([]float64, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("embedding: image text query cannot be empty")
	}

	embeddings, err := c.provider.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Close releases the underlying HTTP resources.
func (c *ImageClient) Close() error {
	c.provider.httpClient.CloseIdleConnections()
	return nil
}
