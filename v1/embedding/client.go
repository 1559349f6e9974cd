package embedding

import (
	"context"
	"fmt"
	"strings"
)

// Task prefixes the retrieval models are trained with. Documents and
// queries embed into the same space but through different prompts.
const (
	documentPrefix = "search_document: "
	queryPrefix    = "search_query: "
)

// Client is the public entrypoint for computing text embeddings.
//
// It hides all provider details (inference endpoints, HTTP, prompt
// formatting) from the application layer.
type Client struct {
	provider Provider
}

// NewClient constructs a Client from Config.
// Application code should depend on *Client, not on Provider.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	return &Client{
		provider: newInferenceProvider(cfg.Endpoint, cfg.ServiceToken, cfg.Model, cfg.HTTPTimeoutS),
	}, nil
}

// EmbedDocument computes the embedding for one document to be ingested.
// Title and body are joined into a single prompt; an empty title is skipped.
func (c *Client) EmbedDocument(ctx context.Context, title, text string) ([]float64, error) {
	embeddings, err := c.provider.Embed(ctx, documentPrompt(title, text))
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedDocuments computes embeddings for a batch of documents in one
// request. The result order matches the input order.
func (c *Client) EmbedDocuments(ctx context.Context, titles, texts []string) ([][]float64, error) {
	if len(titles) != len(texts) {
		return nil, fmt.Errorf("embedding: %d titles for %d texts", len(titles), len(texts))
	}

	prompts := make([]string, len(texts))
	for i := range texts {
		prompts[i] = documentPrompt(titles[i], texts[i])
	}
	return c.provider.Embed(ctx, prompts...)
}

// EmbedQuery computes the embedding for a search query.
func (c *Client) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	embeddings, err := c.provider.Embed(ctx, queryPrefix+query)
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Close allows the client to release any internal resources used by the provider.
// Currently this is a no-op unless the provider implements Close().
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func documentPrompt(title, text string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return documentPrefix + text
	}
	return documentPrefix + title + "\n" + text
}
