package embedding

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type InferenceProvider struct {
	baseURL      string
	serviceToken string
	model        string
	httpClient   *http.Client
}

func newInferenceProvider(endpoint, serviceToken, model string, timeoutSeconds int) *InferenceProvider {
	return &InferenceProvider{
		baseURL:      strings.TrimRight(endpoint, "/"),
		serviceToken: serviceToken,
		model:        model,
		httpClient:   &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

// Embed generates embeddings for the given texts using the
// OpenAI-compatible /embeddings endpoint.
func (p *InferenceProvider) Embed(ctx context.Context, texts ...string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}

	reqBody := map[string]interface{}{
		"model": p.model,
		"input": texts,
	}

	return p.embeddingsRequest(ctx, reqBody, len(texts))
}

// EmbedImage generates one embedding for raw image bytes. The bytes travel
// base64-encoded with an explicit input type so the service routes them to
// the vision tower.
func (p *InferenceProvider) EmbedImage(ctx context.Context, data []byte) ([]float64, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("inference: no image bytes provided")
	}

	reqBody := map[string]interface{}{
		"model": p.model,
		"input": []map[string]interface{}{
			{"type": "image_base64", "data": base64.StdEncoding.EncodeToString(data)},
		},
	}

	embeddings, err := p.embeddingsRequest(ctx, reqBody, 1)
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (p *InferenceProvider) embeddingsRequest(ctx context.Context, reqBody interface{}, want int) ([][]float64, error) {
	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}

	url := fmt.Sprintf("%s/embeddings", p.baseURL)
	if err := p.postJSON(ctx, url, reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != want {
		return nil, fmt.Errorf("inference: expected %d embeddings, got %d", want, len(parsed.Data))
	}

	out := make([][]float64, len(parsed.Data))
	for i, d := range parsed.Data {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("inference: empty embedding at index %d", i)
		}
		out[i] = d.Embedding
	}
	return out, nil
}
