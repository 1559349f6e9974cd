package rag

import (
	"context"
	"time"

	"github.com/ragstack/core/v1/imagestorage"
	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/ratelimit"
	"github.com/ragstack/core/v1/vespa"
)

// Logger defines the interface for logging operations within the rag package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// RateLimiter consumes tokens from a user's per-operation bucket.
type RateLimiter interface {
	Consume(ctx context.Context, userID uint, limitType string, cost float64) (ratelimit.Result, error)
}

// DocumentEmbedder computes text embeddings for the document modality.
type DocumentEmbedder interface {
	EmbedDocument(ctx context.Context, title, text string) ([]float64, error)
	EmbedDocuments(ctx context.Context, titles, texts []string) ([][]float64, error)
	EmbedQuery(ctx context.Context, query string) ([]float64, error)
}

// ImageEmbedder computes embeddings for the image modality.
type ImageEmbedder interface {
	EmbedImage(ctx context.Context, data []byte) ([]float64, error)
	EmbedText(ctx context.Context, query string) ([]float64, error)
}

// DocumentSearcher is one project's view of the document store.
type DocumentSearcher interface {
	Upsert(ctx context.Context, document *models.ProjectDocument, embedding []float64) error
	Delete(ctx context.Context, document *models.ProjectDocument) (bool, error)
	HybridSearch(ctx context.Context, embedding []float64, vectorK, topK int, weightVector, weightText float64, text string) ([]vespa.Result, error)
}

// ImageSearcher is one project's view of the image store.
type ImageSearcher interface {
	Upsert(ctx context.Context, image *models.ProjectImage, embedding []float64) error
	Delete(ctx context.Context, image *models.ProjectImage) (bool, error)
	Search(ctx context.Context, embedding []float64, vectorK, topK int) ([]vespa.Result, error)
}

// StoreProvider hands out per-project stores.
type StoreProvider interface {
	DocumentStore(project *models.Project) DocumentSearcher
	ImageStore(project *models.Project) ImageSearcher
	Forget(projectID string)
}

// ObjectStorage stores image bytes outside the search engine.
type ObjectStorage interface {
	Upload(ctx context.Context, projectID string, imageID uint, data []byte, contentType, filename string) (imagestorage.StoredImage, error)
	Delete(ctx context.Context, key string) (bool, error)
	ResolveURL(ctx context.Context, key string) (string, error)
}

// Metrics is the subset of the metrics collector the request flows use.
type Metrics interface {
	IncrementQueries(modality string)
	IncrementIngests(modality string)
	IncrementRateLimitRejections(limitType string)
	RecordStoreRequestDuration(start time.Time, operation string)
}
