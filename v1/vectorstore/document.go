package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ragstack/core/v1/codec"
	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/vespa"
)

// DocumentStore writes and searches the text documents of one project.
type DocumentStore struct {
	projectID string
	client    *vespa.Client
	dim       int
}

// Upsert writes one document together with its embedding. The embedding is
// reconciled to the store's transport dimension first.
func (s *DocumentStore) Upsert(ctx context.Context, document *models.ProjectDocument, embedding []float64) error {
	vector := codec.Normalise(embedding, s.dim)
	fields := map[string]interface{}{
		"project_id":  s.projectID,
		"document_id": document.ID,
		"title":       document.Title,
		"content":     document.Content,
		"metadata":    document.Metadata,
		"created_at":  documentTimestamp(document.CreatedAt, document.UpdatedAt),
		"active":      document.Active,
		"embedding":   map[string]interface{}{"values": vector},
	}

	if err := s.client.UpsertDocument(ctx, document.ExternalDocumentID, fields); err != nil {
		return fmt.Errorf("vectorstore: upsert document for project %s: %w", s.projectID, err)
	}
	return nil
}

// Delete removes one document from the engine. A document already absent
// remotely returns (false, nil).
func (s *DocumentStore) Delete(ctx context.Context, document *models.ProjectDocument) (bool, error) {
	return s.client.DeleteDocument(ctx, document.ExternalDocumentID)
}

// HybridSearch blends vector and lexical retrieval. text may be empty, in
// which case only the vector branch contributes candidates.
func (s *DocumentStore) HybridSearch(ctx context.Context, embedding []float64, vectorK, topK int, weightVector, weightText float64, text string) ([]vespa.Result, error) {
	return s.client.Search(ctx, vespa.HybridQuery{
		ProjectID:    s.projectID,
		Embedding:    codec.Normalise(embedding, s.dim),
		VectorK:      vectorK,
		TopK:         topK,
		Text:         text,
		WeightVector: weightVector,
		WeightText:   weightText,
	})
}

func documentTimestamp(createdAt, updatedAt time.Time) string {
	ts := createdAt
	if ts.IsZero() {
		ts = updatedAt
	}
	return ts.UTC().Format(time.RFC3339)
}
