package vectorstore

import (
	"context"
	"fmt"

	"github.com/ragstack/core/v1/codec"
	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/vespa"
)

// ImageStore writes and searches the images of one project. Embeddings are
// binary-quantized: the float source vector is packed to one sign bit per
// dimension and shipped as int8 bytes, an 8x transport saving.
type ImageStore struct {
	projectID string
	client    *vespa.Client
	packer    *codec.BitPacker
}

// Upsert writes one image record together with its packed embedding. The
// image bytes themselves stay in object storage; only the embedding and
// lookup metadata go to the engine.
func (s *ImageStore) Upsert(ctx context.Context, image *models.ProjectImage, embedding []float64) error {
	fields := map[string]interface{}{
		"project_id":   s.projectID,
		"image_id":     image.ID,
		"storage_key":  image.StorageKey,
		"content_type": image.ContentType,
		"metadata":     image.Metadata,
		"created_at":   documentTimestamp(image.CreatedAt, image.UpdatedAt),
		"active":       image.Active,
		"embedding":    map[string]interface{}{"values": s.pack(embedding)},
	}

	if err := s.client.UpsertDocument(ctx, image.ExternalDocumentID, fields); err != nil {
		return fmt.Errorf("vectorstore: upsert image for project %s: %w", s.projectID, err)
	}
	return nil
}

// Delete removes one image record from the engine. An already-absent record
// returns (false, nil).
func (s *ImageStore) Delete(ctx context.Context, image *models.ProjectImage) (bool, error) {
	return s.client.DeleteDocument(ctx, image.ExternalDocumentID)
}

// Search runs pure vector retrieval over the packed embedding space. The
// query embedding goes through the same quantization as stored ones, so
// distances are computed bit-to-bit.
func (s *ImageStore) Search(ctx context.Context, embedding []float64, vectorK, topK int) ([]vespa.Result, error) {
	return s.client.Search(ctx, vespa.VectorOnlyQuery{
		ProjectID: s.projectID,
		Embedding: s.pack(embedding),
		VectorK:   vectorK,
		TopK:      topK,
	})
}

// pack quantizes a float embedding into the transport representation:
// normalise to the source dimension, then one sign bit per dimension,
// serialized as numbers for the JSON body.
func (s *ImageStore) pack(embedding []float64) []float64 {
	packed := s.packer.PackBits(codec.Normalise(embedding, s.packer.Dim()))
	out := make([]float64, len(packed))
	for i, b := range packed {
		out[i] = float64(b)
	}
	return out
}
