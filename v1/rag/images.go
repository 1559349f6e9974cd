package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ragstack/core/v1/accounting"
	"github.com/ragstack/core/v1/events"
	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/postgres"
	"github.com/ragstack/core/v1/ratelimit"
)

// IngestImage uploads the image bytes to object storage, embeds them and
// writes the record to the store. The object is uploaded first because it
// is the cheapest step to compensate: any later failure deletes it again.
func (s *Service) IngestImage(ctx context.Context, projectID string, input ImageInput) (created *models.ProjectImage, err error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("rag: image bytes: %w", ErrEmptyInput)
	}

	ctx, span := s.traceOperation(ctx, "rag.ingest_image", projectID)
	defer func() { s.tracer.EndSpan(span, err) }()

	project, plan, err := s.loadProjectWithPlan(projectID)
	if err != nil {
		return nil, err
	}

	if err := accounting.EnsureVectorCapacity(s.db.DB(), project.UserID, plan, 1, project); err != nil {
		return nil, err
	}
	if err := s.consumeLimit(ctx, project.UserID, ratelimit.LimitIngest); err != nil {
		return nil, err
	}

	// The row is created inactive first so the object key can carry its id;
	// it only becomes visible once everything else succeeded. The storage
	// key starts as a unique placeholder because the column is uniquely
	// indexed and the real key needs the row id.
	externalID := newExternalID(project.ID, "img")
	image := &models.ProjectImage{
		ProjectID:          project.ID,
		ExternalDocumentID: externalID,
		StorageKey:         "pending/" + externalID,
		ContentType:        input.ContentType,
		Metadata:           normalizeMetadata(input.Metadata),
		Active:             false,
	}
	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(image).Error
	})
	if err != nil {
		return nil, fmt.Errorf("rag: creating image row: %w", err)
	}

	stored, err := s.storage.Upload(ctx, project.ID, image.ID, input.Data, input.ContentType, input.Filename)
	if err != nil {
		s.discardImageRow(ctx, image)
		return nil, fmt.Errorf("rag: uploading image: %w", err)
	}
	image.StorageKey = stored.Key

	vector, err := s.imageEmbedder.EmbedImage(ctx, input.Data)
	if err != nil {
		s.compensateImageIngest(ctx, nil, image)
		return nil, fmt.Errorf("rag: embedding image: %w", err)
	}

	store := s.stores.ImageStore(project)
	start := time.Now()
	if err := store.Upsert(ctx, image, vector); err != nil {
		s.compensateImageIngest(ctx, nil, image)
		return nil, err
	}
	s.metrics.RecordStoreRequestDuration(start, "upsert")

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		err := tx.Model(image).Updates(map[string]interface{}{
			"storage_key": image.StorageKey,
			"active":      true,
		}).Error
		if err != nil {
			return fmt.Errorf("activating image row: %w", err)
		}
		if err := s.commitIngest(tx, project, 1); err != nil {
			return err
		}
		_, err = accounting.IncrementUsage(tx, project.UserID, 0, 1, 1)
		return err
	})
	if err != nil {
		s.compensateImageIngest(ctx, store, image)
		return nil, fmt.Errorf("rag: committing image ingest: %w", err)
	}
	image.Active = true

	s.metrics.IncrementIngests(ModalityImage)
	s.publishEvent(ctx, events.Event{
		Type:        events.TypeIngest,
		UserID:      project.UserID,
		ProjectID:   project.ID,
		Modality:    ModalityImage,
		VectorDelta: 1,
	})
	return image, nil
}

// DeleteImage removes the store record and the object, then soft-deletes
// the row. A failing object delete is logged but does not keep the image
// alive: the record is gone from search either way.
func (s *Service) DeleteImage(ctx context.Context, projectID string, imageID uint) (err error) {
	ctx, span := s.traceOperation(ctx, "rag.delete_image", projectID)
	defer func() { s.tracer.EndSpan(span, err) }()

	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}

	var image models.ProjectImage
	err = postgres.TranslateError(s.db.DB().
		Where("project_id = ? AND id = ? AND active = ?", project.ID, imageID, true).
		First(&image).Error)
	if err != nil {
		if errors.Is(err, postgres.ErrRecordNotFound) {
			return fmt.Errorf("rag: image %d: %w", imageID, ErrImageNotFound)
		}
		return fmt.Errorf("rag: loading image %d: %w", imageID, err)
	}

	store := s.stores.ImageStore(project)
	start := time.Now()
	deleted, err := store.Delete(ctx, &image)
	if err != nil {
		return err
	}
	s.metrics.RecordStoreRequestDuration(start, "delete")
	if !deleted {
		s.logger.Warn("image record already absent from store", nil, map[string]interface{}{
			"project_id":  project.ID,
			"external_id": image.ExternalDocumentID,
		})
	}

	if _, err := s.storage.Delete(ctx, image.StorageKey); err != nil {
		s.logger.Error("failed to delete image object", err, map[string]interface{}{
			"storage_key": image.StorageKey,
		})
	}

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&image).Update("active", false).Error; err != nil {
			return fmt.Errorf("deactivating image row: %w", err)
		}
		if err := s.commitVectorRemoval(tx, project, 1); err != nil {
			return err
		}
		_, err := accounting.DecrementVectorUsage(tx, project.UserID, 1)
		return err
	})
	if err != nil {
		return fmt.Errorf("rag: committing image delete: %w", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.TypeDelete,
		UserID:      project.UserID,
		ProjectID:   project.ID,
		Modality:    ModalityImage,
		VectorDelta: -1,
	})
	return nil
}

// QueryImagesByText retrieves images for a text query via the shared
// cross-modal embedding space.
func (s *Service) QueryImagesByText(ctx context.Context, projectID string, input QueryInput) ([]ImageQueryResult, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("rag: image query text: %w", ErrEmptyInput)
	}

	return s.queryImages(ctx, projectID, input, func(ctx context.Context) ([]float64, error) {
		return s.imageEmbedder.EmbedText(ctx, input.Query)
	})
}

// QueryImagesByImage retrieves images similar to the given image bytes.
func (s *Service) QueryImagesByImage(ctx context.Context, projectID string, data []byte, input QueryInput) ([]ImageQueryResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("rag: image query bytes: %w", ErrEmptyInput)
	}

	return s.queryImages(ctx, projectID, input, func(ctx context.Context) ([]float64, error) {
		return s.imageEmbedder.EmbedImage(ctx, data)
	})
}

func (s *Service) queryImages(ctx context.Context, projectID string, input QueryInput, embed func(context.Context) ([]float64, error)) (res []ImageQueryResult, err error) {
	ctx, span := s.traceOperation(ctx, "rag.query_images", projectID)
	defer func() { s.tracer.EndSpan(span, err) }()

	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := s.consumeLimit(ctx, project.UserID, ratelimit.LimitQuery); err != nil {
		return nil, err
	}

	vector, err := embed(ctx)
	if err != nil {
		return nil, fmt.Errorf("rag: embedding image query: %w", err)
	}

	topK, vectorK := resolveSearchParams(project, input)

	store := s.stores.ImageStore(project)
	start := time.Now()
	hits, err := store.Search(ctx, vector, vectorK, topK)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordStoreRequestDuration(start, "search")

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		_, err := accounting.IncrementUsage(tx, project.UserID, 1, 0, 0)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rag: recording query usage: %w", err)
	}

	results := make([]ImageQueryResult, 0, len(hits))
	for _, hit := range hits {
		result := ImageQueryResult{
			Score:       hit.Relevance,
			StorageKey:  stringField(hit.Fields, "storage_key"),
			ContentType: stringField(hit.Fields, "content_type"),
			Metadata:    stringField(hit.Fields, "metadata"),
		}
		if result.StorageKey != "" {
			url, err := s.storage.ResolveURL(ctx, result.StorageKey)
			if err != nil {
				s.logger.Warn("failed to resolve image URL", err, map[string]interface{}{
					"storage_key": result.StorageKey,
				})
			} else {
				result.URL = url
			}
		}
		results = append(results, result)
	}

	s.metrics.IncrementQueries(ModalityImage)
	s.publishEvent(ctx, events.Event{
		Type:      events.TypeQuery,
		UserID:    project.UserID,
		ProjectID: project.ID,
		Modality:  ModalityImage,
	})
	return results, nil
}

// discardImageRow hard-deletes a never-activated image row.
func (s *Service) discardImageRow(ctx context.Context, image *models.ProjectImage) {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Delete(image).Error
	})
	if err != nil {
		s.logger.Error("failed to discard image row", err, map[string]interface{}{
			"image_id": image.ID,
		})
	}
}

// compensateImageIngest undoes the external side effects of a failed image
// ingest: the uploaded object, the store record when already written, and
// the inactive row.
func (s *Service) compensateImageIngest(ctx context.Context, store ImageSearcher, image *models.ProjectImage) {
	if image.StorageKey != "" {
		if _, err := s.storage.Delete(ctx, image.StorageKey); err != nil {
			s.logger.Error("failed to compensate image upload", err, map[string]interface{}{
				"storage_key": image.StorageKey,
			})
		}
	}
	if store != nil {
		if _, err := store.Delete(ctx, image); err != nil {
			s.logger.Error("failed to compensate image store upsert", err, map[string]interface{}{
				"external_id": image.ExternalDocumentID,
			})
		}
	}
	s.discardImageRow(ctx, image)
}
