package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ragstack/core/v1/accounting"
	"github.com/ragstack/core/v1/events"
	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/postgres"
	"github.com/ragstack/core/v1/ratelimit"
)

// batchIngestConcurrency bounds the parallel store upserts of one batch.
const batchIngestConcurrency = 4

// IngestDocument embeds and stores one document, then commits the local
// bookkeeping. The store upsert is compensated with a best-effort delete
// when the local transaction fails afterwards.
func (s *Service) IngestDocument(ctx context.Context, projectID string, input DocumentInput) (created *models.ProjectDocument, err error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("rag: document text: %w", ErrEmptyInput)
	}

	ctx, span := s.traceOperation(ctx, "rag.ingest_document", projectID)
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

	vector, err := s.embedder.EmbedDocument(ctx, input.Title, input.Text)
	if err != nil {
		return nil, fmt.Errorf("rag: embedding document: %w", err)
	}

	document := &models.ProjectDocument{
		ProjectID:          project.ID,
		ExternalDocumentID: newExternalID(project.ID, "doc"),
		Title:              input.Title,
		Content:            input.Text,
		Metadata:           normalizeMetadata(input.Metadata),
		Active:             true,
	}

	store := s.stores.DocumentStore(project)
	start := time.Now()
	if err := store.Upsert(ctx, document, vector); err != nil {
		return nil, err
	}
	s.metrics.RecordStoreRequestDuration(start, "upsert")

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(document).Error; err != nil {
			return fmt.Errorf("creating document row: %w", err)
		}
		if err := s.commitIngest(tx, project, 1); err != nil {
			return err
		}
		_, err := accounting.IncrementUsage(tx, project.UserID, 0, 1, 1)
		return err
	})
	if err != nil {
		s.compensateStoreUpsert(ctx, store, document)
		return nil, fmt.Errorf("rag: committing document ingest: %w", err)
	}

	s.metrics.IncrementIngests(ModalityDocument)
	s.publishEvent(ctx, events.Event{
		Type:        events.TypeIngest,
		UserID:      project.UserID,
		ProjectID:   project.ID,
		Modality:    ModalityDocument,
		VectorDelta: 1,
	})
	return document, nil
}

// IngestDocuments embeds a batch in one inference call and upserts the
// documents concurrently. The batch counts as a single ingest request
// against the rate limit; capacity is checked for the full batch up front.
// Documents upserted before a failure are compensated with store deletes.
func (s *Service) IngestDocuments(ctx context.Context, projectID string, inputs []DocumentInput) (created []*models.ProjectDocument, err error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("rag: document batch: %w", ErrEmptyInput)
	}

	ctx, span := s.traceOperation(ctx, "rag.ingest_documents", projectID)
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.SetAttributes(span, map[string]interface{}{"batch_size": len(inputs)})

	project, plan, err := s.loadProjectWithPlan(projectID)
	if err != nil {
		return nil, err
	}

	if err := accounting.EnsureVectorCapacity(s.db.DB(), project.UserID, plan, int64(len(inputs)), project); err != nil {
		return nil, err
	}
	if err := s.consumeLimit(ctx, project.UserID, ratelimit.LimitIngest); err != nil {
		return nil, err
	}

	titles := make([]string, len(inputs))
	texts := make([]string, len(inputs))
	for i, input := range inputs {
		if strings.TrimSpace(input.Text) == "" {
			return nil, fmt.Errorf("rag: document %d in batch: %w", i, ErrEmptyInput)
		}
		titles[i] = input.Title
		texts[i] = input.Text
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, titles, texts)
	if err != nil {
		return nil, fmt.Errorf("rag: embedding document batch: %w", err)
	}
	if len(vectors) != len(inputs) {
		return nil, fmt.Errorf("rag: embedding batch returned %d vectors for %d documents", len(vectors), len(inputs))
	}

	documents := make([]*models.ProjectDocument, len(inputs))
	for i, input := range inputs {
		documents[i] = &models.ProjectDocument{
			ProjectID:          project.ID,
			ExternalDocumentID: newExternalID(project.ID, "doc"),
			Title:              input.Title,
			Content:            input.Text,
			Metadata:           normalizeMetadata(input.Metadata),
			Active:             true,
		}
	}

	store := s.stores.DocumentStore(project)
	upserted := make([]bool, len(documents))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(batchIngestConcurrency)
	for i := range documents {
		group.Go(func() error {
			start := time.Now()
			if err := store.Upsert(groupCtx, documents[i], vectors[i]); err != nil {
				return err
			}
			s.metrics.RecordStoreRequestDuration(start, "upsert")
			upserted[i] = true
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		s.compensateBatch(ctx, store, documents, upserted)
		return nil, fmt.Errorf("rag: batch upsert: %w", err)
	}

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		for _, document := range documents {
			if err := tx.Create(document).Error; err != nil {
				return fmt.Errorf("creating document row: %w", err)
			}
		}
		if err := s.commitIngest(tx, project, int64(len(documents))); err != nil {
			return err
		}
		_, err := accounting.IncrementUsage(tx, project.UserID, 0, 1, int64(len(documents)))
		return err
	})
	if err != nil {
		s.compensateBatch(ctx, store, documents, upserted)
		return nil, fmt.Errorf("rag: committing batch ingest: %w", err)
	}

	s.metrics.IncrementIngests(ModalityDocument)
	s.publishEvent(ctx, events.Event{
		Type:        events.TypeIngest,
		UserID:      project.UserID,
		ProjectID:   project.ID,
		Modality:    ModalityDocument,
		VectorDelta: int64(len(documents)),
	})
	return documents, nil
}

// DeleteDocument removes one document from the store and soft-deletes the
// local row. A document already gone remotely still clears the local state,
// so a delete racing a previous delete converges instead of failing.
func (s *Service) DeleteDocument(ctx context.Context, projectID, externalDocumentID string) (err error) {
	ctx, span := s.traceOperation(ctx, "rag.delete_document", projectID)
	defer func() { s.tracer.EndSpan(span, err) }()

	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}

	var document models.ProjectDocument
	err = postgres.TranslateError(s.db.DB().
		Where("project_id = ? AND external_document_id = ? AND active = ?", project.ID, externalDocumentID, true).
		First(&document).Error)
	if err != nil {
		if errors.Is(err, postgres.ErrRecordNotFound) {
			return fmt.Errorf("rag: document %s: %w", externalDocumentID, ErrDocumentNotFound)
		}
		return fmt.Errorf("rag: loading document %s: %w", externalDocumentID, err)
	}

	store := s.stores.DocumentStore(project)
	start := time.Now()
	deleted, err := store.Delete(ctx, &document)
	if err != nil {
		return err
	}
	s.metrics.RecordStoreRequestDuration(start, "delete")
	if !deleted {
		s.logger.Warn("document already absent from store", nil, map[string]interface{}{
			"project_id":  project.ID,
			"external_id": document.ExternalDocumentID,
		})
	}

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&document).Update("active", false).Error; err != nil {
			return fmt.Errorf("deactivating document row: %w", err)
		}
		if err := s.commitVectorRemoval(tx, project, 1); err != nil {
			return err
		}
		_, err := accounting.DecrementVectorUsage(tx, project.UserID, 1)
		return err
	})
	if err != nil {
		return fmt.Errorf("rag: committing document delete: %w", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.TypeDelete,
		UserID:      project.UserID,
		ProjectID:   project.ID,
		Modality:    ModalityDocument,
		VectorDelta: -1,
	})
	return nil
}

// Query runs a hybrid search over one project.
func (s *Service) Query(ctx context.Context, projectID string, input QueryInput) (results []QueryResult, err error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("rag: query text: %w", ErrEmptyInput)
	}

	ctx, span := s.traceOperation(ctx, "rag.query", projectID)
	defer func() { s.tracer.EndSpan(span, err) }()

	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := s.consumeLimit(ctx, project.UserID, ratelimit.LimitQuery); err != nil {
		return nil, err
	}

	vector, err := s.embedder.EmbedQuery(ctx, input.Query)
	if err != nil {
		return nil, fmt.Errorf("rag: embedding query: %w", err)
	}

	topK, vectorK := resolveSearchParams(project, input)

	store := s.stores.DocumentStore(project)
	start := time.Now()
	hits, err := store.HybridSearch(ctx, vector, vectorK, topK,
		project.HybridWeightVector, project.HybridWeightText, input.Query)
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

	s.metrics.IncrementQueries(ModalityDocument)
	s.publishEvent(ctx, events.Event{
		Type:      events.TypeQuery,
		UserID:    project.UserID,
		ProjectID: project.ID,
		Modality:  ModalityDocument,
	})
	return mapResults(hits), nil
}

// commitIngest updates the project's vector count and ingest timestamp
// inside the caller's transaction.
func (s *Service) commitIngest(tx *gorm.DB, project *models.Project, added int64) error {
	now := time.Now().UTC()
	err := tx.Model(project).Updates(map[string]interface{}{
		"vector_count":   gorm.Expr("vector_count + ?", added),
		"last_ingest_at": now,
	}).Error
	if err != nil {
		return fmt.Errorf("updating project vector count: %w", err)
	}
	return nil
}

// commitVectorRemoval decrements the project's vector count, clamped at 0.
func (s *Service) commitVectorRemoval(tx *gorm.DB, project *models.Project, removed int64) error {
	err := tx.Model(project).
		Update("vector_count", gorm.Expr("GREATEST(vector_count - ?, 0)", removed)).Error
	if err != nil {
		return fmt.Errorf("decrementing project vector count: %w", err)
	}
	return nil
}

func (s *Service) compensateStoreUpsert(ctx context.Context, store DocumentSearcher, document *models.ProjectDocument) {
	if _, err := store.Delete(ctx, document); err != nil {
		s.logger.Error("failed to compensate store upsert", err, map[string]interface{}{
			"external_id": document.ExternalDocumentID,
		})
	}
}

func (s *Service) compensateBatch(ctx context.Context, store DocumentSearcher, documents []*models.ProjectDocument, upserted []bool) {
	for i, document := range documents {
		if upserted[i] {
			s.compensateStoreUpsert(ctx, store, document)
		}
	}
}
