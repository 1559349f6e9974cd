package rag

import (
	"context"
	"errors"
	"fmt"

	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/ragstack/core/v1/embedding"
	"github.com/ragstack/core/v1/events"
	"github.com/ragstack/core/v1/imagestorage"
	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/plans"
	"github.com/ragstack/core/v1/postgres"
	"github.com/ragstack/core/v1/ratelimit"
	"github.com/ragstack/core/v1/tracer"
	"github.com/ragstack/core/v1/vectorstore"
)

// Modalities, used as metric labels and event fields.
const (
	ModalityDocument = "document"
	ModalityImage    = "image"
)

// Service implements the retrieval backend's request flows.
type Service struct {
	db            *postgres.Postgres
	limiter       RateLimiter
	embedder      DocumentEmbedder
	imageEmbedder ImageEmbedder
	stores        StoreProvider
	storage       ObjectStorage
	metrics       Metrics
	publisher     *events.Publisher
	tracer        *tracer.Tracer
	logger        Logger
}

// NewService constructs the Service from the concrete platform components.
func NewService(
	db *postgres.Postgres,
	limiter *ratelimit.Limiter,
	embedder *embedding.Client,
	imageEmbedder *embedding.ImageClient,
	registry *vectorstore.Registry,
	storage *imagestorage.Storage,
	collector Metrics,
	publisher *events.Publisher,
	traceClient *tracer.Tracer,
	logger Logger,
) *Service {
	return &Service{
		db:            db,
		limiter:       limiter,
		embedder:      embedder,
		imageEmbedder: imageEmbedder,
		stores:        registryProvider{registry},
		storage:       storage,
		metrics:       collector,
		publisher:     publisher,
		tracer:        traceClient,
		logger:        logger,
	}
}

// registryProvider adapts the concrete store registry to StoreProvider.
type registryProvider struct {
	registry *vectorstore.Registry
}

func (p registryProvider) DocumentStore(project *models.Project) DocumentSearcher {
	return p.registry.DocumentStore(project)
}

func (p registryProvider) ImageStore(project *models.Project) ImageSearcher {
	return p.registry.ImageStore(project)
}

func (p registryProvider) Forget(projectID string) {
	p.registry.Forget(projectID)
}

// loadProject fetches one active project.
func (s *Service) loadProject(projectID string) (*models.Project, error) {
	var project models.Project
	err := postgres.TranslateError(s.db.DB().
		Where("id = ? AND active = ?", projectID, true).
		First(&project).Error)
	if err != nil {
		if errors.Is(err, postgres.ErrRecordNotFound) {
			return nil, fmt.Errorf("rag: project %s: %w", projectID, ErrProjectNotFound)
		}
		return nil, fmt.Errorf("rag: loading project %s: %w", projectID, err)
	}
	return &project, nil
}

// loadProjectWithPlan fetches the project and the owner's live plan.
func (s *Service) loadProjectWithPlan(projectID string) (*models.Project, *models.Plan, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, nil, err
	}

	plan, err := plans.ForUser(s.db.DB(), project.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("rag: resolving plan for user %d: %w", project.UserID, err)
	}
	return project, plan, nil
}

// consumeLimit charges the user's bucket and counts rejections.
func (s *Service) consumeLimit(ctx context.Context, userID uint, limitType string) error {
	_, err := s.limiter.Consume(ctx, userID, limitType, 1)
	if err != nil {
		if errors.Is(err, ratelimit.ErrRateLimitExceeded) {
			s.metrics.IncrementRateLimitRejections(limitType)
		}
		return err
	}
	return nil
}

// traceOperation opens a span for one request flow, tagged with the project.
func (s *Service) traceOperation(ctx context.Context, name, projectID string) (context.Context, traceSpan.Span) {
	ctx, span := s.tracer.StartSpan(ctx, name)
	s.tracer.SetAttributes(span, map[string]interface{}{"project_id": projectID})
	return ctx, span
}

// publishEvent emits one usage event; failures are logged, never returned.
func (s *Service) publishEvent(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish usage event", err, map[string]interface{}{
			"type":       event.Type,
			"user_id":    event.UserID,
			"project_id": event.ProjectID,
		})
	}
}
