package rag

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ragstack/core/v1/accounting"
	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/plans"
)

// Fallbacks for search parameters not set at provisioning time.
const (
	defaultTopK          = 10
	defaultVectorSearchK = 50
	defaultHybridWeight  = 0.5
)

// CreateProject provisions a retrieval namespace for a user. The plan's
// project limit is enforced in the same transaction that inserts the row,
// so two concurrent provisions cannot both slip under the cap.
func (s *Service) CreateProject(ctx context.Context, userID uint, input ProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("rag: project name: %w", ErrEmptyInput)
	}
	if input.EmbeddingDim <= 0 {
		return nil, fmt.Errorf("rag: project %q: embedding dimension must be positive", input.Name)
	}

	project := &models.Project{
		UserID:             userID,
		Name:               input.Name,
		Description:        input.Description,
		EmbeddingProvider:  input.EmbeddingProvider,
		EmbeddingModel:     input.EmbeddingModel,
		EmbeddingDim:       input.EmbeddingDim,
		HybridWeightVector: input.HybridWeightVector,
		HybridWeightText:   input.HybridWeightText,
		TopKDefault:        input.TopKDefault,
		VectorSearchK:      input.VectorSearchK,
		IngestKeyHash:      input.IngestKeyHash,
		Active:             true,
	}
	if project.HybridWeightVector == 0 && project.HybridWeightText == 0 {
		project.HybridWeightVector = defaultHybridWeight
		project.HybridWeightText = defaultHybridWeight
	}
	if project.TopKDefault <= 0 {
		project.TopKDefault = defaultTopK
	}
	if project.VectorSearchK <= 0 {
		project.VectorSearchK = defaultVectorSearchK
	}

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		plan, err := plans.ForUser(tx, userID)
		if err != nil {
			return fmt.Errorf("resolving plan for user %d: %w", userID, err)
		}
		if err := accounting.EnsureProjectCapacity(tx, userID, plan); err != nil {
			return err
		}
		return tx.Create(project).Error
	})
	if err != nil {
		return nil, fmt.Errorf("rag: creating project: %w", err)
	}

	s.logger.Info("project created", nil, map[string]interface{}{
		"project_id": project.ID,
		"user_id":    userID,
	})
	return project, nil
}

// DeactivateProject soft-deletes a project. Vectors in the store stay put
// but become unreachable: every flow filters on active projects, and the
// store queries filter on the project id, so the namespace simply stops
// being served. Usage counters keep the project's vectors until they are
// deleted individually.
func (s *Service) DeactivateProject(ctx context.Context, projectID string) error {
	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Model(project).Update("active", false).Error
	})
	if err != nil {
		return fmt.Errorf("rag: deactivating project %s: %w", projectID, err)
	}

	s.stores.Forget(projectID)
	return nil
}
