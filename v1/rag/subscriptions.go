package rag

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/plans"
)

// ChangePlan moves a user's subscription onto the plan with the given slug
// and resets their rate-limit buckets to the new capacities, so the old
// limits do not linger until the next lazy bucket refresh. Both happen in
// one transaction: a user is never on the new plan with the old buckets.
func (s *Service) ChangePlan(ctx context.Context, userID uint, planSlug string) (*models.Plan, error) {
	var plan *models.Plan
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		p, err := plans.BySlug(tx, planSlug)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Subscription{}).
			Where("user_id = ?", userID).
			Update("plan_id", p.ID)
		if res.Error != nil {
			return fmt.Errorf("updating subscription for user %d: %w", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", userID, plans.ErrNoSubscription)
		}

		if err := plans.ApplyLimits(tx, userID, p); err != nil {
			return err
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rag: changing plan: %w", err)
	}

	s.logger.Info("plan changed", nil, map[string]interface{}{
		"user_id": userID,
		"plan":    plan.Slug,
	})
	return plan, nil
}
