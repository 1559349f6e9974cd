package accounting

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/postgres"
)

var (
	// ErrProjectLimitExceeded is returned when a user already owns as many
	// active projects as their plan allows. User-actionable (upgrade),
	// never retried automatically.
	ErrProjectLimitExceeded = errors.New("project limit reached for plan")

	// ErrVectorCapacityExceeded is returned when an ingest would push a
	// project past its plan's vector limit. User-actionable (upgrade),
	// never retried automatically.
	ErrVectorCapacityExceeded = errors.New("vector capacity reached for plan")
)

// EnsureProjectCapacity fails with ErrProjectLimitExceeded when the user's
// active project count has reached the plan's project limit. A limit <= 0
// means unlimited.
func EnsureProjectCapacity(tx *gorm.DB, userID uint, plan *models.Plan) error {
	if models.Unlimited(plan.ProjectLimit) {
		return nil
	}

	var count int64
	err := tx.Model(&models.Project{}).
		Where("user_id = ? AND active = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("accounting: counting projects for user %d: %w", userID, err)
	}

	if count >= int64(plan.ProjectLimit) {
		return fmt.Errorf("accounting: user %d has %d of %d projects: %w",
			userID, count, plan.ProjectLimit, ErrProjectLimitExceeded)
	}
	return nil
}

// EnsureVectorCapacity fails with ErrVectorCapacityExceeded when adding
// additional vectors would push either the project or the user's
// aggregate vector total past the plan's vector limit. The per-project
// check is skipped when project is nil; the aggregate check reads the
// user's UsageCounter through tx and is skipped when tx is nil. A limit
// <= 0 means unlimited.
func EnsureVectorCapacity(tx *gorm.DB, userID uint, plan *models.Plan, additional int64, project *models.Project) error {
	if models.Unlimited(plan.VectorLimit) {
		return nil
	}

	if project != nil && project.VectorCount+additional > int64(plan.VectorLimit) {
		return fmt.Errorf("accounting: project %s at %d of %d vectors (+%d): %w",
			project.ID, project.VectorCount, plan.VectorLimit, additional, ErrVectorCapacityExceeded)
	}

	if tx != nil {
		var usage models.UsageCounter
		err := postgres.TranslateError(tx.Where("user_id = ?", userID).First(&usage).Error)
		if err != nil && !errors.Is(err, postgres.ErrRecordNotFound) {
			return fmt.Errorf("accounting: loading usage for user %d: %w", userID, err)
		}
		if usage.TotalVectors+additional > int64(plan.VectorLimit) {
			return fmt.Errorf("accounting: user %d at %d of %d vectors (+%d): %w",
				userID, usage.TotalVectors, plan.VectorLimit, additional, ErrVectorCapacityExceeded)
		}
	}
	return nil
}

// GetUsage returns the user's usage counter, creating the row on first use.
func GetUsage(tx *gorm.DB, userID uint) (*models.UsageCounter, error) {
	var usage models.UsageCounter
	err := postgres.TranslateError(tx.Where("user_id = ?", userID).First(&usage).Error)
	if err == nil {
		return &usage, nil
	}
	if !errors.Is(err, postgres.ErrRecordNotFound) {
		return nil, fmt.Errorf("accounting: loading usage for user %d: %w", userID, err)
	}

	usage = models.UsageCounter{UserID: userID, LastReset: time.Now().UTC()}
	if err := tx.Create(&usage).Error; err != nil {
		return nil, fmt.Errorf("accounting: creating usage for user %d: %w", userID, err)
	}
	return &usage, nil
}

// IncrementUsage adds to the user's running totals. Negative deltas are not
// supported here; vector removal goes through DecrementVectorUsage so the
// zero clamp is never bypassed.
func IncrementUsage(tx *gorm.DB, userID uint, queries, ingests, vectors int64) (*models.UsageCounter, error) {
	usage, err := GetUsage(tx, userID)
	if err != nil {
		return nil, err
	}

	usage.TotalQueries += queries
	usage.TotalIngestRequests += ingests
	usage.TotalVectors += vectors

	if err := tx.Save(usage).Error; err != nil {
		return nil, fmt.Errorf("accounting: updating usage for user %d: %w", userID, err)
	}
	return usage, nil
}

// DecrementVectorUsage subtracts vectors from the user's total, clamping at
// zero. The clamp guards against double-delete races driving the counter
// negative.
func DecrementVectorUsage(tx *gorm.DB, userID uint, vectors int64) (*models.UsageCounter, error) {
	usage, err := GetUsage(tx, userID)
	if err != nil {
		return nil, err
	}

	usage.TotalVectors -= vectors
	if usage.TotalVectors < 0 {
		usage.TotalVectors = 0
	}

	if err := tx.Save(usage).Error; err != nil {
		return nil, fmt.Errorf("accounting: updating usage for user %d: %w", userID, err)
	}
	return usage, nil
}
