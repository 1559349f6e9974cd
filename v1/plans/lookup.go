package plans

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/postgres"
)

// ErrNoSubscription is returned when a user has no subscription row or the
// subscription's plan is missing. This signals a data-integrity problem,
// not a user-facing throttling condition.
var ErrNoSubscription = errors.New("user subscription missing")

// BySlug returns the plan with the given slug.
func BySlug(db *gorm.DB, slug string) (*models.Plan, error) {
	var plan models.Plan
	if err := db.Where("slug = ?", slug).First(&plan).Error; err != nil {
		return nil, fmt.Errorf("plans: looking up plan %q: %w", slug, postgres.TranslateError(err))
	}
	return &plan, nil
}

// ForUser resolves the effective plan for a user through their
// subscription. A live lookup is used on every call so that plan upgrades
// take effect immediately; never cache the result across requests.
func ForUser(db *gorm.DB, userID uint) (*models.Plan, error) {
	var sub models.Subscription
	err := postgres.TranslateError(db.Preload("Plan").Where("user_id = ?", userID).First(&sub).Error)
	if err != nil {
		if errors.Is(err, postgres.ErrRecordNotFound) {
			return nil, fmt.Errorf("plans: user %d: %w", userID, ErrNoSubscription)
		}
		return nil, fmt.Errorf("plans: loading subscription for user %d: %w", userID, err)
	}
	if sub.Plan.ID == 0 {
		return nil, fmt.Errorf("plans: user %d: %w", userID, ErrNoSubscription)
	}
	return &sub.Plan, nil
}

// ApplyLimits resets every rate-limit bucket owned by the user to the given
// plan's limits. Called after an up/downgrade so stale capacities do not
// linger until the next lazy bucket refresh.
func ApplyLimits(db *gorm.DB, userID uint, plan *models.Plan) error {
	var buckets []models.RateLimitBucket
	if err := db.Where("user_id = ?", userID).Find(&buckets).Error; err != nil {
		return fmt.Errorf("plans: loading buckets for user %d: %w", userID, err)
	}

	now := time.Now().UTC()
	for i := range buckets {
		bucket := &buckets[i]
		switch bucket.LimitType {
		case "query":
			bucket.MaxTokens = plan.QueryQPSLimit
		case "ingest":
			bucket.MaxTokens = plan.IngestQPSLimit
		default:
			continue
		}

		bucket.Tokens = float64(bucket.MaxTokens)
		bucket.LastRefill = now
		if err := db.Save(bucket).Error; err != nil {
			return fmt.Errorf("plans: resetting bucket %s for user %d: %w", bucket.LimitType, userID, err)
		}
	}
	return nil
}
