package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/plans"
	"github.com/ragstack/core/v1/postgres"
)

// Limit types understood by the limiter. Each maps to one plan QPS field.
const (
	LimitQuery  = "query"
	LimitIngest = "ingest"
)

var (
	// ErrRateLimitExceeded is returned when a bucket has insufficient
	// tokens for the requested cost. The accompanying Result carries the
	// computed reset time for a Retry-After style response.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUnsupportedLimitType is returned for limit types no plan field
	// maps to. This is a programming error, not a throttling condition.
	ErrUnsupportedLimitType = errors.New("unsupported rate limit type")
)

// Result reports the bucket state after a consumption attempt.
// Remaining is +Inf for unlimited plans.
type Result struct {
	Remaining float64
	Capacity  int
	ResetAt   time.Time
}

// Logger defines the interface for logging operations within the ratelimit package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Limiter consumes tokens from persisted per-user buckets. It is safe for
// concurrent use; serialization happens at the database row level, so
// multiple processes sharing the database throttle consistently.
type Limiter struct {
	db     *postgres.Postgres
	logger Logger

	// now is injectable for tests.
	now func() time.Time
}

// NewLimiter creates a Limiter on top of the shared Postgres wrapper.
func NewLimiter(db *postgres.Postgres, logger Logger) *Limiter {
	return &Limiter{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Consume takes cost tokens from the (userID, limitType) bucket, creating
// the bucket from the user's current plan if it does not exist yet.
//
// On rejection it returns ErrRateLimitExceeded together with a Result whose
// ResetAt says when the bucket will hold cost tokens again; the stored
// token balance is not mutated. The row lock is held only for the duration
// of this call; callers perform external I/O after it returns.
func (l *Limiter) Consume(ctx context.Context, userID uint, limitType string, cost float64) (Result, error) {
	result, err := l.consumeOnce(ctx, userID, limitType, cost)
	if errors.Is(err, postgres.ErrDuplicateKey) {
		// Lost a bucket-creation race. The aborted transaction rolled
		// everything back; the winner's row exists now, so one retry
		// takes the normal locked-read path.
		result, err = l.consumeOnce(ctx, userID, limitType, cost)
	}

	if err != nil {
		if errors.Is(err, ErrRateLimitExceeded) {
			l.logger.Debug("rate limit exceeded", nil, map[string]interface{}{
				"user_id":    userID,
				"limit_type": limitType,
				"reset_at":   result.ResetAt,
			})
		}
		return result, err
	}
	return result, nil
}

func (l *Limiter) consumeOnce(ctx context.Context, userID uint, limitType string, cost float64) (Result, error) {
	var result Result

	err := l.db.Transaction(ctx, func(tx *gorm.DB) error {
		now := l.now().UTC()

		bucket, err := l.lockBucket(tx, userID, limitType, now)
		if err != nil {
			return err
		}

		res, consumeErr := consume(bucket, cost, now)
		result = res
		if consumeErr != nil {
			// Returning the error rolls the transaction back, discarding
			// the in-memory refill along with it.
			return consumeErr
		}

		if err := tx.Save(bucket).Error; err != nil {
			return fmt.Errorf("ratelimit: persisting bucket %s for user %d: %w", limitType, userID, err)
		}
		return nil
	})

	return result, err
}

// lockBucket fetches the bucket row under an exclusive lock, creating it
// from the user's live plan when absent. A concurrent create racing on the
// unique (user_id, limit_type) constraint surfaces postgres.ErrDuplicateKey,
// which Consume handles by retrying the whole transaction.
func (l *Limiter) lockBucket(tx *gorm.DB, userID uint, limitType string, now time.Time) (*models.RateLimitBucket, error) {
	var bucket models.RateLimitBucket
	err := postgres.TranslateError(tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND limit_type = ?", userID, limitType).
		First(&bucket).Error)
	if err == nil {
		return &bucket, nil
	}
	if !errors.Is(err, postgres.ErrRecordNotFound) {
		return nil, fmt.Errorf("ratelimit: loading bucket %s for user %d: %w", limitType, userID, err)
	}

	return l.createBucket(tx, userID, limitType, now)
}

// createBucket seeds a new bucket from the user's current plan. The plan is
// looked up live inside the same transaction; a cached default here would
// survive plan upgrades and hand out stale limits.
func (l *Limiter) createBucket(tx *gorm.DB, userID uint, limitType string, now time.Time) (*models.RateLimitBucket, error) {
	plan, err := plans.ForUser(tx, userID)
	if err != nil {
		return nil, err
	}

	var maxTokens int
	switch limitType {
	case LimitQuery:
		maxTokens = plan.QueryQPSLimit
	case LimitIngest:
		maxTokens = plan.IngestQPSLimit
	default:
		return nil, fmt.Errorf("ratelimit: %q: %w", limitType, ErrUnsupportedLimitType)
	}

	bucket := models.RateLimitBucket{
		UserID:     userID,
		LimitType:  limitType,
		Tokens:     float64(maxTokens),
		LastRefill: now,
		MaxTokens:  maxTokens,
	}
	if err := tx.Create(&bucket).Error; err != nil {
		return nil, postgres.TranslateError(err)
	}

	l.logger.Info("created rate limit bucket", nil, map[string]interface{}{
		"user_id":    userID,
		"limit_type": limitType,
		"max_tokens": maxTokens,
	})
	return &bucket, nil
}
