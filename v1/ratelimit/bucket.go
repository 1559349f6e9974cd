package ratelimit

import (
	"math"
	"time"

	"github.com/ragstack/core/v1/models"
)

// refill adds tokens for the wall time elapsed since the last refill.
// The refill rate equals the bucket capacity per second, so a drained
// bucket is full again after one second. Elapsed time is clamped at zero;
// clock skew backwards never drains a bucket.
func refill(bucket *models.RateLimitBucket, now time.Time) {
	if bucket.MaxTokens <= 0 {
		bucket.Tokens = float64(bucket.MaxTokens)
		bucket.LastRefill = now
		return
	}

	elapsed := now.Sub(bucket.LastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	refillRate := float64(bucket.MaxTokens)
	bucket.Tokens = math.Min(
		float64(bucket.MaxTokens),
		bucket.Tokens+elapsed*refillRate,
	)
	bucket.LastRefill = now
}

// consume refills the bucket and then attempts to take cost tokens from it.
// On rejection the bucket is left for the caller to discard (the enclosing
// transaction rolls back), so persisted tokens are never mutated by a
// failed consumption.
func consume(bucket *models.RateLimitBucket, cost float64, now time.Time) (Result, error) {
	if bucket.MaxTokens <= 0 {
		// Unlimited plan: the bucket is kept pinned at its (non-positive)
		// capacity and never blocks.
		bucket.Tokens = float64(bucket.MaxTokens)
		bucket.LastRefill = now
		return Result{
			Remaining: math.Inf(1),
			Capacity:  bucket.MaxTokens,
			ResetAt:   now,
		}, nil
	}

	refill(bucket, now)

	if bucket.Tokens < cost {
		deficit := (cost - bucket.Tokens) / float64(bucket.MaxTokens)
		return Result{
			Remaining: bucket.Tokens,
			Capacity:  bucket.MaxTokens,
			ResetAt:   bucket.LastRefill.Add(secondsToDuration(deficit)),
		}, ErrRateLimitExceeded
	}

	bucket.Tokens -= cost

	return Result{
		Remaining: bucket.Tokens,
		Capacity:  bucket.MaxTokens,
		ResetAt:   bucket.LastRefill.Add(secondsToDuration(bucket.Tokens / float64(bucket.MaxTokens))),
	}, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
