package ratelimit

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/core/v1/models"
)

func newBucket(tokens float64, maxTokens int, lastRefill time.Time) *models.RateLimitBucket {
	return &models.RateLimitBucket{
		UserID:     1,
		LimitType:  LimitQuery,
		Tokens:     tokens,
		MaxTokens:  maxTokens,
		LastRefill: lastRefill,
	}
}

func TestConsume_DeductsCost(t *testing.T) {
	now := time.Now().UTC()
	bucket := newBucket(5, 5, now)

	res, err := consume(bucket, 1, now)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, bucket.Tokens, 1e-9)
	assert.InDelta(t, 4.0, res.Remaining, 1e-9)
	assert.Equal(t, 5, res.Capacity)
	assert.GreaterOrEqual(t, bucket.Tokens, 0.0)
	assert.LessOrEqual(t, bucket.Tokens, float64(bucket.MaxTokens))
}

func TestConsume_ExhaustionFailsWithoutGoingNegative(t *testing.T) {
	now := time.Now().UTC()
	bucket := newBucket(5, 5, now)

	// Drain the bucket at a single instant: no refill between calls.
	for i := 0; i < 5; i++ {
		_, err := consume(bucket, 1, now)
		require.NoError(t, err, "consumption %d should succeed", i)
	}

	res, err := consume(bucket, 1, now)
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.InDelta(t, 0.0, bucket.Tokens, 1e-9, "rejected consumption must not take tokens")
	assert.True(t, res.ResetAt.After(now), "reset time should be in the future")
}

func TestConsume_RejectionComputesResetTime(t *testing.T) {
	now := time.Now().UTC()
	bucket := newBucket(0, 10, now)

	res, err := consume(bucket, 1, now)
	require.ErrorIs(t, err, ErrRateLimitExceeded)

	// One token at 10 tokens/second is 100ms away.
	assert.WithinDuration(t, now.Add(100*time.Millisecond), res.ResetAt, time.Millisecond)
}

func TestRefill_IsMonotonicAndCapped(t *testing.T) {
	start := time.Now().UTC()

	cases := []struct {
		name    string
		tokens  float64
		elapsed time.Duration
		want    float64
	}{
		{"partial refill", 2, 100 * time.Millisecond, 2.5},
		{"full refill after one second", 0, time.Second, 5},
		{"capped at capacity", 4, 10 * time.Second, 5},
		{"zero elapsed is a no-op", 3, 0, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bucket := newBucket(tc.tokens, 5, start)
			refill(bucket, start.Add(tc.elapsed))
			assert.InDelta(t, tc.want, bucket.Tokens, 1e-9)
		})
	}
}

func TestRefill_ClockSkewBackwardsDoesNotDrain(t *testing.T) {
	start := time.Now().UTC()
	bucket := newBucket(3, 5, start)

	refill(bucket, start.Add(-time.Minute))

	assert.InDelta(t, 3.0, bucket.Tokens, 1e-9)
	assert.Equal(t, start, bucket.LastRefill, "last refill must not move backwards")
}

func TestConsume_RefillsBeforeDeciding(t *testing.T) {
	start := time.Now().UTC()
	bucket := newBucket(0, 5, start)

	// Empty now, but 200ms later one token has accrued.
	res, err := consume(bucket, 1, start.Add(200*time.Millisecond))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.Remaining, 1e-9)
}

func TestConsume_UnlimitedNeverBlocks(t *testing.T) {
	now := time.Now().UTC()

	for _, maxTokens := range []int{0, -1} {
		bucket := newBucket(0, maxTokens, now.Add(-time.Hour))

		for i := 0; i < 100; i++ {
			res, err := consume(bucket, 1, now)
			require.NoError(t, err)
			assert.True(t, math.IsInf(res.Remaining, 1))
			assert.Equal(t, maxTokens, res.Capacity)
		}

		assert.Equal(t, float64(maxTokens), bucket.Tokens, "unlimited buckets stay pinned at capacity")
	}
}

func TestConsume_FractionalCost(t *testing.T) {
	now := time.Now().UTC()
	bucket := newBucket(1, 5, now)

	res, err := consume(bucket, 0.25, now)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, res.Remaining, 1e-9)
}
