// Package ratelimit implements per-user token-bucket rate limiting with
// continuous refill, persisted in Postgres.
//
// Each (user, limit type) pair owns one bucket row. The bucket's capacity
// equals the plan's QPS limit for that type, and the refill rate equals the
// capacity per second, so a drained bucket is full again after one second.
// Consumption is serialized per bucket with a pessimistic row lock
// (SELECT ... FOR UPDATE) inside a single transaction; concurrent requests
// for different users or limit types never contend.
//
// Bucket rows are created lazily on first use, seeded from a live plan
// lookup so that plan upgrades are never shadowed by a cached default. A
// user without an active subscription is a data-integrity error
// (plans.ErrNoSubscription), distinct from the user-facing
// ErrRateLimitExceeded.
package ratelimit
