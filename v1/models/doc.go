// Package models declares the GORM models shared by the backend: plan
// tiers, per-user subscriptions and usage counters, rate-limit buckets,
// and the project/document/image rows that anchor vectors stored in the
// external search engine.
//
// Ownership: a User owns its Subscription, UsageCounter, RateLimitBuckets
// and Projects; a Project owns its documents and images. Plans are shared
// reference data maintained by the seeding process in v1/plans.
package models
