// Package postgres wraps GORM with connection monitoring, automatic
// reconnection and a Transaction helper.
//
// It is the single relational store for the backend: plans, subscriptions,
// usage counters, rate-limit buckets, projects and document/image rows all
// live here. Rate limiting and accounting rely on this package's
// Transaction helper so that their read-modify-write cycles commit or roll
// back together with the operation they guard.
//
// Errors returned by GORM are normalized through TranslateError so that
// callers can match on the exported sentinels (ErrRecordNotFound,
// ErrDuplicateKey, ...) without importing gorm.
package postgres
