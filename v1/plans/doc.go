// Package plans maintains the canonical plan tiers and resolves the
// effective plan for a user.
//
// Seed is idempotent: it inserts missing tiers, updates drifted fields and
// renames legacy slugs in place so that existing subscriptions keep their
// foreign keys. Request handlers never write plans; they only read them
// through BySlug/ForUser.
package plans
