// Package accounting enforces plan capacity limits and maintains per-user
// usage counters.
//
// Every function takes a *gorm.DB so that callers run the check and the
// mutation it guards inside the same transaction; a downstream failure
// (for example an external store error) then rolls the counter change back
// together with the rest of the operation.
//
// Limit convention follows the plan model: a limit <= 0 means unlimited
// and the corresponding check is a no-op.
package accounting
