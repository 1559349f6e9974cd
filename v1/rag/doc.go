// Package rag orchestrates the retrieval backend's request flows: document
// and image ingest, deletion, and hybrid/vector queries.
//
// Every flow follows the same shape:
//
//  1. Load the project and the owner's live plan.
//  2. Enforce capacity and the token-bucket rate limit. The limit is
//     consumed in a short transaction of its own, so no row lock is held
//     across external calls.
//  3. Perform external work: embedding inference, object storage, the
//     document store.
//  4. Commit the local bookkeeping (counters, rows) in one transaction.
//
// External side effects that precede a failed local commit are compensated
// best-effort: an uploaded image object is deleted again, a committed store
// upsert is rolled back with a store delete. Compensation failures are
// logged, never propagated.
//
// Usage events and metrics are emitted only after an operation fully
// succeeds, with the exception of rate-limit rejections, which are counted
// where they happen.
package rag
