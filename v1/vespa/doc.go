// Package vespa is an HTTP client for the external document search engine.
//
// It speaks the engine's document API (upsert/delete by document id) and
// search API (YQL plus ranking inputs). Queries come in two variants:
//
//   - HybridQuery blends a nearest-neighbor vector clause with a lexical
//     match clause; the blend happens at ranking time through weight
//     inputs, never in the boolean filter.
//   - VectorOnlyQuery carries just the nearest-neighbor clause. It is a
//     separate type rather than a hybrid query with empty text, so the
//     vector-only path can never accidentally ship weight parameters or a
//     lexical branch.
//
// All queries are scoped to one project namespace through an escaped
// string filter plus an active=true filter. Raw hits are normalized into
// relevance-ordered results; see ParseResults for the coercion rules.
package vespa
