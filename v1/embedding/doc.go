// Package embedding provides clients for computing text and image
// embeddings through an OpenAI-compatible inference service.
//
// # Overview
//
// Two clients are exposed:
//
//   - Client computes text embeddings for the document modality. It applies
//     the task prefixes the retrieval models are trained with
//     ("search_document: " for ingested content, "search_query: " for
//     queries), so callers never deal with prompt formatting.
//
//   - ImageClient computes embeddings for the image modality: raw image
//     bytes for ingest, plain text for cross-modal queries. Image queries
//     take no task prefix.
//
// Both clients hide HTTP details, endpoint paths and authentication behind
// a minimal API and are safe for concurrent use.
//
// # Configuration
//
// Configuration is sourced from environment variables:
//
//   - EMBEDDING_ENDPOINT / EMBEDDING_SERVICE_TOKEN / EMBEDDING_MODEL for
//     the text client (EMBEDDING_HTTP_TIMEOUT_SECONDS optional).
//   - IMAGE_EMBEDDING_ENDPOINT / IMAGE_EMBEDDING_SERVICE_TOKEN /
//     IMAGE_EMBEDDING_MODEL for the image client.
//
// # Dependency Injection (Fx)
//
// FXModule supplies both configs and both clients and registers lifecycle
// hooks to release HTTP resources on shutdown.
package embedding
