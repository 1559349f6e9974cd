// Package vectorstore is the per-project façade over the document store.
//
// It composes the search engine client (v1/vespa) with the embedding codec
// (v1/codec) into two store flavours:
//
//   - DocumentStore: text documents with float embeddings and hybrid
//     (vector + lexical) search.
//   - ImageStore: images with binary-quantized int8 embeddings and pure
//     vector search.
//
// Both flavours silently reconcile incoming embeddings to the store's
// transport dimension by truncating or zero-padding, so projects with
// differently sized embedding models share one engine schema.
//
// Registry hands out cached store instances per project. All stores of one
// flavour share a single engine client; the per-project state is only the
// namespace filter.
package vectorstore
