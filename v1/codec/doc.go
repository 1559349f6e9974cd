// Package codec prepares embedding vectors for transport to the external
// search engine.
//
// Normalise reconciles a vector with the engine's configured dimension by
// keeping the leading components (Matryoshka-style embeddings stay valid
// under prefix truncation) or zero-padding. BitPacker additionally
// quantizes a vector to one sign bit per component, packed eight to a
// signed byte, which is the layout the engine's int8 tensor fields expect.
package codec
