// Package tracer configures OpenTelemetry distributed tracing.
//
// The request flows open one span per operation, tagged with the project
// id, so ingest and query latency can be broken down across the embedding
// call, the store round trip and the local transaction. Export via OTLP
// HTTP is opt-in; with export disabled the provider still records spans
// locally and callers never need a nil check.
package tracer
