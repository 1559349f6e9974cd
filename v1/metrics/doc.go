// Package metrics exposes Prometheus metrics for the backend.
//
// Each service maintains its own isolated registry, wrapped with a constant
// `service` label, and serves it over a dedicated /metrics HTTP endpoint.
// Default Go, process and build-info collectors can be enabled via config.
//
// Beyond the dynamic factories (CreateCounter, CreateHistogram,
// CreateGauge), the package ships the core retrieval metrics used across
// the request flows:
//
//   - rag_queries_total{modality}            search requests served
//   - rag_ingests_total{modality}            ingest requests served
//   - rag_rate_limit_rejections_total{limit_type}
//   - rag_store_request_duration_seconds{operation}
//
// Usage with Fx:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    // other modules...
//	)
//
// Access metrics at: http://localhost:9090/metrics (METRICS_ADDRESS).
package metrics
