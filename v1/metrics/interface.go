package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector provides an interface for collecting and exposing application
// metrics. It abstracts Prometheus metric operations with support for
// counters, histograms, and gauges.
//
// This interface is implemented by the concrete *Metrics type.
type Collector interface {
	// Core metric methods

	// IncrementQueries increments the query counter for a modality.
	IncrementQueries(modality string)

	// IncrementIngests increments the ingest counter for a modality.
	IncrementIngests(modality string)

	// IncrementRateLimitRejections counts one rejected request per limit type.
	IncrementRateLimitRejections(limitType string)

	// RecordStoreRequestDuration records the duration (in seconds) of one
	// document store operation.
	RecordStoreRequestDuration(start time.Time, operation string)

	// Dynamic metric factories

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
