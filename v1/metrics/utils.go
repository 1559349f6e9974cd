package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementQueries increments the query counter for a modality.
// Example: metrics.IncrementQueries("document")
func (m *Metrics) IncrementQueries(modality string) {
	m.queriesTotal.WithLabelValues(modality).Inc()
}

// IncrementIngests increments the ingest counter for a modality.
func (m *Metrics) IncrementIngests(modality string) {
	m.ingestsTotal.WithLabelValues(modality).Inc()
}

// IncrementRateLimitRejections counts one rejected request per limit type.
func (m *Metrics) IncrementRateLimitRejections(limitType string) {
	m.rateLimitRejections.WithLabelValues(limitType).Inc()
}

// RecordStoreRequestDuration records the duration (in seconds) of one
// document store operation.
// Example: defer metrics.RecordStoreRequestDuration(time.Now(), "search")
func (m *Metrics) RecordStoreRequestDuration(start time.Time, operation string) {
	duration := time.Since(start).Seconds()
	m.storeRequestDuration.WithLabelValues(operation).Observe(duration)
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}

// createCounterVec defines a new CounterVec with standard options.
// Used internally by NewMetrics to maintain consistency.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
// Used internally by NewMetrics for latency tracking.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

// createGaugeVec defines a new GaugeVec safely for resource monitoring.
func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
