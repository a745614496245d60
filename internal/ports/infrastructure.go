package ports

import "time"

//go:generate mockgen -source=infrastructure.go -destination=mocks/mock_metrics_collector.go -package=mocks

// MetricsCollector records operational metrics for resolution runs.
// Implementations bridge to a concrete backend such as Prometheus.
type MetricsCollector interface {
	// RecordLatency records how long an operation took.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter adds value to a counter.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets a gauge to value.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram observes value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
