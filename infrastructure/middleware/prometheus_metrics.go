// Package middleware provides cross-cutting concerns for resolution
// pipelines: unit observation, tracing and Prometheus metrics.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-vignette/internal/ports"
)

// Metric names understood by PrometheusMetrics. Other names fall through
// to the generic operation counter, gauge and histogram.
const (
	MetricUnitExecution   = "unit_execution"
	MetricUnitExecutions  = "unit_executions_total"
	MetricResolutions     = "resolutions_total"
	MetricWarnings        = "definition_warnings_total"
	MetricAttributesFound = "scenario_attributes"
)

// PrometheusMetrics implements ports.MetricsCollector with Prometheus
// collectors registered on the given registerer.
type PrometheusMetrics struct {
	unitLatency      *prometheus.HistogramVec
	resolutions      *prometheus.CounterVec
	warnings         *prometheus.CounterVec
	operationCounter *prometheus.CounterVec
	valueHistogram   *prometheus.HistogramVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
// A nil reg registers on prometheus.DefaultRegisterer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		unitLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vignette_unit_duration_seconds",
				Help:    "Execution time of resolution units.",
				Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05, .1},
			},
			[]string{"operation", "unit"},
		),
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vignette_resolutions_total",
				Help: "Resolutions performed, by label source and outcome.",
			},
			[]string{"label_source", "status"},
		),
		warnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vignette_definition_warnings_total",
				Help: "Author-facing definition warnings, by code.",
			},
			[]string{"code"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vignette_operations_total",
				Help: "Operations performed by resolution units.",
			},
			[]string{"operation", "status", "unit"},
		),
		valueHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vignette_observed_values",
				Help:    "Distribution of counted values such as resolved attributes per run.",
				Buckets: prometheus.LinearBuckets(0, 1, 8),
			},
			[]string{"metric", "unit"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vignette_state",
				Help: "Current values reported by resolution components.",
			},
			[]string{"metric", "unit"},
		),
	}
}

// unitLabel returns the "unit" label or "unknown" when it is missing.
func unitLabel(labels map[string]string) string {
	if unit := labels["unit"]; unit != "" {
		return unit
	}
	return "unknown"
}

// statusLabel returns the "status" label or "success" when it is missing.
func statusLabel(labels map[string]string) string {
	if status := labels["status"]; status != "" {
		return status
	}
	return "success"
}

// RecordLatency records duration in the unit latency histogram.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.unitLatency.WithLabelValues(operation, unitLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter adds value to the counter selected by metric.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case MetricResolutions:
		pm.resolutions.WithLabelValues(labels["label_source"], statusLabel(labels)).Add(value)
	case MetricWarnings:
		pm.warnings.WithLabelValues(labels["code"]).Add(value)
	case MetricUnitExecutions:
		pm.operationCounter.WithLabelValues("execute", statusLabel(labels), unitLabel(labels)).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, statusLabel(labels), unitLabel(labels)).Add(value)
	}
}

// RecordGauge sets the gauge for metric.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.systemGauges.WithLabelValues(metric, unitLabel(labels)).Set(value)
}

// RecordHistogram observes value in the histogram for metric.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	pm.valueHistogram.WithLabelValues(metric, unitLabel(labels)).Observe(value)
}

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
