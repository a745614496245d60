package middleware

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vignette/internal/ports"
)

// gatheredValue returns the summed counter, gauge or histogram sample
// count of the named family, restricted to series carrying every label in
// match.
func gatheredValue(t *testing.T, reg *prometheus.Registry, name string, match map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			got := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range match {
				if got[k] != v {
					continue series
				}
			}
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

func TestNewPrometheusMetrics(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	assert.NotNil(t, pm.unitLatency)
	assert.NotNil(t, pm.resolutions)
	assert.NotNil(t, pm.warnings)
	assert.NotNil(t, pm.operationCounter)
	assert.NotNil(t, pm.valueHistogram)
	assert.NotNil(t, pm.systemGauges)

	var _ ports.MetricsCollector = pm
}

func TestNewPrometheusMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusMetrics(reg)

	assert.Panics(t, func() { NewPrometheusMetrics(reg) })
}

func TestPrometheusMetrics_RecordLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordLatency(MetricUnitExecution, 2*time.Millisecond, map[string]string{"unit": "labels"})
	pm.RecordLatency(MetricUnitExecution, time.Millisecond, map[string]string{"unit": ""})
	pm.RecordLatency(MetricUnitExecution, time.Millisecond, nil)

	assert.Equal(t, 1.0, gatheredValue(t, reg, "vignette_unit_duration_seconds", map[string]string{"unit": "labels"}))
	assert.Equal(t, 2.0, gatheredValue(t, reg, "vignette_unit_duration_seconds", map[string]string{"unit": "unknown"}))
}

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		labels map[string]string
		family string
		match  map[string]string
	}{
		{
			name:   "resolutions by source",
			metric: MetricResolutions,
			labels: map[string]string{"label_source": "template_inference", "status": "ok"},
			family: "vignette_resolutions_total",
			match:  map[string]string{"label_source": "template_inference", "status": "ok"},
		},
		{
			name:   "warnings by code",
			metric: MetricWarnings,
			labels: map[string]string{"code": "direction_fallback"},
			family: "vignette_definition_warnings_total",
			match:  map[string]string{"code": "direction_fallback"},
		},
		{
			name:   "unit executions",
			metric: MetricUnitExecutions,
			labels: map[string]string{"unit": "axes", "status": "error"},
			family: "vignette_operations_total",
			match:  map[string]string{"operation": "execute", "status": "error", "unit": "axes"},
		},
		{
			name:   "unknown metric falls through",
			metric: "cache_hits",
			labels: nil,
			family: "vignette_operations_total",
			match:  map[string]string{"operation": "cache_hits", "status": "success", "unit": "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			pm := NewPrometheusMetrics(reg)

			pm.RecordCounter(tt.metric, 2, tt.labels)
			pm.RecordCounter(tt.metric, 1, tt.labels)

			assert.Equal(t, 3.0, gatheredValue(t, reg, tt.family, tt.match))
		})
	}
}

func TestPrometheusMetrics_GaugeAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordGauge("pipelines_cached", 4, nil)
	pm.RecordGauge("pipelines_cached", 3, nil)
	assert.Equal(t, 3.0, gatheredValue(t, reg, "vignette_state", map[string]string{"metric": "pipelines_cached"}))

	pm.RecordHistogram(MetricAttributesFound, 2, map[string]string{"unit": "attrs"})
	pm.RecordHistogram(MetricAttributesFound, 3, map[string]string{"unit": "attrs"})
	assert.Equal(t, 2.0, gatheredValue(t, reg, "vignette_observed_values", map[string]string{"unit": "attrs"}))
}
