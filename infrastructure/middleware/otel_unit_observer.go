package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/ports"
)

var _ UnitObserver = (*OTelUnitObserver)(nil)

// OTelUnitObserver traces unit executions with OpenTelemetry and forwards
// latency, outcome and output sizes to a MetricsCollector.
type OTelUnitObserver struct {
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// NewOTelUnitObserver creates an observer. metrics may be nil.
func NewOTelUnitObserver(metrics ports.MetricsCollector) *OTelUnitObserver {
	return &OTelUnitObserver{
		metrics: metrics,
		tracer:  otel.Tracer("observed-unit"),
	}
}

// PreExecute starts a span for the unit and tags it with the execution
// context carried by the state.
func (o *OTelUnitObserver) PreExecute(ctx context.Context, unit string, state domain.State) context.Context {
	ctx, span := o.tracer.Start(ctx, "ObservedUnit.Execute",
		trace.WithAttributes(attribute.String("unit.id", unit)),
	)

	if execCtx, ok := state.GetExecutionContext(); ok {
		span.SetAttributes(
			attribute.String("execution.pipeline_id", execCtx.PipelineID),
			attribute.String("execution.definition_id", execCtx.DefinitionID),
			attribute.String("execution.run_id", execCtx.RunID),
		)
	}
	return ctx
}

// PostExecute finishes the span started by PreExecute and records metrics.
func (o *OTelUnitObserver) PostExecute(
	ctx context.Context,
	unit string,
	state domain.State,
	elapsed time.Duration,
	err error,
) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	labels := map[string]string{"unit": unit, "status": "success"}
	if err != nil {
		labels["status"] = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		o.describeOutputs(span, unit, state)
		span.SetStatus(codes.Ok, "")
	}

	if o.metrics == nil {
		return
	}
	o.metrics.RecordLatency(MetricUnitExecution, elapsed, labels)
	o.metrics.RecordCounter(MetricUnitExecutions, 1, labels)
}

// describeOutputs adds span events for the resolution outputs present in
// state and reports their sizes.
func (o *OTelUnitObserver) describeOutputs(span trace.Span, unit string, state domain.State) {
	if source, ok := domain.Get(state, domain.KeyLabelSource); ok {
		span.AddEvent("labels.resolved", trace.WithAttributes(
			attribute.String("label_source", string(source)),
		))
	}

	if attrs, ok := domain.Get(state, domain.KeyScenarioAttributes); ok {
		span.SetAttributes(attribute.Int("attributes.count", len(attrs)))
		if o.metrics != nil {
			o.metrics.RecordHistogram(MetricAttributesFound, float64(len(attrs)), map[string]string{"unit": unit})
		}
	}
}
