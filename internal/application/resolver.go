package application

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-vignette/infrastructure/middleware"
	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/ports"
)

// Request is one resolution job: a definition plus the run data the
// caller holds for it.
type Request struct {
	DefinitionID string                   `json:"definitionId,omitempty"`
	RunID        string                   `json:"runId,omitempty"`
	Definition   domain.DefinitionContent `json:"definition"`
	Scenarios    domain.ScenarioRecords   `json:"scenarios,omitempty"`

	// PreferredAttributes overrides the declared dimension names as the
	// authoritative attribute names. nil means "not supplied"; an empty
	// slice means "infer from scenario data only".
	PreferredAttributes []string `json:"preferredAttributes,omitempty"`

	// RequestedAxes is a possibly stale pivot selection to sanitize.
	RequestedAxes *domain.AxisSelection `json:"requestedAxes,omitempty"`

	// Decisions holds stored decision codes by scenario ID to read
	// against the resolved scale.
	Decisions domain.DecisionRecords `json:"decisions,omitempty"`
}

// Result is everything derived for a Request. Sides and Pairing are nil
// when they could not be derived.
type Result struct {
	DefinitionID string                   `json:"definitionId,omitempty"`
	RunID        string                   `json:"runId"`
	Labels       domain.DecisionLabelMap  `json:"labels,omitempty"`
	LabelSource  domain.LabelSource       `json:"labelSource"`
	Sides        *domain.SideNames        `json:"sides,omitempty"`
	Pairing      *domain.AttributePairing `json:"pairing,omitempty"`
	Attributes   []string                 `json:"attributes"`
	Axes         domain.AxisSelection     `json:"axes"`
	Warnings     []domain.Warning         `json:"warnings"`

	// Decisions is set only when the request carried decisions.
	Decisions []domain.ScenarioDecision `json:"decisions,omitempty"`
}

// Resolver runs a compiled resolution pipeline for requests and reports
// each resolution to a logger and a metrics collector.
//
// Concurrency: Resolver is safe for concurrent use.
type Resolver struct {
	pipeline   ports.Executable
	logger     logrus.FieldLogger
	metrics    ports.MetricsCollector
	batchLimit int
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger logrus.FieldLogger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics ports.MetricsCollector) ResolverOption {
	return func(r *Resolver) { r.metrics = metrics }
}

// WithBatchLimit bounds concurrent resolutions in ResolveBatch.
func WithBatchLimit(limit int) ResolverOption {
	return func(r *Resolver) { r.batchLimit = limit }
}

// NewResolver creates a Resolver around pipeline.
func NewResolver(pipeline ports.Executable, opts ...ResolverOption) *Resolver {
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)

	r := &Resolver{
		pipeline:   pipeline,
		logger:     discard,
		batchLimit: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve derives labels, sides, pairing, attributes, axes and warnings for
// req. A missing RunID is replaced with a fresh UUID so that traces and
// logs of one resolution can be correlated.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Result, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	log := r.logger.WithFields(logrus.Fields{
		"pipeline_id":   r.pipeline.ID(),
		"definition_id": req.DefinitionID,
		"run_id":        req.RunID,
	})

	start := time.Now()
	out, err := r.pipeline.Execute(ctx, r.seed(req))
	if err != nil {
		log.WithError(err).Error("resolution failed")
		r.record(MetricStatusError, domain.LabelSourceUnsupported, nil)
		return Result{}, fmt.Errorf("resolve definition %q: %w", req.DefinitionID, err)
	}

	res := collectResult(out)
	res.DefinitionID = req.DefinitionID
	res.RunID = req.RunID

	log.WithFields(logrus.Fields{
		"label_source": res.LabelSource,
		"attributes":   res.Attributes,
		"row":          res.Axes.RowDim,
		"col":          res.Axes.ColDim,
		"warnings":     len(res.Warnings),
		"elapsed":      time.Since(start),
	}).Debug("resolved definition")
	for _, w := range res.Warnings {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	r.record(MetricStatusOK, res.LabelSource, res.Warnings)
	return res, nil
}

// ResolveBatch resolves reqs concurrently and returns results in input
// order. The first failure cancels the remaining work.
func (r *Resolver) ResolveBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if r.batchLimit > 0 {
		g.SetLimit(r.batchLimit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			res, err := r.Resolve(gctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Metric status values.
const (
	MetricStatusOK    = "ok"
	MetricStatusError = "error"
)

func (r *Resolver) record(status string, source domain.LabelSource, warnings []domain.Warning) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordCounter(middleware.MetricResolutions, 1, map[string]string{
		"label_source": string(source),
		"status":       status,
	})
	for _, w := range warnings {
		r.metrics.RecordCounter(middleware.MetricWarnings, 1, map[string]string{"code": string(w.Code)})
	}
}

func (r *Resolver) seed(req Request) domain.State {
	state := domain.NewState().WithExecutionContext(domain.ExecutionContext{
		PipelineID:   r.pipeline.ID(),
		DefinitionID: req.DefinitionID,
		RunID:        req.RunID,
	})

	updates := map[string]any{domain.KeyDefinition.Name(): req.Definition}
	if req.Scenarios != nil {
		updates[domain.KeyScenarios.Name()] = req.Scenarios
	}
	if req.PreferredAttributes != nil {
		updates[domain.KeyPreferredAttributes.Name()] = req.PreferredAttributes
	}
	if req.RequestedAxes != nil {
		updates[domain.KeyRequestedAxes.Name()] = *req.RequestedAxes
	}
	if req.Decisions != nil {
		updates[domain.KeyDecisions.Name()] = req.Decisions
	}
	return state.WithMultiple(updates)
}

func collectResult(state domain.State) Result {
	var res Result

	if labels, ok := domain.Get(state, domain.KeyDecisionLabels); ok {
		res.Labels = labels
	}
	res.LabelSource = domain.LabelSourceUnsupported
	if source, ok := domain.Get(state, domain.KeyLabelSource); ok {
		res.LabelSource = source
	}
	if sides, ok := domain.Get(state, domain.KeySideNames); ok {
		res.Sides = &sides
	}
	if pairing, ok := domain.Get(state, domain.KeyAttributePairing); ok {
		res.Pairing = &pairing
	}

	res.Attributes, _ = domain.Get(state, domain.KeyScenarioAttributes)
	if res.Attributes == nil {
		res.Attributes = []string{}
	}
	res.Axes, _ = domain.Get(state, domain.KeyAxisSelection)
	res.Warnings, _ = domain.Get(state, domain.KeyWarnings)
	if res.Warnings == nil {
		res.Warnings = []domain.Warning{}
	}
	res.Decisions, _ = domain.Get(state, domain.KeyScenarioDecisions)
	return res
}
