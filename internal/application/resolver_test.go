package application

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ahrav/go-vignette/infrastructure/middleware"
	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/ports/mocks"
	"github.com/ahrav/go-vignette/internal/testutils"
)

func newDefaultResolver(t *testing.T, opts ...ResolverOption) *Resolver {
	t.Helper()
	p, err := newTestLoader(t).LoadDefault(context.Background())
	require.NoError(t, err)
	return NewResolver(p, opts...)
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want Result
	}{
		{
			name: "inferred direction with declared names",
			req: Request{
				DefinitionID: "def-1",
				RunID:        "run-1",
				Definition:   testutils.ProjectDefinition(),
				Scenarios:    testutils.ScenarioGrid("achievement", "self_direction_action"),
			},
			want: Result{
				DefinitionID: "def-1",
				RunID:        "run-1",
				Labels: domain.DecisionLabelMap{
					1: "Strongly Support Self_Direction_Action",
					2: "Somewhat Support Self_Direction_Action",
					3: "Neutral",
					4: "Somewhat Support Achievement",
					5: "Strongly Support Achievement",
				},
				LabelSource: domain.LabelSourceInferred,
				Sides:       &domain.SideNames{AName: testutils.SelfDirection, BName: testutils.Achievement},
				Pairing:     &domain.AttributePairing{LowAttribute: testutils.SelfDirection, HighAttribute: testutils.Achievement},
				Attributes:  []string{testutils.SelfDirection, testutils.Achievement},
				Axes:        domain.AxisSelection{RowDim: testutils.SelfDirection, ColDim: testutils.Achievement},
				Warnings:    []domain.Warning{},
			},
		},
		{
			name: "data-only attributes and stale axes",
			req: Request{
				RunID:               "run-2",
				Definition:          testutils.ProjectDefinition(),
				Scenarios:           testutils.ScenarioGrid("achievement", "self_direction_action"),
				PreferredAttributes: []string{},
				RequestedAxes:       &domain.AxisSelection{RowDim: "gone", ColDim: "self_direction_action"},
			},
			want: Result{
				RunID: "run-2",
				Labels: domain.DecisionLabelMap{
					1: "Strongly Support Self_Direction_Action",
					2: "Somewhat Support Self_Direction_Action",
					3: "Neutral",
					4: "Somewhat Support Achievement",
					5: "Strongly Support Achievement",
				},
				LabelSource: domain.LabelSourceInferred,
				Sides:       &domain.SideNames{AName: testutils.SelfDirection, BName: testutils.Achievement},
				Pairing:     &domain.AttributePairing{LowAttribute: "self_direction_action", HighAttribute: "achievement"},
				Attributes:  []string{"achievement", "self_direction_action"},
				Axes:        domain.AxisSelection{RowDim: "achievement", ColDim: "self_direction_action"},
				Warnings:    []domain.Warning{},
			},
		},
		{
			name: "unsupported definition",
			req: Request{
				RunID:      "run-3",
				Definition: domain.DefinitionContent{Template: "nothing to see"},
			},
			want: Result{
				RunID:       "run-3",
				LabelSource: domain.LabelSourceUnsupported,
				Attributes:  []string{},
				Warnings:    []domain.Warning{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newDefaultResolver(t).Resolve(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ResolveFallbackWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	got, err := newDefaultResolver(t, WithLogger(logger)).Resolve(context.Background(), Request{
		DefinitionID: "def-9",
		Definition:   testutils.UnrubricatedDefinition(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LabelSourceDeclared, got.LabelSource)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, domain.WarningDirectionFallback, got.Warnings[0].Code)

	_, err = uuid.Parse(got.RunID)
	assert.NoError(t, err, "missing run IDs are generated")

	logs := buf.String()
	assert.Contains(t, logs, `"code":"direction_fallback"`)
	assert.Contains(t, logs, `"definition_id":"def-9"`)
	assert.Contains(t, logs, `"level":"warning"`)
}

func TestResolver_RecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetricsCollector(ctrl)

	metrics.EXPECT().RecordCounter(middleware.MetricResolutions, 1.0, map[string]string{
		"label_source": string(domain.LabelSourceDeclared),
		"status":       MetricStatusOK,
	})
	metrics.EXPECT().RecordCounter(middleware.MetricWarnings, 1.0, map[string]string{
		"code": string(domain.WarningDirectionFallback),
	})

	_, err := newDefaultResolver(t, WithMetrics(metrics)).Resolve(context.Background(), Request{
		Definition: testutils.UnrubricatedDefinition(),
	})
	require.NoError(t, err)
}

func TestResolver_ResolveError(t *testing.T) {
	failing := NewPipeline("failing")
	require.NoError(t, failing.Add(&mockExecutable{id: "boom", executeFunc: func(_ context.Context, s domain.State) (domain.State, error) {
		return s, errors.New("exploded")
	}}))

	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetricsCollector(ctrl)
	metrics.EXPECT().RecordCounter(middleware.MetricResolutions, 1.0, map[string]string{
		"label_source": string(domain.LabelSourceUnsupported),
		"status":       MetricStatusError,
	})

	_, err := NewResolver(failing, WithMetrics(metrics)).Resolve(context.Background(), Request{DefinitionID: "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `resolve definition "d"`)
	assert.Contains(t, err.Error(), "exploded")
}

func TestResolver_ResolveBatch(t *testing.T) {
	resolver := newDefaultResolver(t, WithBatchLimit(2))

	reqs := []Request{
		{RunID: "a", Definition: testutils.ProjectDefinition()},
		{RunID: "b", Definition: testutils.SingleDimensionDefinition()},
		{RunID: "c", Definition: testutils.RubricDefinition()},
		{RunID: "d", Definition: testutils.UnrubricatedDefinition()},
	}
	results, err := resolver.ResolveBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	wantSources := []domain.LabelSource{
		domain.LabelSourceInferred,
		domain.LabelSourceSingle,
		domain.LabelSourceExplicit,
		domain.LabelSourceDeclared,
	}
	for i, res := range results {
		assert.Equal(t, reqs[i].RunID, res.RunID)
		assert.Equal(t, wantSources[i], res.LabelSource, "request %d", i)
	}
}

func TestResolver_ResolveBatchFailsFast(t *testing.T) {
	strict := strings.Replace(string(DefaultPipelineYAML()), "type: decision_labels", "type: decision_labels\n    parameters:\n      require_labels: true", 1)
	p, err := newTestLoader(t).LoadFromBytes(context.Background(), []byte(strict))
	require.NoError(t, err)

	_, err = NewResolver(p).ResolveBatch(context.Background(), []Request{
		{Definition: testutils.ProjectDefinition()},
		{Definition: domain.DefinitionContent{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request 1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedDefinition)
}

func TestResolver_ResolveDecisions(t *testing.T) {
	got, err := newDefaultResolver(t).Resolve(context.Background(), Request{
		RunID:      "run-d",
		Definition: testutils.ProjectDefinition(),
		Scenarios:  testutils.ScenarioGrid(testutils.Achievement, testutils.SelfDirection),
		Decisions:  domain.DecisionRecords{"scn-13": "1", "scn-21": "4"},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.ScenarioDecision{
		{
			ScenarioID:       "scn-13",
			Scenario:         "Self_Direction_Action_3 / Achievement_1",
			Code:             1,
			Label:            "Strongly Support Self_Direction_Action",
			Outcome:          domain.OutcomeLow,
			FavoredAttribute: testutils.SelfDirection,
		},
		{
			ScenarioID:       "scn-21",
			Scenario:         "Self_Direction_Action_1 / Achievement_2",
			Code:             4,
			Label:            "Somewhat Support Achievement",
			Outcome:          domain.OutcomeHigh,
			FavoredAttribute: testutils.Achievement,
		},
	}, got.Decisions)
}
