package polarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/testutils"
)

func projectDefinition(template string) domain.DefinitionContent {
	return domain.DefinitionContent{
		Template: template,
		Dimensions: []domain.Dimension{
			{Name: "Self_Direction_Action", Levels: []domain.Level{{Score: 1, Label: "low"}, {Score: 2, Label: "high"}}},
			{Name: "Achievement", Levels: []domain.Level{{Score: 1, Label: "low"}, {Score: 2, Label: "high"}}},
		},
	}
}

func explicitRubricDimension() domain.Dimension {
	return domain.Dimension{
		Name: "Decision",
		Levels: []domain.Level{
			{Score: 1, Label: "Definitely leave"},
			{Score: 2, Label: "Probably leave"},
			{Score: 3, Label: "Unsure"},
			{Score: 4, Label: "Probably stay"},
			{Score: 5, Label: "Definitely stay"},
		},
	}
}

func TestBuildDecisionLabels(t *testing.T) {
	tests := []struct {
		name       string
		content    domain.DefinitionContent
		wantOK     bool
		wantSource domain.LabelSource
		want       domain.DecisionLabelMap
	}{
		{
			name:       "template rubric infers direction",
			content:    projectDefinition(testutils.ProjectTemplate),
			wantOK:     true,
			wantSource: domain.LabelSourceInferred,
			want: domain.DecisionLabelMap{
				1: "Strongly Support Self_Direction_Action",
				2: "Somewhat Support Self_Direction_Action",
				3: "Neutral",
				4: "Somewhat Support Achievement",
				5: "Strongly Support Achievement",
			},
		},
		{
			name:       "no rubric falls back to declared order",
			content:    projectDefinition("Choose between [Self_Direction_Action] and [Achievement]."),
			wantOK:     true,
			wantSource: domain.LabelSourceDeclared,
			want: domain.DecisionLabelMap{
				1: "Strongly Support Achievement",
				2: "Somewhat Support Achievement",
				3: "Neutral",
				4: "Somewhat Support Self_Direction_Action",
				5: "Strongly Support Self_Direction_Action",
			},
		},
		{
			name: "explicit rubric is used verbatim",
			content: domain.DefinitionContent{
				Template:   "Should [Name] stay?",
				Dimensions: []domain.Dimension{explicitRubricDimension()},
			},
			wantOK:     true,
			wantSource: domain.LabelSourceExplicit,
			want: domain.DecisionLabelMap{
				1: "Definitely leave",
				2: "Probably leave",
				3: "Unsure",
				4: "Probably stay",
				5: "Definitely stay",
			},
		},
		{
			name: "explicit rubric outranks template inference",
			content: func() domain.DefinitionContent {
				c := projectDefinition(testutils.ProjectTemplate)
				c.Dimensions = append(c.Dimensions, explicitRubricDimension())
				return c
			}(),
			wantOK:     true,
			wantSource: domain.LabelSourceExplicit,
			want: domain.DecisionLabelMap{
				1: "Definitely leave",
				2: "Probably leave",
				3: "Unsure",
				4: "Probably stay",
				5: "Definitely stay",
			},
		},
		{
			name: "single attribute becomes a support scale",
			content: domain.DefinitionContent{
				Template:   "How much does [Security] matter?",
				Dimensions: []domain.Dimension{{Name: "Security"}},
			},
			wantOK:     true,
			wantSource: domain.LabelSourceSingle,
			want: domain.DecisionLabelMap{
				1: "Strongly Support Security",
				2: "Somewhat Support Security",
				3: "Neutral",
				4: "Somewhat Oppose Security",
				5: "Strongly Oppose Security",
			},
		},
		{
			name:       "no dimensions is unsupported",
			content:    domain.DefinitionContent{Template: "Nothing to see."},
			wantOK:     false,
			wantSource: domain.LabelSourceUnsupported,
		},
		{
			name: "partial rubric alone is unsupported",
			content: domain.DefinitionContent{
				Dimensions: []domain.Dimension{{
					Name:   "Decision",
					Levels: []domain.Level{{Score: 1, Label: "No"}, {Score: 5, Label: "Yes"}},
				}},
			},
			wantOK:     false,
			wantSource: domain.LabelSourceUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels, source, ok := BuildDecisionLabels(tt.content)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSource, source)
			if !tt.wantOK {
				assert.Nil(t, labels)
				return
			}
			assert.Equal(t, tt.want, labels)
			assert.True(t, labels.Complete())
		})
	}
}

func TestBuildDecisionLabels_Idempotent(t *testing.T) {
	content := projectDefinition(testutils.ProjectTemplate)

	first, src1, ok1 := BuildDecisionLabels(content)
	second, src2, ok2 := BuildDecisionLabels(content)

	assert.Equal(t, first, second)
	assert.Equal(t, src1, src2)
	assert.Equal(t, ok1, ok2)
}

func TestExplicitRubric_RejectsMalformedScales(t *testing.T) {
	tests := []struct {
		name   string
		levels []domain.Level
	}{
		{
			name: "duplicate score",
			levels: []domain.Level{
				{Score: 1, Label: "a"}, {Score: 1, Label: "b"}, {Score: 3, Label: "c"},
				{Score: 4, Label: "d"}, {Score: 5, Label: "e"},
			},
		},
		{
			name: "score out of range",
			levels: []domain.Level{
				{Score: 0, Label: "a"}, {Score: 2, Label: "b"}, {Score: 3, Label: "c"},
				{Score: 4, Label: "d"}, {Score: 5, Label: "e"},
			},
		},
		{
			name: "blank label",
			levels: []domain.Level{
				{Score: 1, Label: "a"}, {Score: 2, Label: " "}, {Score: 3, Label: "c"},
				{Score: 4, Label: "d"}, {Score: 5, Label: "e"},
			},
		},
		{
			name:   "too few levels",
			levels: []domain.Level{{Score: 1, Label: "a"}, {Score: 5, Label: "e"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := domain.DefinitionContent{
				Dimensions: []domain.Dimension{{Name: "rubric", Levels: tt.levels}},
			}
			labels, ok := ExplicitRubric(content)
			assert.False(t, ok)
			assert.Nil(t, labels)
		})
	}
}

func TestAttributeDimensions_SkipsRubricAndBlankNames(t *testing.T) {
	content := domain.DefinitionContent{
		Dimensions: []domain.Dimension{
			{Name: "Freedom"},
			{Name: "EVALUATION"},
			{Name: "  "},
			{Name: "Safety"},
		},
	}

	attrs := AttributeDimensions(content)
	require.Len(t, attrs, 2)
	assert.Equal(t, "Freedom", attrs[0].Name)
	assert.Equal(t, "Safety", attrs[1].Name)
}
