package polarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vignette/internal/testutils"
)

func TestResolveTemplateAttributeOrder(t *testing.T) {
	tests := []struct {
		name     string
		template string
		dimA     string
		dimB     string
		want     AttributeOrder
	}{
		{
			name:     "placeholder order wins over declared order",
			template: "First consider [beta], then weigh it against [alpha].",
			dimA:     "alpha",
			dimB:     "beta",
			want:     AttributeOrder{OptionAName: "beta", OptionBName: "alpha"},
		},
		{
			name:     "declared order kept when template agrees",
			template: "[alpha] or [beta]?",
			dimA:     "alpha",
			dimB:     "beta",
			want:     AttributeOrder{OptionAName: "alpha", OptionBName: "beta"},
		},
		{
			name:     "placeholders match case and separator insensitively",
			template: "Is [self direction] worth more than [POWER-dominance]?",
			dimA:     "Power_Dominance",
			dimB:     "Self_Direction",
			want:     AttributeOrder{OptionAName: "Self_Direction", OptionBName: "Power_Dominance"},
		},
		{
			name:     "explicit score suffix resolves to its dimension",
			template: "[Security_Score5] versus [Freedom_Score1]",
			dimA:     "Freedom",
			dimB:     "Security",
			want:     AttributeOrder{OptionAName: "Security", OptionBName: "Freedom"},
		},
		{
			name:     "repeated first placeholder is skipped",
			template: "[beta] and again [beta] before [alpha]",
			dimA:     "alpha",
			dimB:     "beta",
			want:     AttributeOrder{OptionAName: "beta", OptionBName: "alpha"},
		},
		{
			name:     "only one dimension referenced falls back",
			template: "Only [beta] appears here.",
			dimA:     "alpha",
			dimB:     "beta",
			want:     AttributeOrder{OptionAName: "alpha", OptionBName: "beta"},
		},
		{
			name:     "unknown placeholders are ignored",
			template: "[gamma] [delta]",
			dimA:     "alpha",
			dimB:     "beta",
			want:     AttributeOrder{OptionAName: "alpha", OptionBName: "beta"},
		},
		{
			name:     "names that normalize equal fall back",
			template: "[a_b] [A B]",
			dimA:     "a_b",
			dimB:     "A B",
			want:     AttributeOrder{OptionAName: "a_b", OptionBName: "A B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTemplateAttributeOrder(tt.template, tt.dimA, tt.dimB))
		})
	}
}

func TestParsePlaceholders(t *testing.T) {
	phs := ParsePlaceholders("Hi [ Name ], pick [Security_Score3] or [] or [Freedom].")
	require.Len(t, phs, 3)

	assert.Equal(t, "Name", phs[0].Raw)
	assert.Equal(t, "Security_Score3", phs[1].Raw)
	assert.Equal(t, "Security", phs[1].Name)
	assert.Equal(t, "Freedom", phs[2].Name)
	assert.Less(t, phs[0].Offset, phs[1].Offset)
	assert.Less(t, phs[1].Offset, phs[2].Offset)
}

func TestParseRubricLines(t *testing.T) {
	template := "Intro line\r\n1 - Leave\r\n  2. Lean leave\n3) Unsure\n4: Lean stay\n5 – Stay\n6 - Off scale\n10 - Also off"

	lines := ParseRubricLines(template)
	require.Len(t, lines, 5)
	for i, line := range lines {
		assert.Equal(t, i+1, line.Score)
	}
	assert.Equal(t, "Leave", lines[0].Text)
	assert.Equal(t, "Stay", lines[4].Text)
}

func TestInferRubricDirection(t *testing.T) {
	t.Run("keyword overlap assigns extremes", func(t *testing.T) {
		got, ok := InferRubricDirection(testutils.ProjectTemplate, "Self_Direction_Action", "Achievement")
		require.True(t, ok)
		assert.Equal(t, ScaleAssignment{
			1: "Self_Direction_Action",
			2: "Self_Direction_Action",
			4: "Achievement",
			5: "Achievement",
		}, got)
	})

	t.Run("direct placeholder mention is decisive", func(t *testing.T) {
		template := "Pick one.\n1 - Strongly support [Freedom]\n5 - Strongly support [Security]"
		got, ok := InferRubricDirection(template, "Security", "Freedom")
		require.True(t, ok)
		assert.Equal(t, "Freedom", got[1])
		assert.Equal(t, "Security", got[5])
	})

	t.Run("middle scores inherit from extremes", func(t *testing.T) {
		template := "1 - [Freedom]\n5 - [Security]"
		got, ok := InferRubricDirection(template, "Freedom", "Security")
		require.True(t, ok)
		assert.Equal(t, "Freedom", got[2])
		assert.Equal(t, "Security", got[4])
		_, hasNeutral := got[3]
		assert.False(t, hasNeutral)
	})

	t.Run("no rubric lines", func(t *testing.T) {
		_, ok := InferRubricDirection("[Freedom] or [Security]?", "Freedom", "Security")
		assert.False(t, ok)
	})

	t.Run("tied evidence leaves extreme unresolved", func(t *testing.T) {
		template := "[Freedom] shared words here.\n[Security] shared words here.\n1 - shared words\n5 - [Security]"
		_, ok := InferRubricDirection(template, "Freedom", "Security")
		assert.False(t, ok)
	})

	t.Run("both extremes on one attribute", func(t *testing.T) {
		template := "1 - [Freedom]\n5 - [Freedom]"
		_, ok := InferRubricDirection(template, "Freedom", "Security")
		assert.False(t, ok)
	})

	t.Run("identical names cannot be told apart", func(t *testing.T) {
		_, ok := InferRubricDirection("1 - [x]\n5 - [x]", "x", "X")
		assert.False(t, ok)
	})
}

func TestBuildVocabulary_OnlyPlaceholderLines(t *testing.T) {
	template := "Living abroad brings adventure [Stimulation].\nThe pension plan is unrelated."
	vocab := BuildVocabulary(template, "stimulation")

	assert.Contains(t, vocab, "living")
	assert.Contains(t, vocab, "abroad")
	assert.Contains(t, vocab, "adventure")
	assert.NotContains(t, vocab, "pension")
	assert.NotContains(t, vocab, "stimulation", "placeholder text is not vocabulary")
}

func FuzzInferRubricDirection(f *testing.F) {
	f.Add(testutils.ProjectTemplate, "Self_Direction_Action", "Achievement")
	f.Add("1 - [a]\n5 - [b]", "a", "b")
	f.Add("", "", "")
	f.Add("[[x]]\n5 -", "x", "y")

	f.Fuzz(func(t *testing.T, template, nameA, nameB string) {
		got, ok := InferRubricDirection(template, nameA, nameB)
		if !ok {
			if got != nil {
				t.Fatalf("unresolved direction returned assignment %v", got)
			}
			return
		}
		if got[1] == got[5] {
			t.Fatalf("both extremes favor %q", got[1])
		}
		for score, name := range got {
			if name != nameA && name != nameB {
				t.Fatalf("score %d assigned unknown attribute %q", score, name)
			}
		}
	})
}
