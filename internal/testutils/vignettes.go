// Package testutils holds shared fixtures for resolution tests.
package testutils

import (
	"fmt"

	"github.com/ahrav/go-vignette/internal/domain"
)

// ProjectTemplate is a two-sided vignette whose rubric favors
// Self_Direction_Action at score 1 and Achievement at score 5.
const ProjectTemplate = `Maya is picking a final-year project.
Designing her own independent research project would let her pursue her curiosity: [Self_Direction_Action].
Taking the standard project would secure a top grade and recognition: [Achievement].
What should she do?
1 - Strongly support the student choosing an independent project
2 - Somewhat support the student choosing an independent project
3 - Neutral
4 - Somewhat support the student choosing a standard project
5 - Strongly support the student choosing a standard project`

// Attribute names used by the project fixtures.
const (
	SelfDirection = "Self_Direction_Action"
	Achievement   = "Achievement"
)

// ProjectDefinition returns the two-dimension project vignette with
// three levels per dimension.
func ProjectDefinition() domain.DefinitionContent {
	return domain.DefinitionContent{
		Template: ProjectTemplate,
		Dimensions: []domain.Dimension{
			{Name: SelfDirection, Levels: threeLevels()},
			{Name: Achievement, Levels: threeLevels()},
		},
	}
}

// UnrubricatedDefinition returns the project dimensions under a template
// with no rubric lines, which forces the declared-order fallback.
func UnrubricatedDefinition() domain.DefinitionContent {
	c := ProjectDefinition()
	c.Template = "Should Maya favor [Self_Direction_Action] or [Achievement]?"
	return c
}

// RubricDefinition returns a definition with an explicit five-level
// "Decision" rubric alongside the project dimensions.
func RubricDefinition() domain.DefinitionContent {
	c := ProjectDefinition()
	c.Dimensions = append(c.Dimensions, domain.Dimension{
		Name: "Decision",
		Levels: []domain.Level{
			{Score: 1, Label: "Definitely independent"},
			{Score: 2, Label: "Probably independent"},
			{Score: 3, Label: "Unsure"},
			{Score: 4, Label: "Probably standard"},
			{Score: 5, Label: "Definitely standard"},
		},
	})
	return c
}

// SingleDimensionDefinition returns a definition with one attribute.
func SingleDimensionDefinition() domain.DefinitionContent {
	return domain.DefinitionContent{
		Template:   "How much should [Security] weigh in this decision?",
		Dimensions: []domain.Dimension{{Name: "Security", Levels: threeLevels()}},
	}
}

func threeLevels() []domain.Level {
	return []domain.Level{
		{Score: 1, Label: "low"},
		{Score: 2, Label: "medium"},
		{Score: 3, Label: "high"},
	}
}

// ScenarioGrid returns records for every combination of scores 1-3 over
// the two attribute keys, in the shape persisted with run transcripts.
func ScenarioGrid(keyA, keyB string) domain.ScenarioRecords {
	records := make(domain.ScenarioRecords, 9)
	for a := 1; a <= 3; a++ {
		for b := 1; b <= 3; b++ {
			id := fmt.Sprintf("scn-%d%d", a, b)
			records[id] = map[string]string{
				keyA: fmt.Sprint(a),
				keyB: fmt.Sprint(b),
			}
		}
	}
	return records
}
