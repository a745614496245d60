// Package polarity reconstructs the decision direction of a two-sided
// vignette and maps it onto persisted scenario attributes.
//
// Every function in this package is a pure, deterministic function of its
// arguments. Nothing is cached and nothing is shared, so all of them are
// safe to call concurrently and repeatedly from rendering code.
package polarity

import (
	"strings"

	"github.com/ahrav/go-vignette/internal/domain"
)

// Label prefixes used for derived decision labels.
const (
	PrefixStronglySupport = "Strongly Support "
	PrefixSomewhatSupport = "Somewhat Support "
	PrefixStronglyOppose  = "Strongly Oppose "
	PrefixSomewhatOppose  = "Somewhat Oppose "

	NeutralLabel = "Neutral"
)

// rubricDimensionNames are the dimension names, compared
// case-insensitively, that carry an authored decision rubric.
var rubricDimensionNames = map[string]struct{}{
	"decision":   {},
	"rubric":     {},
	"evaluation": {},
}

// IsRubricDimension reports whether d is named like a rubric dimension.
func IsRubricDimension(d domain.Dimension) bool {
	_, ok := rubricDimensionNames[fold(strings.TrimSpace(d.Name))]
	return ok
}

// ExplicitRubric returns the labels of the first rubric dimension that is a
// complete five-level scale: exactly five levels with distinct scores 1-5
// and non-empty labels. Labels are used verbatim.
func ExplicitRubric(content domain.DefinitionContent) (domain.DecisionLabelMap, bool) {
	for _, d := range content.Dimensions {
		if !IsRubricDimension(d) {
			continue
		}
		if labels, ok := rubricLabels(d); ok {
			return labels, true
		}
	}
	return nil, false
}

func rubricLabels(d domain.Dimension) (domain.DecisionLabelMap, bool) {
	if len(d.Levels) != domain.MaxDecisionScore {
		return nil, false
	}
	labels := make(domain.DecisionLabelMap, domain.MaxDecisionScore)
	for _, lvl := range d.Levels {
		if lvl.Score < domain.MinDecisionScore || lvl.Score > domain.MaxDecisionScore {
			return nil, false
		}
		if strings.TrimSpace(lvl.Label) == "" {
			return nil, false
		}
		if _, dup := labels[lvl.Score]; dup {
			return nil, false
		}
		labels[lvl.Score] = lvl.Label
	}
	return labels, true
}

// AttributeDimensions returns the declared dimensions that are not rubric
// dimensions, in declared order.
func AttributeDimensions(content domain.DefinitionContent) []domain.Dimension {
	out := make([]domain.Dimension, 0, len(content.Dimensions))
	for _, d := range content.Dimensions {
		if IsRubricDimension(d) || strings.TrimSpace(d.Name) == "" {
			continue
		}
		out = append(out, d)
	}
	return out
}

// BuildDecisionLabels derives the label for every decision score. The first
// rule that applies wins:
//
//  1. an explicit five-level rubric dimension, used verbatim;
//  2. two attribute dimensions, with direction inferred from the template
//     rubric, or declared order when inference fails (the second declared
//     attribute is the score-1 side);
//  3. a single attribute dimension, as a support/oppose scale;
//
// otherwise it returns false with LabelSourceUnsupported and the caller
// must render an explicit "not available" state.
func BuildDecisionLabels(content domain.DefinitionContent) (domain.DecisionLabelMap, domain.LabelSource, bool) {
	if labels, ok := ExplicitRubric(content); ok {
		return labels, domain.LabelSourceExplicit, true
	}

	attrs := AttributeDimensions(content)
	switch {
	case len(attrs) >= 2:
		first, second := attrs[0].Name, attrs[1].Name
		order := ResolveTemplateAttributeOrder(content.Template, first, second)
		if assignment, ok := InferRubricDirection(content.Template, order.OptionAName, order.OptionBName); ok {
			return twoSidedLabels(assignment[1], assignment[2], assignment[4], assignment[5]), domain.LabelSourceInferred, true
		}
		return twoSidedLabels(second, second, first, first), domain.LabelSourceDeclared, true

	case len(attrs) == 1:
		name := attrs[0].Name
		return domain.DecisionLabelMap{
			1: PrefixStronglySupport + name,
			2: PrefixSomewhatSupport + name,
			3: NeutralLabel,
			4: PrefixSomewhatOppose + name,
			5: PrefixStronglyOppose + name,
		}, domain.LabelSourceSingle, true
	}

	return nil, domain.LabelSourceUnsupported, false
}

func twoSidedLabels(side1, side2, side4, side5 string) domain.DecisionLabelMap {
	return domain.DecisionLabelMap{
		1: PrefixStronglySupport + side1,
		2: PrefixSomewhatSupport + side2,
		3: NeutralLabel,
		4: PrefixSomewhatSupport + side4,
		5: PrefixStronglySupport + side5,
	}
}
