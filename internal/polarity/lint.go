package polarity

import (
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ahrav/go-vignette/internal/domain"
)

// maxSuggestionDistance caps the edit distance of a placeholder suggestion.
const maxSuggestionDistance = 3

// LintDefinition reports author-facing problems with a definition. Warnings
// are diagnostics only: BuildDecisionLabels returns the same labels whether
// or not any are reported.
//
// Warnings are ordered by kind (partial rubrics, unknown placeholders, then
// direction fallback) and within a kind by position in the definition.
func LintDefinition(content domain.DefinitionContent) []domain.Warning {
	var warnings []domain.Warning

	for _, d := range content.Dimensions {
		if !IsRubricDimension(d) {
			continue
		}
		if _, ok := rubricLabels(d); ok {
			continue
		}
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarningPartialRubric,
			Message: fmt.Sprintf("rubric dimension %q is not a complete 1-5 scale and was ignored", d.Name),
			Token:   d.Name,
		})
	}

	warnings = append(warnings, unknownPlaceholders(content)...)

	if _, ok := ExplicitRubric(content); !ok && len(AttributeDimensions(content)) >= 2 {
		if _, source, _ := BuildDecisionLabels(content); source == domain.LabelSourceDeclared {
			attrs := AttributeDimensions(content)
			warnings = append(warnings, domain.Warning{
				Code: domain.WarningDirectionFallback,
				Message: fmt.Sprintf(
					"could not infer scale direction from the template; score 1 favors %q and score 5 favors %q by declared order",
					attrs[1].Name, attrs[0].Name,
				),
			})
		}
	}

	return warnings
}

// unknownPlaceholders returns one warning per distinct placeholder that
// resolves to no declared dimension, with the closest dimension name as a
// suggestion when one is near enough.
func unknownPlaceholders(content domain.DefinitionContent) []domain.Warning {
	known := make(map[string]string, len(content.Dimensions))
	for _, d := range content.Dimensions {
		if tok := normalizeName(d.Name); tok != "" {
			if _, dup := known[tok]; !dup {
				known[tok] = d.Name
			}
		}
	}

	var out []domain.Warning
	reported := make(map[string]struct{})
	for _, ph := range ParsePlaceholders(content.Template) {
		tok := normalizeName(ph.Name)
		if tok == "" {
			continue
		}
		if _, ok := known[tok]; ok {
			continue
		}
		if _, dup := reported[tok]; dup {
			continue
		}
		reported[tok] = struct{}{}

		w := domain.Warning{
			Code:    domain.WarningUnknownPlaceholder,
			Message: fmt.Sprintf("placeholder [%s] matches no declared dimension", ph.Raw),
			Token:   ph.Raw,
		}
		if s := closestName(tok, content.Dimensions); s != "" {
			w.Suggestion = s
			w.Message += fmt.Sprintf("; did you mean %q?", s)
		}
		out = append(out, w)
	}
	return out
}

// closestName returns the declared dimension name nearest to the
// normalized token, or "" when none is within maxSuggestionDistance edits
// and a third of the token's length.
func closestName(tok string, dims []domain.Dimension) string {
	limit := min(maxSuggestionDistance, max(1, utf8.RuneCountInString(tok)/3))

	best, bestDist := "", limit+1
	for _, d := range dims {
		cand := normalizeName(d.Name)
		if cand == "" {
			continue
		}
		if dist := levenshtein.ComputeDistance(tok, cand); dist < bestDist {
			best, bestDist = d.Name, dist
		}
	}
	return best
}
