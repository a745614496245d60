package polarity

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ahrav/go-vignette/internal/domain"
)

// DecisionOutcome classifies a decision code: 4 and 5 favor the high
// (score 5) side, 1 and 2 the low (score 1) side, and 3 is neutral. Codes
// off the scale are unknown.
func DecisionOutcome(code int) domain.Outcome {
	switch {
	case code < domain.MinDecisionScore || code > domain.MaxDecisionScore:
		return domain.OutcomeUnknown
	case code >= 4:
		return domain.OutcomeHigh
	case code <= 2:
		return domain.OutcomeLow
	default:
		return domain.OutcomeNeutral
	}
}

// ParseDecisionCode parses a stored decision code. Only positive integer
// strings are codes; "other" and anything else are rejected.
func ParseDecisionCode(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ScenarioName formats a scenario's dimension scores as
// "Dim1_X / Dim2_Y", in the given dimension order. Dimensions without a
// score are skipped.
func ScenarioName(scores map[string]int, order []string) string {
	parts := make([]string, 0, len(order))
	for _, name := range order {
		score, ok := scores[name]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s_%d", name, score))
	}
	return strings.Join(parts, " / ")
}

// ClassifyDecisions reads every stored decision against the label map and
// the side-to-attribute pairing, sorted by scenario ID. Scenario names list
// the integer-valued attributes of the scenario's record in order.
func ClassifyDecisions(
	decisions domain.DecisionRecords,
	records domain.ScenarioRecords,
	labels domain.DecisionLabelMap,
	pairing domain.AttributePairing,
	order []string,
) []domain.ScenarioDecision {
	ids := slices.Sorted(maps.Keys(decisions))
	out := make([]domain.ScenarioDecision, 0, len(ids))
	for _, id := range ids {
		d := domain.ScenarioDecision{ScenarioID: id, Outcome: domain.OutcomeUnknown}
		if attrs, ok := records[id]; ok {
			d.Scenario = ScenarioName(attributeScores(attrs), order)
		}
		if code, ok := ParseDecisionCode(decisions[id]); ok {
			d.Code = code
			d.Label = labels[code]
			d.Outcome = DecisionOutcome(code)
		}

		switch d.Outcome {
		case domain.OutcomeLow:
			d.FavoredAttribute = pairing.LowAttribute
		case domain.OutcomeHigh:
			d.FavoredAttribute = pairing.HighAttribute
		}
		out = append(out, d)
	}
	return out
}

func attributeScores(attrs map[string]string) map[string]int {
	scores := make(map[string]int, len(attrs))
	for k, v := range attrs {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			scores[k] = n
		}
	}
	return scores
}
