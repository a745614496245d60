package domain

import "sort"

// Level is one point on a dimension's scale.
// Levels only carry meaning for a rubric dimension; attribute dimensions
// use them to enumerate the values scenarios were generated from.
type Level struct {
	// Score is the numeric position of the level, 1 through 5 for rubrics.
	Score int `json:"score" yaml:"score" mapstructure:"score" validate:"min=0"`

	// Label is the human-readable text for this level.
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// Dimension is a declared attribute of a vignette definition.
type Dimension struct {
	// Name identifies the dimension and matches the "[Name]" placeholder
	// tokens used in the template.
	Name string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`

	// Levels lists the scored values of the dimension.
	Levels []Level `json:"levels,omitempty" yaml:"levels,omitempty" mapstructure:"levels" validate:"dive"`
}

// DefinitionContent is the structural content of a vignette definition:
// a free-text prompt template with "[token]" placeholders and an ordered
// list of declared dimensions.
type DefinitionContent struct {
	// Template is the prompt template shown to models.
	Template string `json:"template" yaml:"template" mapstructure:"template"`

	// Dimensions holds the declared dimensions in authoring order.
	Dimensions []Dimension `json:"dimensions" yaml:"dimensions" mapstructure:"dimensions" validate:"dive"`
}

// DimensionNames returns the declared dimension names in order.
func (c DefinitionContent) DimensionNames() []string {
	names := make([]string, 0, len(c.Dimensions))
	for _, d := range c.Dimensions {
		names = append(names, d.Name)
	}
	return names
}

// ScenarioRecords maps a scenario ID to the attribute values that scenario
// was generated under, as persisted alongside its transcripts.
type ScenarioRecords map[string]map[string]string

// KeySets returns the attribute-key set of every record, ordered by
// scenario ID so that callers iterating the result are deterministic.
func (r ScenarioRecords) KeySets() [][]string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sets := make([][]string, 0, len(ids))
	for _, id := range ids {
		attrs := r[id]
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sets = append(sets, keys)
	}
	return sets
}

// ObservedKeys returns every distinct attribute key across all records,
// sorted ascending.
func (r ScenarioRecords) ObservedKeys() []string {
	seen := make(map[string]struct{})
	for _, attrs := range r {
		for k := range attrs {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decision scale bounds.
const (
	MinDecisionScore = 1
	MaxDecisionScore = 5
)

// DecisionLabelMap maps each decision score (1..5) to its display label.
// A map is either copied verbatim from an authored rubric or derived in
// full; it is never partially derived.
type DecisionLabelMap map[int]string

// Complete reports whether every score on the decision scale has a label.
func (m DecisionLabelMap) Complete() bool {
	for s := MinDecisionScore; s <= MaxDecisionScore; s++ {
		if m[s] == "" {
			return false
		}
	}
	return true
}

// LabelSource records which rule produced a DecisionLabelMap.
type LabelSource string

// Label sources in priority order.
const (
	LabelSourceExplicit    LabelSource = "explicit_rubric"
	LabelSourceInferred    LabelSource = "template_inference"
	LabelSourceDeclared    LabelSource = "declared_order"
	LabelSourceSingle      LabelSource = "single_attribute"
	LabelSourceUnsupported LabelSource = "unsupported"
)

// SideNames are the canonical names of the two sides of the scale:
// AName is favored by score 1, BName by score 5.
type SideNames struct {
	AName string `json:"aName"`
	BName string `json:"bName"`
}

// AttributePairing maps the low (score 1) and high (score 5) sides onto
// attribute keys as they appear in persisted scenario data.
type AttributePairing struct {
	LowAttribute  string `json:"lowAttribute"`
	HighAttribute string `json:"highAttribute"`
}

// AxisSelection is the pair of scenario attributes used as the row and
// column axes of a pivot table.
type AxisSelection struct {
	RowDim string `json:"rowDim"`
	ColDim string `json:"colDim"`
}

// WarningCode classifies an author-facing definition warning.
type WarningCode string

// Warning codes reported by definition linting.
const (
	// WarningDirectionFallback means template inference could not resolve
	// both ends of the scale and declared order was used instead.
	WarningDirectionFallback WarningCode = "direction_fallback"

	// WarningUnknownPlaceholder means a template placeholder matches no
	// declared dimension.
	WarningUnknownPlaceholder WarningCode = "unknown_placeholder"

	// WarningPartialRubric means a rubric dimension exists but is not a
	// complete five-level scale, so it was ignored.
	WarningPartialRubric WarningCode = "partial_rubric"
)

// Warning is an author-facing diagnostic about a definition. Warnings never
// alter derived labels.
type Warning struct {
	Code       WarningCode `json:"code"`
	Message    string      `json:"message"`
	Token      string      `json:"token,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DecisionRecords maps a scenario ID to the decision code stored for it.
// Codes are kept as text because stored decisions may be non-numeric, such
// as "other".
type DecisionRecords map[string]string

// Outcome says which side of the decision scale a decision favors.
type Outcome string

// Decision outcomes.
const (
	OutcomeLow     Outcome = "low"
	OutcomeHigh    Outcome = "high"
	OutcomeNeutral Outcome = "neutral"
	OutcomeUnknown Outcome = "unknown"
)

// ScenarioDecision is one stored decision read against the resolved scale.
type ScenarioDecision struct {
	ScenarioID string `json:"scenarioId"`

	// Scenario is the display name built from the scenario's attribute
	// scores, empty when the scenario has no record.
	Scenario string `json:"scenario,omitempty"`

	// Code is the parsed decision code, 0 when the stored value is not one.
	Code    int     `json:"code,omitempty"`
	Label   string  `json:"label,omitempty"`
	Outcome Outcome `json:"outcome"`

	// FavoredAttribute is the scenario attribute on the favored side.
	FavoredAttribute string `json:"favoredAttribute,omitempty"`
}
