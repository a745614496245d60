package polarity

import (
	"strings"

	"github.com/ahrav/go-vignette/internal/domain"
)

// labelPrefixes are stripped, at most one per label, to recover side names.
var labelPrefixes = []string{
	PrefixStronglySupport,
	PrefixSomewhatSupport,
	PrefixStronglyOppose,
	PrefixSomewhatOppose,
}

// SideName strips a recognized intensity prefix from label. A label without
// one is returned trimmed.
func SideName(label string) string {
	trimmed := strings.TrimSpace(label)
	for _, p := range labelPrefixes {
		if rest, ok := strings.CutPrefix(trimmed, p); ok {
			return strings.TrimSpace(rest)
		}
	}
	return trimmed
}

// ExtractSideNames returns the side names favored by scores 1 and 5.
// It returns false when either label is missing.
func ExtractSideNames(labels domain.DecisionLabelMap) (domain.SideNames, bool) {
	low, high := SideName(labels[domain.MinDecisionScore]), SideName(labels[domain.MaxDecisionScore])
	if low == "" || high == "" {
		return domain.SideNames{}, false
	}
	return domain.SideNames{AName: low, BName: high}, true
}
