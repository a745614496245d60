package polarity

import (
	"strings"

	"github.com/ahrav/go-vignette/internal/domain"
)

// Similarity weights used when matching side names to attribute keys.
const (
	exactMatchScore  = 100
	containmentScore = 60
	sharedTokenScore = 10
)

// AttributeSimilarity scores how well a side name matches an attribute key:
// 100 for equal normalized forms, 60 when one contains the other, and
// otherwise 10 per shared case-insensitive token.
func AttributeSimilarity(side, key string) int {
	ns, nk := normalizeName(side), normalizeName(key)
	if ns == "" || nk == "" {
		return 0
	}
	if ns == nk {
		return exactMatchScore
	}
	if strings.Contains(ns, nk) || strings.Contains(nk, ns) {
		return containmentScore
	}

	keyTokens := tokenSet(key)
	shared := 0
	for tok := range tokenSet(side) {
		if _, ok := keyTokens[tok]; ok {
			shared++
		}
	}
	return sharedTokenScore * shared
}

// MapDecisionSidesToScenarioAttributes pairs the low (score 1) and high
// (score 5) side names with the first two observed attribute keys, choosing
// whichever of the two pairings has the greater total similarity. Ties keep
// the observed order. With fewer than two keys the side names are returned
// unchanged.
func MapDecisionSidesToScenarioAttributes(low, high string, keys []string) domain.AttributePairing {
	if len(keys) < 2 {
		return domain.AttributePairing{LowAttribute: low, HighAttribute: high}
	}

	k1, k2 := keys[0], keys[1]
	straight := AttributeSimilarity(low, k1) + AttributeSimilarity(high, k2)
	swapped := AttributeSimilarity(low, k2) + AttributeSimilarity(high, k1)

	if swapped > straight {
		return domain.AttributePairing{LowAttribute: k2, HighAttribute: k1}
	}
	return domain.AttributePairing{LowAttribute: k1, HighAttribute: k2}
}
