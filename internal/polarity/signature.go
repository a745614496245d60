package polarity

import (
	"slices"
	"strings"
)

// signatureSeparator joins sorted keys into a signature string.
const signatureSeparator = "|"

// Signature returns the sorted keys of a record and their joined form.
func Signature(keys []string) ([]string, string) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return sorted, strings.Join(sorted, signatureSeparator)
}

// DominantSignature returns the sorted key list shared by the most records.
// Ties go to the lexicographically smallest joined signature. A record with
// no keys counts toward the empty signature, so a majority of key-less
// records yields an empty result, as does having no records at all.
func DominantSignature(keySets [][]string) []string {
	counts := make(map[string]int)
	keysBySig := make(map[string][]string)

	for _, keys := range keySets {
		sorted, sig := Signature(keys)
		counts[sig]++
		if _, ok := keysBySig[sig]; !ok {
			keysBySig[sig] = sorted
		}
	}

	best, bestCount := "", 0
	for sig, n := range counts {
		if n > bestCount || (n == bestCount && sig < best) {
			best, bestCount = sig, n
		}
	}
	return append([]string{}, keysBySig[best]...)
}
