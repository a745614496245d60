package polarity

import (
	"slices"
	"strings"

	"github.com/ahrav/go-vignette/internal/domain"
)

// ResolveScenarioAttributes chooses the attribute names to pivot scenario
// results on.
//
// Two or more preferred names are returned as the first two, verbatim, even
// when no record carries them: declared naming is trusted for labeling
// over the observed data shape. A single preferred name that some record
// carries is paired with the first dominant-signature key distinct from it.
// Otherwise the dominant signature is returned whole.
func ResolveScenarioAttributes(records domain.ScenarioRecords, preferred []string) []string {
	prefs := distinctNonEmpty(preferred)
	if len(prefs) >= 2 {
		return prefs[:2]
	}

	dominant := DominantSignature(records.KeySets())
	if len(prefs) == 0 || !slices.Contains(records.ObservedKeys(), prefs[0]) {
		return dominant
	}

	out := []string{prefs[0]}
	for _, key := range dominant {
		if key != prefs[0] {
			return append(out, key)
		}
	}
	return out
}

// ResolveScenarioAxisDimensions sanitizes a possibly stale axis selection
// against the attributes currently available. A requested axis is kept when
// still available, otherwise it becomes the first available attribute not
// taken by the other axis. RowDim and ColDim always differ when at least two
// distinct attributes are available. An empty available list passes the
// request through unchanged.
func ResolveScenarioAxisDimensions(available []string, requestedRow, requestedCol string) domain.AxisSelection {
	if len(available) == 0 {
		return domain.AxisSelection{RowDim: requestedRow, ColDim: requestedCol}
	}

	has := func(name string) bool { return name != "" && slices.Contains(available, name) }
	firstExcept := func(taken string) string {
		for _, a := range available {
			if a != "" && a != taken {
				return a
			}
		}
		return ""
	}

	row, col := requestedRow, requestedCol
	if !has(col) {
		col = ""
	}
	if !has(row) {
		row = firstExcept(col)
	}
	if col == "" || col == row {
		col = firstExcept(row)
	}
	// A single distinct attribute can only fill both axes with itself.
	if row == "" {
		row = col
	}
	if col == "" {
		col = row
	}

	return domain.AxisSelection{RowDim: row, ColDim: col}
}

func distinctNonEmpty(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}
