package polarity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var (
	// placeholderPattern matches "[token]" placeholders without nesting.
	placeholderPattern = regexp.MustCompile(`\[([^\[\]\n]+)\]`)

	// explicitScoreSuffix matches the "_ScoreN" suffix of placeholders that
	// pin a dimension to a specific level, e.g. "[Security_Score5]".
	explicitScoreSuffix = regexp.MustCompile(`(?i)_score\d+$`)
)

// minVocabularyTokenLen is the shortest token kept in a keyword vocabulary.
const minVocabularyTokenLen = 3

// stopwords are dropped from rubric and vocabulary token streams. Scale
// words are included so that rubric phrasing shared by both extremes
// never counts as evidence for either side.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {},
	"your": {}, "with": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"from": {}, "they": {}, "them": {}, "their": {}, "there": {}, "was": {},
	"were": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"will": {}, "would": {}, "should": {}, "could": {}, "can": {}, "may": {},
	"might": {}, "must": {}, "shall": {}, "into": {}, "onto": {}, "over": {},
	"under": {}, "about": {}, "than": {}, "then": {}, "what": {}, "which": {},
	"who": {}, "whom": {}, "whose": {}, "when": {}, "where": {}, "why": {},
	"how": {}, "all": {}, "any": {}, "both": {}, "each": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "only": {}, "own": {},
	"same": {}, "very": {}, "just": {}, "also": {}, "its": {}, "our": {},
	"his": {}, "her": {}, "she": {}, "him": {}, "does": {}, "did": {},
	"doing": {}, "while": {}, "between": {}, "one": {}, "two": {}, "either": {},
	"neither": {}, "option": {}, "options": {}, "choose": {}, "choosing": {},
	"choice": {}, "decide": {}, "decision": {}, "rate": {}, "rating": {},
	"scale": {}, "score": {}, "respond": {}, "response": {}, "please": {},
	"strongly": {}, "somewhat": {}, "slightly": {}, "support": {},
	"supports": {}, "oppose": {}, "opposes": {}, "neutral": {}, "favor": {},
	"favour": {}, "prefer": {}, "preference": {}, "agree": {}, "disagree": {},
}

// fold returns the Unicode case-folded form of s. A new Caser is built per
// call because Casers keep internal state and must not be shared between
// goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// isWordRune reports whether r belongs inside a token.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// normalizeName folds case and strips every non-alphanumeric rune, so
// "Self_Direction Action" and "self-direction-action" compare equal.
func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return -1
	}, fold(s))
}

// tokenize splits s on runs of non-alphanumeric runes and folds case.
func tokenize(s string) []string {
	return strings.FieldsFunc(fold(s), func(r rune) bool { return !isWordRune(r) })
}

// tokenSet returns the distinct tokens of s.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

// keywordTokens tokenizes s for vocabulary comparison: placeholders are
// removed, and short tokens and stopwords are dropped.
func keywordTokens(s string) []string {
	s = placeholderPattern.ReplaceAllString(s, " ")
	var out []string
	for _, tok := range tokenize(s) {
		if utf8.RuneCountInString(tok) < minVocabularyTokenLen {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Placeholder is one "[token]" occurrence in a template.
type Placeholder struct {
	// Raw is the text between the brackets.
	Raw string
	// Name is Raw with any explicit "_ScoreN" suffix removed.
	Name string
	// Offset is the byte offset of the opening bracket.
	Offset int
}

// ParsePlaceholders returns the placeholders of text in order of
// appearance.
func ParsePlaceholders(text string) []Placeholder {
	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	out := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		raw := strings.TrimSpace(text[m[2]:m[3]])
		if raw == "" {
			continue
		}
		out = append(out, Placeholder{
			Raw:    raw,
			Name:   explicitScoreSuffix.ReplaceAllString(raw, ""),
			Offset: m[0],
		})
	}
	return out
}

// splitLines splits text into lines, tolerating CRLF line endings.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
