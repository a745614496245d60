package polarity

import (
	"regexp"
	"strconv"
	"strings"
)

// rubricLinePattern matches scale lines such as "5 - Strongly support X",
// "1. Prefer Y" or "3) Neutral". The score must be a single digit 1-5.
var rubricLinePattern = regexp.MustCompile(`^\s*([1-5])\s*[-.):\x{2013}\x{2014}]\s*(\S.*)$`)

// RubricLine is a parsed "score <separator> text" line of a template.
type RubricLine struct {
	Score int
	Text  string
}

// ParseRubricLines extracts every scale line from a template in order.
func ParseRubricLines(template string) []RubricLine {
	var out []RubricLine
	for _, line := range splitLines(template) {
		m := rubricLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		score, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, RubricLine{Score: score, Text: strings.TrimSpace(m[2])})
	}
	return out
}

// ScaleAssignment maps decision scores (1, 2, 4 and 5) to the attribute
// each one favors.
type ScaleAssignment map[int]string

// BuildVocabulary collects the keyword tokens of every template line that
// contains a placeholder for name.
func BuildVocabulary(template, name string) map[string]struct{} {
	target := normalizeName(name)
	vocab := make(map[string]struct{})
	if target == "" {
		return vocab
	}

	for _, line := range splitLines(template) {
		if !lineMentions(line, target) {
			continue
		}
		for _, tok := range keywordTokens(line) {
			vocab[tok] = struct{}{}
		}
	}
	return vocab
}

// lineMentions reports whether line has a placeholder resolving to the
// normalized name target.
func lineMentions(line, target string) bool {
	for _, ph := range ParsePlaceholders(line) {
		if normalizeName(ph.Name) == target {
			return true
		}
	}
	return false
}

// InferRubricDirection determines which attribute each end of the decision
// scale favors by comparing rubric lines against per-attribute keyword
// vocabularies. A rubric line naming exactly one attribute's placeholder is
// direct evidence for that attribute; otherwise the attribute with strictly
// greater keyword overlap wins the score. Scores 2 and 4 inherit from 1 and
// 5 unless resolved on their own.
//
// It returns false unless score 1 and score 5 are both resolved, and to
// different attributes.
func InferRubricDirection(template, nameA, nameB string) (ScaleAssignment, bool) {
	tokA, tokB := normalizeName(nameA), normalizeName(nameB)
	if tokA == "" || tokB == "" || tokA == tokB {
		return nil, false
	}

	vocabA := BuildVocabulary(template, nameA)
	vocabB := BuildVocabulary(template, nameB)

	type evidence struct{ a, b int }
	byScore := make(map[int]*evidence)

	for _, line := range ParseRubricLines(template) {
		ev, ok := byScore[line.Score]
		if !ok {
			ev = &evidence{}
			byScore[line.Score] = ev
		}

		mentionsA, mentionsB := lineMentions(line.Text, tokA), lineMentions(line.Text, tokB)
		switch {
		case mentionsA && !mentionsB:
			ev.a += directMentionWeight
			continue
		case mentionsB && !mentionsA:
			ev.b += directMentionWeight
			continue
		}

		seen := make(map[string]struct{})
		for _, tok := range keywordTokens(line.Text) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			if _, ok := vocabA[tok]; ok {
				ev.a++
			}
			if _, ok := vocabB[tok]; ok {
				ev.b++
			}
		}
	}

	assignment := make(ScaleAssignment, 4)
	for score, ev := range byScore {
		switch {
		case ev.a > ev.b:
			assignment[score] = nameA
		case ev.b > ev.a:
			assignment[score] = nameB
		}
	}

	// Both extremes favoring one attribute is contradictory evidence.
	if assignment[1] == "" || assignment[5] == "" || assignment[1] == assignment[5] {
		return nil, false
	}
	if assignment[2] == "" {
		assignment[2] = assignment[1]
	}
	if assignment[4] == "" {
		assignment[4] = assignment[5]
	}
	delete(assignment, 3)

	return assignment, true
}

// directMentionWeight is the evidence credited to an attribute whose
// placeholder appears on its own in a rubric line. It outweighs any
// plausible keyword overlap from the same line.
const directMentionWeight = 1000
