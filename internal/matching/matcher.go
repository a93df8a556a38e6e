// Package matching decides whether a résumé satisfies a position's keyword
// requirements, scores the hit and ranks results.
//
// Everything here is pure: no I/O, no shared state, no errors. Callers build a
// blob once per record with BuildBlob and evaluate it against any number of
// keyword lists.
package matching

import "strings"

// Mode selects how a keyword list is satisfied.
type Mode string

const (
	// ModeAny needs at least one keyword to appear.
	ModeAny Mode = "any"
	// ModeAll needs every keyword to appear.
	ModeAll Mode = "all"
)

// PointsPerHit is the fixed linear weight of a matched keyword.
const PointsPerHit = 10

// ParseMode maps a stored match_type to a Mode. Anything other than "all"
// (including empty and unknown values) is ModeAny.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeAll)) {
		return ModeAll
	}
	return ModeAny
}

// Match reports which keywords occur in blob and whether the list is
// satisfied under mode. blob must already be lower-cased (see BuildBlob).
//
// Containment is a plain substring test, so "go" matches inside "going".
// Blank keywords are ignored entirely: they neither match nor count towards
// the ModeAll requirement. matched keeps the caller's order and spelling.
func Match(blob string, keywords []string, mode Mode) (matched []string, ok bool) {
	required := 0
	matched = []string{}
	for _, kw := range keywords {
		needle := strings.ToLower(strings.TrimSpace(kw))
		if needle == "" {
			continue
		}
		required++
		if strings.Contains(blob, needle) {
			matched = append(matched, kw)
		}
	}

	if mode == ModeAll {
		return matched, len(matched) == required
	}
	return matched, len(matched) > 0
}

// Score is the score for a given number of matched keywords.
func Score(hits int) int { return hits * PointsPerHit }

// RequiredCount is the number of non-blank keywords in the list.
func RequiredCount(keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.TrimSpace(kw) != "" {
			n++
		}
	}
	return n
}

// Evaluate runs Match and packs the outcome into a Hit for record id.
func Evaluate(id int64, blob string, keywords []string, mode Mode) (Hit, bool) {
	matched, ok := Match(blob, keywords, mode)
	return Hit{
		ID:              id,
		MatchedKeywords: matched,
		HitCount:        len(matched),
		Score:           Score(len(matched)),
	}, ok
}
