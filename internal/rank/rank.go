// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores candidate papers against an expanded query and
// orders them for selection. The scorer is a small heuristic: the index
// already pre-filters by the raw query, so ranking only has to reorder a
// modest candidate pool.
package rank

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Field multipliers: a term found in the title counts double a term
// found in the abstract.
const (
	titleWeight    = 2.0
	abstractWeight = 1.0
)

// Score computes the relevance of a candidate against the expanded query.
// For each weighted term present in a field, the term's weight times the
// field multiplier is added to the score. There is no normalization by
// document length: term-dense matches win, which is acceptable for a
// rank-not-retrieve use case. The score is a pure function of its inputs.
func Score(c types.Candidate, eq types.ExpandedQuery) types.ScoredCandidate {
	title := normalize(c.Title)
	abstract := normalize(c.Abstract)

	sc := types.ScoredCandidate{Candidate: c}
	for _, wt := range eq.Terms {
		var contribution float64
		if containsTerm(title, wt.Term) {
			contribution += wt.Weight * titleWeight
		}
		if containsTerm(abstract, wt.Term) {
			contribution += wt.Weight * abstractWeight
		}
		if contribution > 0 {
			sc.Score += contribution
			sc.MatchedTerms = append(sc.MatchedTerms, wt.Term)
		}
	}
	return sc
}

// Rank scores all candidates and sorts them descending by score. Ties
// break toward the more recently published paper, then keep the original
// index order (stable sort). Zero-score candidates are retained — they
// matched the raw query at the index — and sort last.
func Rank(candidates []types.Candidate, eq types.ExpandedQuery) []types.ScoredCandidate {
	scored := make([]types.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = Score(c, eq)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Published.After(scored[j].Published)
	})
	return scored
}

// normalize lowercases text and strips punctuation so term lookups see a
// clean space-separated word sequence.
func normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return " " + strings.Join(strings.Fields(b.String()), " ") + " "
}

// containsTerm reports whether the normalized text contains the term on
// word boundaries. Multi-word terms match as phrases.
func containsTerm(normalized, term string) bool {
	if term == "" {
		return false
	}
	needle := " " + strings.Join(strings.Fields(strings.Map(stripPunct, term)), " ") + " "
	return strings.Contains(normalized, needle)
}

func stripPunct(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return unicode.ToLower(r)
	}
	return ' '
}
