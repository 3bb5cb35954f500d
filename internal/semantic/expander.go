// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package semantic expands a raw query into a weighted term set using a
// static tiered synonym knowledge base. Expansion is deterministic: it
// makes no network calls and the knowledge base never changes after init.
package semantic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// quotedPhrasePattern matches terms the user quoted to keep as phrases.
var quotedPhrasePattern = regexp.MustCompile(`"([^"]*)"`)

// tokenSplitPattern separates tokens on whitespace, commas, hyphens, and underscores.
var tokenSplitPattern = regexp.MustCompile(`[,\s\-_]+`)

// Expander derives weighted term sets from raw queries.
type Expander struct {
	cfg types.ExpansionConfig
}

// New returns an Expander with the given tier weights. Zero-valued fields
// fall back to the standard defaults.
func New(cfg types.ExpansionConfig) *Expander {
	def := types.DefaultExpansionConfig()
	if cfg.OriginalWeight <= 0 {
		cfg.OriginalWeight = def.OriginalWeight
	}
	if cfg.Tier1Weight <= 0 {
		cfg.Tier1Weight = def.Tier1Weight
	}
	if cfg.Tier2Weight <= 0 {
		cfg.Tier2Weight = def.Tier2Weight
	}
	if cfg.Tier3Weight <= 0 {
		cfg.Tier3Weight = def.Tier3Weight
	}
	if cfg.Tier3Cap <= 0 {
		cfg.Tier3Cap = def.Tier3Cap
	}
	return &Expander{cfg: cfg}
}

// Expand tokenizes the query and augments it with knowledge-base synonyms
// according to the mode. Original terms carry the maximum weight; tier
// additions carry decreasing weights; a term appearing in several tiers
// keeps the highest weight assigned. Unknown terms pass through unchanged.
func (e *Expander) Expand(q types.Query, mode types.ExpansionMode) (types.ExpandedQuery, error) {
	eq, _, err := e.expand(q, mode)
	return eq, err
}

// Explain returns the expansion rationale: per original term, the
// additions grouped by tier. The reported additions are exactly the
// non-original terms of the matching Expand result, built from the same
// pass so the two can never drift apart.
func (e *Expander) Explain(q types.Query, mode types.ExpansionMode) (types.ExplanationReport, error) {
	_, report, err := e.expand(q, mode)
	return report, err
}

// Literal converts a query into a weighted term set without any expansion:
// every token carries the original weight and there are no additions.
func Literal(q types.Query) types.ExpandedQuery {
	terms := Tokenize(q.Text)
	eq := types.ExpandedQuery{Original: terms}
	for _, t := range terms {
		eq.Terms = append(eq.Terms, types.WeightedTerm{Term: t, Weight: 1.0})
	}
	return eq
}

func (e *Expander) expand(q types.Query, mode types.ExpansionMode) (types.ExpandedQuery, types.ExplanationReport, error) {
	maxTier := mode.MaxTier()
	if maxTier == 0 {
		return types.ExpandedQuery{}, types.ExplanationReport{},
			fmt.Errorf("invalid expansion mode %q", mode)
	}

	originals := Tokenize(q.Text)
	if len(originals) == 0 {
		return types.ExpandedQuery{}, types.ExplanationReport{},
			fmt.Errorf("query %q contains no searchable terms", q.Text)
	}

	eq := types.ExpandedQuery{Original: originals}
	report := types.ExplanationReport{
		Query:    q.Text,
		Mode:     mode,
		Original: originals,
	}

	// Index into eq.Terms per term, for highest-weight dedup.
	index := make(map[string]int, len(originals))
	add := func(term string, weight float64) bool {
		if i, ok := index[term]; ok {
			if weight > eq.Terms[i].Weight {
				eq.Terms[i].Weight = weight
			}
			return false
		}
		index[term] = len(eq.Terms)
		eq.Terms = append(eq.Terms, types.WeightedTerm{Term: term, Weight: weight})
		return true
	}

	isOriginal := make(map[string]bool, len(originals))
	for _, t := range originals {
		isOriginal[t] = true
		add(t, e.cfg.OriginalWeight)
	}

	for _, term := range originals {
		entry, ok := kb[term]
		if !ok {
			continue
		}

		var additions types.TermAdditions
		additions.Term = term

		tiers := []struct {
			list   []string
			weight float64
			out    *[]string
		}{
			{entry.Tier1, e.cfg.Tier1Weight, &additions.Tier1},
			{entry.Tier2, e.cfg.Tier2Weight, &additions.Tier2},
			{entry.Tier3, e.cfg.Tier3Weight, &additions.Tier3},
		}

		for tier, t := range tiers {
			if tier+1 > maxTier {
				break
			}
			list := t.list
			if tier == 2 && len(list) > e.cfg.Tier3Cap {
				list = list[:e.cfg.Tier3Cap]
			}
			for _, raw := range list {
				syn := normalizeTerm(raw)
				if syn == "" || isOriginal[syn] {
					continue
				}
				add(syn, t.weight)
				*t.out = append(*t.out, syn)
			}
		}

		if len(additions.Tier1)+len(additions.Tier2)+len(additions.Tier3) > 0 {
			report.Additions = append(report.Additions, additions)
		}
	}

	return eq, report, nil
}

// Tokenize lowercases the raw query and extracts searchable terms:
// quoted phrases, individual tokens minus stop words, and adjacent-word
// compounds present in the knowledge base. Short tokens survive only
// when the knowledge base knows them (abbreviations like "ai").
// Order is first-occurrence; repeated terms are dropped.
func Tokenize(raw string) []string {
	var terms []string
	seen := make(map[string]bool)
	keep := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	for _, m := range quotedPhrasePattern.FindAllStringSubmatch(raw, -1) {
		keep(normalizeTerm(m[1]))
	}
	unquoted := quotedPhrasePattern.ReplaceAllString(raw, " ")

	tokens := tokenSplitPattern.Split(strings.ToLower(unquoted), -1)
	var kept []string
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if len(tok) <= 2 {
			if _, known := kb[tok]; !known {
				continue
			}
		}
		kept = append(kept, tok)
	}

	// Adjacent-word compounds that the knowledge base knows as phrases
	// (e.g. "machine learning") are matched before the single tokens.
	for i := 0; i+1 < len(kept); i++ {
		compound := kept[i] + " " + kept[i+1]
		if _, ok := kb[compound]; ok {
			keep(compound)
		}
	}
	for _, tok := range kept {
		keep(tok)
	}

	return terms
}

// normalizeTerm lowercases and collapses internal whitespace.
func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
