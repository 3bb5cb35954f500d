// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-scout pipeline:
// queries, expansion results, candidates, per-paper results, and stage
// configuration.
package types

import (
	"fmt"
	"time"
)

// Query holds the user's search parameters. Immutable once constructed.
type Query struct {
	// Text is the raw query string.
	Text string `json:"text" yaml:"text"`

	// Category is an optional index category filter (e.g. "cs.AI").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// DateFrom is the optional inclusive start of the publication date range.
	DateFrom time.Time `json:"date_from,omitempty" yaml:"date_from,omitempty"`

	// DateTo is the optional inclusive end of the publication date range.
	DateTo time.Time `json:"date_to,omitempty" yaml:"date_to,omitempty"`
}

// Validate checks that the query has text and a consistent date range.
func (q Query) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("query text is empty")
	}
	if !q.DateFrom.IsZero() && !q.DateTo.IsZero() && q.DateFrom.After(q.DateTo) {
		return fmt.Errorf("date range start %s is after end %s",
			q.DateFrom.Format("2006-01-02"), q.DateTo.Format("2006-01-02"))
	}
	return nil
}

// ExpansionMode selects how aggressively a query is expanded. Modes form a
// total order of increasing breadth: conservative includes synonym tier 1
// only, moderate tiers 1-2, aggressive tiers 1-3.
type ExpansionMode string

const (
	ModeConservative ExpansionMode = "conservative"
	ModeModerate     ExpansionMode = "moderate"
	ModeAggressive   ExpansionMode = "aggressive"
)

// ParseExpansionMode validates a mode string from CLI or config input.
func ParseExpansionMode(s string) (ExpansionMode, error) {
	switch ExpansionMode(s) {
	case ModeConservative, ModeModerate, ModeAggressive:
		return ExpansionMode(s), nil
	}
	return "", fmt.Errorf("invalid expansion mode %q (want conservative, moderate, or aggressive)", s)
}

// MaxTier returns the highest synonym tier the mode includes.
func (m ExpansionMode) MaxTier() int {
	switch m {
	case ModeConservative:
		return 1
	case ModeModerate:
		return 2
	case ModeAggressive:
		return 3
	}
	return 0
}

// WeightedTerm is a search term with its relevance weight.
type WeightedTerm struct {
	Term   string  `json:"term" yaml:"term"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// ExpandedQuery is the weighted term set derived from a Query. Terms are
// unique and ordered: originals first (at the maximum weight), then
// additions in tier order. Immutable once derived.
type ExpandedQuery struct {
	// Original lists the normalized terms taken from the raw query.
	Original []string `json:"original" yaml:"original"`

	// Terms is the full weighted term set, originals included.
	Terms []WeightedTerm `json:"terms" yaml:"terms"`
}

// Has reports whether the expanded query contains the given term.
func (e ExpandedQuery) Has(term string) bool {
	for _, t := range e.Terms {
		if t.Term == term {
			return true
		}
	}
	return false
}

// TermAdditions groups the expansion additions for one original term by tier.
type TermAdditions struct {
	Term  string   `json:"term" yaml:"term"`
	Tier1 []string `json:"tier1,omitempty" yaml:"tier1,omitempty"`
	Tier2 []string `json:"tier2,omitempty" yaml:"tier2,omitempty"`
	Tier3 []string `json:"tier3,omitempty" yaml:"tier3,omitempty"`
}

// ExplanationReport is the human-readable rationale for a query expansion.
// Its additions are exactly the non-original terms of the matching
// ExpandedQuery.
type ExplanationReport struct {
	Query     string          `json:"query" yaml:"query"`
	Mode      ExpansionMode   `json:"mode" yaml:"mode"`
	Original  []string        `json:"original" yaml:"original"`
	Additions []TermAdditions `json:"additions,omitempty" yaml:"additions,omitempty"`
}

// SummaryType selects the prompt template used for summarization.
type SummaryType string

const (
	SummaryGeneral      SummaryType = "general"
	SummaryKeyFindings  SummaryType = "key_findings"
	SummaryMethods      SummaryType = "methods"
	SummaryImplications SummaryType = "implications"
)

// ParseSummaryType validates a summary type string from CLI or config input.
func ParseSummaryType(s string) (SummaryType, error) {
	switch SummaryType(s) {
	case SummaryGeneral, SummaryKeyFindings, SummaryMethods, SummaryImplications:
		return SummaryType(s), nil
	}
	return "", fmt.Errorf("invalid summary type %q (want general, key_findings, methods, or implications)", s)
}
