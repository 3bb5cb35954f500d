// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ContentSource indicates which text a paper's summary was generated from.
type ContentSource string

const (
	// SourceFullText means the extracted PDF text was used.
	SourceFullText ContentSource = "full_text"

	// SourceAbstract means the pipeline fell back to the abstract.
	SourceAbstract ContentSource = "abstract_only"
)

// Candidate is a paper record returned by the search index, before ranking.
// Candidates are read-only snapshots; the pipeline never mutates them.
type Candidate struct {
	// ID is the canonical identifier from the index (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the index.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract with newlines collapsed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Published is the publication or preprint date.
	Published time.Time `json:"published" yaml:"published"`

	// Categories lists the index's subject tags (e.g. "cs.AI").
	Categories []string `json:"categories" yaml:"categories"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// PDFURL is the direct link to the paper's PDF.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`
}

// ScoredCandidate is a Candidate with its relevance score against an
// expanded query. The score is a pure function of (Candidate, ExpandedQuery).
type ScoredCandidate struct {
	Candidate `yaml:",inline"`

	// Score is the accumulated term-match score, never negative.
	Score float64 `json:"score" yaml:"score"`

	// MatchedTerms lists the query terms that contributed to the score,
	// kept for explainability in output rendering.
	MatchedTerms []string `json:"matched_terms,omitempty" yaml:"matched_terms,omitempty"`
}

// PaperResult is the per-paper outcome of a pipeline run. It is built
// stage by stage and immutable once the pipeline finishes the paper.
type PaperResult struct {
	ScoredCandidate `yaml:",inline"`

	// ContentSource records whether summarization saw full text or the abstract.
	ContentSource ContentSource `json:"content_source" yaml:"content_source"`

	// FullText holds the extracted PDF text when full-text resolution succeeded.
	FullText string `json:"full_text,omitempty" yaml:"full_text,omitempty"`

	// Summary is the generated summary, empty if summarization was skipped or failed.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Error records a per-paper recoverable failure (text fetch or
	// summarization). A non-empty Error never removes the paper from output.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
