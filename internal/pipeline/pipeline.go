// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the end-to-end flow: expand the query, fetch
// candidates from the index, rank them, then per selected paper resolve
// content, summarize, and clean up. Papers are processed strictly in
// ranked order and one paper's failure never aborts its siblings.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/paper-scout/internal/rank"
	"github.com/pdiddy/paper-scout/internal/semantic"
	"github.com/pdiddy/paper-scout/internal/summarize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// Index fetches candidate papers for a raw query. The index is the
// source of truth for relevance pre-filtering; expansion only re-ranks
// and never re-queries with synonym terms.
type Index interface {
	Search(ctx context.Context, q types.Query, limit int) ([]types.Candidate, error)
}

// TextResolver fetches a paper's full text and releases downloaded
// artifacts. Implemented by pdftext.Resolver; mocked in tests.
type TextResolver interface {
	FullText(ctx context.Context, c types.Candidate) (string, error)
	Remove(id string) error
}

// Generator runs a rendered summary request against the model.
// Implemented by summarize.Client; mocked in tests.
type Generator interface {
	Generate(ctx context.Context, req summarize.Request) (string, error)
}

// SummaryCache looks up and stores finished summaries so repeated runs
// skip the model call. A nil cache disables reuse.
type SummaryCache interface {
	Lookup(ctx context.Context, id string, st types.SummaryType, model string, src types.ContentSource) (string, bool, error)
	Save(ctx context.Context, r types.PaperResult, st types.SummaryType, model string) error
}

// Options enumerate one run's behavior.
type Options struct {
	// MaxResults is the number of papers kept after ranking. Must be positive.
	MaxResults int

	// SemanticSearch enables query expansion before ranking.
	SemanticSearch bool

	// Mode selects the expansion breadth when SemanticSearch is on.
	Mode types.ExpansionMode

	// FullText requests PDF text resolution, with silent fallback to
	// the abstract on any failure.
	FullText bool

	// Summarize requests a model summary per paper.
	Summarize bool

	// SummaryType selects the prompt template.
	SummaryType types.SummaryType

	// Model is the Ollama model identifier.
	Model string

	// Cleanup releases each paper's downloaded artifact once its
	// summarization finishes.
	Cleanup bool
}

// Validate rejects invalid configuration before any collaborator call.
func (o Options) Validate() error {
	if o.MaxResults <= 0 {
		return fmt.Errorf("max results must be positive, got %d", o.MaxResults)
	}
	if o.SemanticSearch {
		if _, err := types.ParseExpansionMode(string(o.Mode)); err != nil {
			return err
		}
	}
	if o.Summarize {
		if _, err := types.ParseSummaryType(string(o.SummaryType)); err != nil {
			return err
		}
	}
	return nil
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	Index    Index
	Expander *semantic.Expander
	Text     TextResolver
	LLM      Generator
	Cache    SummaryCache
	Cfg      types.PipelineConfig

	// Progress receives per-paper status lines. Defaults to io.Discard.
	Progress io.Writer

	// OnPaper, when set, is called after each paper reaches its
	// terminal state. Position i is the paper's rank, n the batch size.
	OnPaper func(i, n int, r types.PaperResult)
}

// Run executes the pipeline and returns one PaperResult per selected
// candidate, in ranked order. Recoverable per-paper failures are
// recorded on the result; a requested paper is never dropped because an
// enrichment stage failed. Index failure is fatal for the run and
// returns zero results. Cancellation is honored at paper boundaries:
// the papers finished so far come back alongside ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, q types.Query, opts Options) ([]types.PaperResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	progress := o.Progress
	if progress == nil {
		progress = io.Discard
	}

	expanded, err := o.expandQuery(q, opts)
	if err != nil {
		return nil, err
	}

	pool := opts.MaxResults * o.poolMultiplier()
	candidates, err := o.Index.Search(ctx, q, pool)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	fmt.Fprintf(progress, "found %d candidates\n", len(candidates))

	ranked := rank.Rank(candidates, expanded)
	if len(ranked) > opts.MaxResults {
		ranked = ranked[:opts.MaxResults]
	}

	results := make([]types.PaperResult, 0, len(ranked))
	for i, sc := range ranked {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		r := o.processPaper(ctx, sc, opts, progress)
		results = append(results, r)
		if o.OnPaper != nil {
			o.OnPaper(i, len(ranked), r)
		}
	}
	return results, nil
}

// Explain returns the expansion rationale for a query without touching
// the index or the model.
func (o *Orchestrator) Explain(q types.Query, mode types.ExpansionMode) (types.ExplanationReport, error) {
	if err := q.Validate(); err != nil {
		return types.ExplanationReport{}, err
	}
	return o.expander().Explain(q, mode)
}

// processPaper walks one paper through its stages. Every path ends in a
// terminal result: failures degrade the paper, they never abort it.
func (o *Orchestrator) processPaper(ctx context.Context, sc types.ScoredCandidate, opts Options, progress io.Writer) types.PaperResult {
	r := types.PaperResult{
		ScoredCandidate: sc,
		ContentSource:   types.SourceAbstract,
	}
	content := sc.Abstract

	fetchedArtifact := false
	if opts.FullText {
		text, err := o.Text.FullText(ctx, sc.Candidate)
		if err == nil {
			r.ContentSource = types.SourceFullText
			r.FullText = text
			content = text
			fetchedArtifact = true
		} else {
			// Mandatory fallback: the abstract stands in and the run
			// continues.
			fmt.Fprintf(progress, "  %s: full text unavailable, using abstract (%v)\n", sc.ID, err)
		}
	}

	if opts.Summarize {
		o.summarizePaper(ctx, &r, content, opts, progress)
	}

	if opts.Cleanup && fetchedArtifact {
		if err := o.Text.Remove(sc.ID); err != nil {
			fmt.Fprintf(progress, "  %s: cleanup failed: %v\n", sc.ID, err)
		}
	}

	return r
}

func (o *Orchestrator) summarizePaper(ctx context.Context, r *types.PaperResult, content string, opts Options, progress io.Writer) {
	if o.Cache != nil {
		if summary, ok, err := o.Cache.Lookup(ctx, r.ID, opts.SummaryType, opts.Model, r.ContentSource); err == nil && ok {
			r.Summary = summary
			fmt.Fprintf(progress, "  %s: summary reused from library\n", r.ID)
			return
		}
	}

	req, err := summarize.BuildRequest(r.Title, content, opts.SummaryType, opts.Model, o.Cfg.Summary.MaxContentChars)
	if err != nil {
		r.Error = fmt.Sprintf("summarization skipped: %v", err)
		fmt.Fprintf(progress, "  %s: %s\n", r.ID, r.Error)
		return
	}

	summary, err := o.LLM.Generate(ctx, req)
	if err != nil {
		r.Error = fmt.Sprintf("summarization failed: %v", err)
		fmt.Fprintf(progress, "  %s: %s\n", r.ID, r.Error)
		return
	}
	r.Summary = summary

	if o.Cache != nil {
		if err := o.Cache.Save(ctx, *r, opts.SummaryType, opts.Model); err != nil {
			fmt.Fprintf(progress, "  %s: library save failed: %v\n", r.ID, err)
		}
	}
}

func (o *Orchestrator) expandQuery(q types.Query, opts Options) (types.ExpandedQuery, error) {
	if !opts.SemanticSearch {
		eq := semantic.Literal(q)
		if len(eq.Terms) == 0 {
			return eq, errors.New("query contains no searchable terms")
		}
		return eq, nil
	}
	return o.expander().Expand(q, opts.Mode)
}

func (o *Orchestrator) expander() *semantic.Expander {
	if o.Expander == nil {
		o.Expander = semantic.New(o.Cfg.Expansion)
	}
	return o.Expander
}

func (o *Orchestrator) poolMultiplier() int {
	if o.Cfg.Search.PoolMultiplier > 0 {
		return o.Cfg.Search.PoolMultiplier
	}
	return 3
}
