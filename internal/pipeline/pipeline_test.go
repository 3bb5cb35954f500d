// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-scout/internal/summarize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

type mockIndex struct {
	candidates []types.Candidate
	err        error
	calls      int
	lastLimit  int
}

func (m *mockIndex) Search(_ context.Context, _ types.Query, limit int) ([]types.Candidate, error) {
	m.calls++
	m.lastLimit = limit
	return m.candidates, m.err
}

type mockResolver struct {
	texts   map[string]string
	err     error
	calls   int
	removed []string
}

func (m *mockResolver) FullText(_ context.Context, c types.Candidate) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if text, ok := m.texts[c.ID]; ok {
		return text, nil
	}
	return "", errors.New("no text")
}

func (m *mockResolver) Remove(id string) error {
	m.removed = append(m.removed, id)
	return nil
}

type mockGenerator struct {
	failFor map[string]bool
	calls   int
	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, req summarize.Request) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, req.Prompt)
	for id, fail := range m.failFor {
		if fail && strings.Contains(req.Prompt, id) {
			return "", errors.New("model overloaded")
		}
	}
	return "a summary", nil
}

type mockCache struct {
	entries map[string]string
	saved   []types.PaperResult
}

func cacheKey(id string, st types.SummaryType, model string, src types.ContentSource) string {
	return fmt.Sprintf("%s|%s|%s|%s", id, st, model, src)
}

func (m *mockCache) Lookup(_ context.Context, id string, st types.SummaryType, model string, src types.ContentSource) (string, bool, error) {
	s, ok := m.entries[cacheKey(id, st, model, src)]
	return s, ok, nil
}

func (m *mockCache) Save(_ context.Context, r types.PaperResult, _ types.SummaryType, _ string) error {
	m.saved = append(m.saved, r)
	return nil
}

func testCandidates() []types.Candidate {
	return []types.Candidate{
		{
			ID:        "2401.00001",
			Title:     "Transformer architectures for machine learning",
			Abstract:  "We study machine learning models. Paper 2401.00001.",
			Published: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			PDFURL:    "https://arxiv.org/pdf/2401.00001",
		},
		{
			ID:        "2401.00002",
			Title:     "Machine learning in the wild",
			Abstract:  "Applied machine learning survey. Paper 2401.00002.",
			Published: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			PDFURL:    "https://arxiv.org/pdf/2401.00002",
		},
		{
			ID:        "2401.00003",
			Title:     "Unrelated topology result",
			Abstract:  "Nothing to do with the query. Paper 2401.00003.",
			Published: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newOrchestrator(idx *mockIndex, res *mockResolver, gen *mockGenerator) *Orchestrator {
	return &Orchestrator{
		Index: idx,
		Text:  res,
		LLM:   gen,
		Cfg: types.PipelineConfig{
			Expansion: types.DefaultExpansionConfig(),
			Summary:   types.DefaultSummaryConfig(),
		},
	}
}

func TestRunRanksAndTruncatesToMaxResults(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()}
	o := newOrchestrator(idx, &mockResolver{}, &mockGenerator{})

	results, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Title matches outrank abstract-only matches; every kept result
	// carries the abstract as its content source by default.
	for _, r := range results {
		assert.NotEqual(t, "2401.00003", r.ID)
		assert.Equal(t, types.SourceAbstract, r.ContentSource)
	}
	assert.Equal(t, 6, idx.lastLimit, "pool should be MaxResults x default multiplier")
}

func TestRunIndexFailureIsFatal(t *testing.T) {
	idx := &mockIndex{err: errors.New("index down")}
	gen := &mockGenerator{}
	o := newOrchestrator(idx, &mockResolver{}, gen)

	results, err := o.Run(context.Background(), types.Query{Text: "ml"}, Options{
		MaxResults: 3, Summarize: true, SummaryType: types.SummaryGeneral, Model: "m",
	})
	require.Error(t, err)
	assert.Empty(t, results)
	assert.Zero(t, gen.calls)
}

func TestRunFullTextFallbackToAbstract(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()[:1]}
	res := &mockResolver{err: errors.New("download refused")}
	gen := &mockGenerator{}
	o := newOrchestrator(idx, res, gen)

	results, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{
		MaxResults: 1, FullText: true, Summarize: true,
		SummaryType: types.SummaryGeneral, Model: "m",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Empty(t, r.Error, "fallback is silent, not an error")
	assert.Equal(t, types.SourceAbstract, r.ContentSource)
	assert.Equal(t, "a summary", r.Summary)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Paper 2401.00001", "summary input must be the abstract")
}

func TestRunFullTextUsedWhenAvailable(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()[:1]}
	res := &mockResolver{texts: map[string]string{"2401.00001": "full body text 2401.00001"}}
	gen := &mockGenerator{}
	o := newOrchestrator(idx, res, gen)

	results, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{
		MaxResults: 1, FullText: true, Summarize: true,
		SummaryType: types.SummaryGeneral, Model: "m", Cleanup: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.SourceFullText, results[0].ContentSource)
	assert.Contains(t, gen.prompts[0], "full body text")
	assert.Equal(t, []string{"2401.00001"}, res.removed)
}

func TestRunCleanupSkipsPapersWithoutArtifact(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()[:1]}
	res := &mockResolver{err: errors.New("no pdf")}
	o := newOrchestrator(idx, res, &mockGenerator{})

	_, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{
		MaxResults: 1, FullText: true, Cleanup: true,
	})
	require.NoError(t, err)
	assert.Empty(t, res.removed)
}

func TestRunSummaryFailureDoesNotAbortBatch(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()}
	gen := &mockGenerator{failFor: map[string]bool{"2401.00001": true}}
	o := newOrchestrator(idx, &mockResolver{}, gen)

	results, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{
		MaxResults: 3, Summarize: true, SummaryType: types.SummaryGeneral, Model: "m",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	var failed, succeeded int
	for _, r := range results {
		if r.ID == "2401.00001" {
			assert.Contains(t, r.Error, "summarization failed")
			assert.Empty(t, r.Summary)
			failed++
		} else if r.Summary != "" {
			succeeded++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, succeeded, "later papers still summarize after an earlier failure")
}

func TestRunEmptyContentRecordedPerPaper(t *testing.T) {
	cands := testCandidates()[:1]
	cands[0].Abstract = ""
	idx := &mockIndex{candidates: cands}
	gen := &mockGenerator{}
	o := newOrchestrator(idx, &mockResolver{}, gen)

	results, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{
		MaxResults: 1, Summarize: true, SummaryType: types.SummaryGeneral, Model: "m",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "summarization skipped")
	assert.Zero(t, gen.calls)
}

func TestRunInvalidOptionsFailBeforeCollaborators(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()}
	gen := &mockGenerator{}
	o := newOrchestrator(idx, &mockResolver{}, gen)

	tests := []struct {
		name string
		opts Options
	}{
		{"zero max results", Options{MaxResults: 0}},
		{"bad expansion mode", Options{MaxResults: 1, SemanticSearch: true, Mode: "psychic"}},
		{"bad summary type", Options{MaxResults: 1, Summarize: true, SummaryType: "haiku", Model: "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Run(context.Background(), types.Query{Text: "ml"}, tt.opts)
			require.Error(t, err)
			assert.Zero(t, idx.calls, "index must not be consulted on invalid options")
			assert.Zero(t, gen.calls)
		})
	}
}

func TestRunInvalidDateRangeFails(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()}
	o := newOrchestrator(idx, &mockResolver{}, &mockGenerator{})

	q := types.Query{
		Text:     "ml",
		DateFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := o.Run(context.Background(), q, Options{MaxResults: 1})
	require.Error(t, err)
	assert.Zero(t, idx.calls)
}

func TestRunCancellationReturnsPartialResults(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()}
	ctx, cancel := context.WithCancel(context.Background())

	o := newOrchestrator(idx, &mockResolver{}, &mockGenerator{})
	processed := 0
	o.OnPaper = func(i, n int, r types.PaperResult) {
		processed++
		if processed == 1 {
			cancel()
		}
	}

	results, err := o.Run(ctx, types.Query{Text: "machine learning"}, Options{MaxResults: 3})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1, "papers finished before cancellation are kept")
}

func TestRunSemanticExpansionBroadensRanking(t *testing.T) {
	cands := []types.Candidate{
		{ID: "a", Title: "On machine learning", Abstract: "x", Published: time.Now()},
		{ID: "b", Title: "Plain ai paper", Abstract: "x", Published: time.Now()},
	}
	idx := &mockIndex{candidates: cands}
	o := newOrchestrator(idx, &mockResolver{}, &mockGenerator{})

	// Literal ranking for "ai" scores paper a at zero. Aggressive
	// expansion reaches "machine learning" and lifts it above zero.
	results, err := o.Run(context.Background(), types.Query{Text: "ai"}, Options{
		MaxResults: 2, SemanticSearch: true, Mode: types.ModeAggressive,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		if r.ID == "a" {
			assert.Greater(t, r.Score, 0.0)
		}
	}
}

func TestRunCacheHitSkipsGeneration(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()[:1]}
	gen := &mockGenerator{}
	cache := &mockCache{entries: map[string]string{
		cacheKey("2401.00001", types.SummaryGeneral, "m", types.SourceAbstract): "cached summary",
	}}
	o := newOrchestrator(idx, &mockResolver{}, gen)
	o.Cache = cache

	results, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{
		MaxResults: 1, Summarize: true, SummaryType: types.SummaryGeneral, Model: "m",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cached summary", results[0].Summary)
	assert.Zero(t, gen.calls)
	assert.Empty(t, cache.saved)
}

func TestRunCacheMissGeneratesAndSaves(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()[:1]}
	gen := &mockGenerator{}
	cache := &mockCache{entries: map[string]string{}}
	o := newOrchestrator(idx, &mockResolver{}, gen)
	o.Cache = cache

	results, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{
		MaxResults: 1, Summarize: true, SummaryType: types.SummaryGeneral, Model: "m",
	})
	require.NoError(t, err)
	assert.Equal(t, "a summary", results[0].Summary)
	require.Len(t, cache.saved, 1)
	assert.Equal(t, "2401.00001", cache.saved[0].ID)
}

func TestRunProgressOutput(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()}
	o := newOrchestrator(idx, &mockResolver{}, &mockGenerator{})
	var buf strings.Builder
	o.Progress = &buf

	_, err := o.Run(context.Background(), types.Query{Text: "machine learning"}, Options{MaxResults: 2})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "found 3 candidates")
}

func TestExplainDoesNotTouchIndex(t *testing.T) {
	idx := &mockIndex{candidates: testCandidates()}
	o := newOrchestrator(idx, &mockResolver{}, &mockGenerator{})

	report, err := o.Explain(types.Query{Text: "ai"}, types.ModeConservative)
	require.NoError(t, err)
	assert.NotEmpty(t, report.Additions)
	assert.Zero(t, idx.calls)
}
