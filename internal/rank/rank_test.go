// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"reflect"
	"testing"
	"time"

	"github.com/pdiddy/paper-scout/pkg/types"
)

func expandedQuery(terms ...types.WeightedTerm) types.ExpandedQuery {
	return types.ExpandedQuery{Terms: terms}
}

func TestScoreTitleCountsDouble(t *testing.T) {
	eq := expandedQuery(types.WeightedTerm{Term: "attention", Weight: 1.0})

	inTitle := Score(types.Candidate{Title: "Attention Is All You Need", Abstract: "Sequence models."}, eq)
	inAbstract := Score(types.Candidate{Title: "Sequence Transduction", Abstract: "We rely on attention."}, eq)

	if inTitle.Score != 2.0 {
		t.Errorf("title match score = %f, want 2.0", inTitle.Score)
	}
	if inAbstract.Score != 1.0 {
		t.Errorf("abstract match score = %f, want 1.0", inAbstract.Score)
	}
}

func TestScoreAccumulatesWeights(t *testing.T) {
	eq := expandedQuery(
		types.WeightedTerm{Term: "quantum", Weight: 1.0},
		types.WeightedTerm{Term: "entanglement", Weight: 0.4},
	)
	c := types.Candidate{
		Title:    "Quantum Networks",
		Abstract: "We study entanglement distribution in quantum networks.",
	}

	sc := Score(c, eq)
	// quantum: title (2.0) + abstract (1.0); entanglement: abstract (0.4).
	if want := 3.4; sc.Score != want {
		t.Errorf("Score = %f, want %f", sc.Score, want)
	}
	if !reflect.DeepEqual(sc.MatchedTerms, []string{"quantum", "entanglement"}) {
		t.Errorf("MatchedTerms = %v", sc.MatchedTerms)
	}
}

func TestScorePhraseTerms(t *testing.T) {
	eq := expandedQuery(types.WeightedTerm{Term: "machine learning", Weight: 0.7})

	match := Score(types.Candidate{Abstract: "Advances in machine learning systems."}, eq)
	if match.Score != 0.7 {
		t.Errorf("phrase match score = %f, want 0.7", match.Score)
	}

	// The words appear but not adjacent: no phrase match.
	split := Score(types.Candidate{Abstract: "The machine supports learning."}, eq)
	if split.Score != 0 {
		t.Errorf("split words score = %f, want 0", split.Score)
	}
}

func TestScoreWordBoundaries(t *testing.T) {
	eq := expandedQuery(types.WeightedTerm{Term: "ai", Weight: 1.0})
	sc := Score(types.Candidate{Abstract: "Maintaining airports is explained."}, eq)
	if sc.Score != 0 {
		t.Errorf("substring inside word matched: score = %f, want 0", sc.Score)
	}
}

func TestScoreMonotoneInTermOverlap(t *testing.T) {
	eq := expandedQuery(
		types.WeightedTerm{Term: "robotics", Weight: 1.0},
		types.WeightedTerm{Term: "manipulation", Weight: 0.2},
	)
	base := types.Candidate{Title: "Robotics Survey", Abstract: "Control of arms."}
	extended := base
	extended.Abstract = base.Abstract + " We cover manipulation tasks."

	if Score(extended, eq).Score < Score(base, eq).Score {
		t.Error("adding a matching term to the abstract decreased the score")
	}
}

func TestRankDescendingByScore(t *testing.T) {
	eq := expandedQuery(types.WeightedTerm{Term: "graphs", Weight: 1.0})
	candidates := []types.Candidate{
		{ID: "a", Abstract: "Nothing relevant."},
		{ID: "b", Title: "Graphs Everywhere", Abstract: "More graphs."},
		{ID: "c", Abstract: "We use graphs."},
	}

	ranked := Rank(candidates, eq)
	gotOrder := []string{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	if !reflect.DeepEqual(gotOrder, []string{"b", "c", "a"}) {
		t.Errorf("rank order = %v, want [b c a]", gotOrder)
	}
}

func TestRankZeroScoreRetainedLast(t *testing.T) {
	eq := expandedQuery(types.WeightedTerm{Term: "absent", Weight: 1.0})
	candidates := []types.Candidate{
		{ID: "x", Abstract: "one"},
		{ID: "y", Abstract: "two"},
	}

	ranked := Rank(candidates, eq)
	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2 (zero-score candidates must be retained)", len(ranked))
	}
}

func TestRankTieBreakByDate(t *testing.T) {
	eq := expandedQuery(types.WeightedTerm{Term: "lasers", Weight: 1.0})
	older := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	candidates := []types.Candidate{
		{ID: "old", Abstract: "lasers", Published: older},
		{ID: "new", Abstract: "lasers", Published: newer},
	}

	ranked := Rank(candidates, eq)
	if ranked[0].ID != "new" {
		t.Errorf("ranked[0] = %s, want the more recent paper on a score tie", ranked[0].ID)
	}
}

func TestRankStableOnFullTie(t *testing.T) {
	eq := expandedQuery(types.WeightedTerm{Term: "phonons", Weight: 1.0})
	date := time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC)

	var candidates []types.Candidate
	ids := []string{"p1", "p2", "p3", "p4"}
	for _, id := range ids {
		candidates = append(candidates, types.Candidate{ID: id, Abstract: "phonons", Published: date})
	}

	ranked := Rank(candidates, eq)
	for i, id := range ids {
		if ranked[i].ID != id {
			t.Fatalf("full tie reordered papers: got %s at position %d, want %s", ranked[i].ID, i, id)
		}
	}
}
