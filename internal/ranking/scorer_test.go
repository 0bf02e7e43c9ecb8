package ranking

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/citegraph/citegraph/internal/citgraph"
	"github.com/citegraph/citegraph/internal/paper"
)

func testSource() *RankSource {
	return &RankSource{
		byISSN: map[string]int{
			"00905364": 3451,
			"00224065": 820,
		},
		byTitle: map[string]int{
			"annals of statistics":          3451,
			"journal of quality technology": 820,
		},
		titles: []string{"annals of statistics", "journal of quality technology"},
	}
}

func newTestScorer(source *RankSource, opts ...ScorerOption) *Scorer {
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return NewScorer(source, opts...)
}

func rankNode(id paper.ScopusID, pubName, issnPrint, issnElectronic string) citgraph.Node {
	return citgraph.Node{
		ScopusID:       id,
		Title:          "Some Paper",
		PubName:        pubName,
		ISSNPrint:      issnPrint,
		ISSNElectronic: issnElectronic,
	}
}

func graphWith(nodes ...citgraph.Node) *citgraph.CitationGraph {
	g := citgraph.New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	return g
}

func scoreOf(t *testing.T, g *citgraph.CitationGraph, id paper.ScopusID) int {
	t.Helper()
	n, ok := g.Nodes[id]
	if !ok {
		t.Fatalf("node %d missing", id)
	}
	if n.RankScore == nil {
		t.Fatalf("node %d has no rank score", id)
	}
	return *n.RankScore
}

func TestScoreGraphPrefersISSN(t *testing.T) {
	// The publication name points at one journal, the ISSN at another.
	g := graphWith(rankNode(1, "Journal of Quality Technology", "0090-5364", ""))

	sum, err := newTestScorer(testSource()).ScoreGraph(g)
	if err != nil {
		t.Fatalf("ScoreGraph: %v", err)
	}
	if got := scoreOf(t, g, 1); got != 3451 {
		t.Errorf("score = %d, want the ISSN match 3451", got)
	}
	if sum.ByISSN != 1 || sum.ByTitle != 0 {
		t.Errorf("summary = %+v, want one ISSN match", sum)
	}
}

func TestScoreGraphElectronicISSNFallback(t *testing.T) {
	g := graphWith(rankNode(1, "", "9999-9999", "0022-4065"))

	if _, err := newTestScorer(testSource()).ScoreGraph(g); err != nil {
		t.Fatalf("ScoreGraph: %v", err)
	}
	if got := scoreOf(t, g, 1); got != 820 {
		t.Errorf("score = %d, want 820", got)
	}
}

func TestScoreGraphExactTitle(t *testing.T) {
	g := graphWith(rankNode(1, "Annals of Statistics", "", ""))

	sum, err := newTestScorer(testSource()).ScoreGraph(g)
	if err != nil {
		t.Fatalf("ScoreGraph: %v", err)
	}
	if got := scoreOf(t, g, 1); got != 3451 {
		t.Errorf("score = %d, want 3451", got)
	}
	if sum.ByTitle != 1 {
		t.Errorf("summary = %+v, want one exact title match", sum)
	}
}

func TestScoreGraphFuzzyTitle(t *testing.T) {
	// Punctuation keeps the exact lookup from hitting, the fuzzy
	// matcher sees past it.
	g := graphWith(rankNode(1, "Journal of Quality Technology.", "", ""))

	sum, err := newTestScorer(testSource()).ScoreGraph(g)
	if err != nil {
		t.Fatalf("ScoreGraph: %v", err)
	}
	if got := scoreOf(t, g, 1); got != 820 {
		t.Errorf("score = %d, want 820", got)
	}
	if sum.ByFuzzy != 1 {
		t.Errorf("summary = %+v, want one fuzzy match", sum)
	}
}

func TestScoreGraphUnmatchedGetsZero(t *testing.T) {
	g := graphWith(
		rankNode(1, "Obscure Workshop Proceedings", "", ""),
		rankNode(2, "", "", ""),
	)

	sum, err := newTestScorer(testSource()).ScoreGraph(g)
	if err != nil {
		t.Fatalf("ScoreGraph: %v", err)
	}
	for _, id := range []paper.ScopusID{1, 2} {
		if got := scoreOf(t, g, id); got != 0 {
			t.Errorf("node %d score = %d, want 0", id, got)
		}
	}
	if sum.Unmatched != 2 || sum.Scored != 0 {
		t.Errorf("summary = %+v, want two unmatched", sum)
	}
}

func TestScoreGraphAmbiguousTitle(t *testing.T) {
	source := &RankSource{
		byISSN: map[string]int{},
		byTitle: map[string]int{
			"applied statistics alpha": 100,
			"applied statistics beta":  200,
		},
		titles: []string{"applied statistics alpha", "applied statistics beta"},
	}
	g := graphWith(rankNode(1, "Applied Statistics", "", ""))

	_, err := newTestScorer(source, WithFuzzyThreshold(50)).ScoreGraph(g)
	if !errors.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("err = %v, want ErrAmbiguousMatch", err)
	}
}

func TestScoreGraphRate(t *testing.T) {
	g := graphWith(
		rankNode(1, "Annals of Statistics", "", ""),
		rankNode(2, "Unranked Venue", "", ""),
	)

	sum, err := newTestScorer(testSource()).ScoreGraph(g)
	if err != nil {
		t.Fatalf("ScoreGraph: %v", err)
	}
	if sum.Nodes != 2 || sum.Scored != 1 || sum.Rate != 0.5 {
		t.Errorf("summary = %+v, want 1 of 2 scored", sum)
	}
}
