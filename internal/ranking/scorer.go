package ranking

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/citegraph/citegraph/internal/citgraph"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy title
// match to count, on the 0 to 100 scale the matcher uses.
const DefaultFuzzyThreshold = 94

// ErrAmbiguousMatch reports a publication title that matches more
// than one ranked journal above the threshold.
var ErrAmbiguousMatch = errors.New("ambiguous journal title match")

// Scorer assigns rank scores to the nodes of a citation graph.
type Scorer struct {
	source    *RankSource
	threshold int
	logger    *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithFuzzyThreshold overrides the minimum fuzzy match similarity.
func WithFuzzyThreshold(threshold int) ScorerOption {
	return func(s *Scorer) {
		s.threshold = threshold
	}
}

// WithLogger sets the logger used by the scorer.
func WithLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) {
		s.logger = logger
	}
}

// NewScorer creates a scorer over the given rank source.
func NewScorer(source *RankSource, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		source:    source,
		threshold: DefaultFuzzyThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Summary describes one scoring pass over a graph.
type Summary struct {
	Nodes     int     `json:"nodes"`
	Scored    int     `json:"scored"`
	ByISSN    int     `json:"by_issn"`
	ByTitle   int     `json:"by_title"`
	ByFuzzy   int     `json:"by_fuzzy"`
	Unmatched int     `json:"unmatched"`
	Rate      float64 `json:"match_rate"`
}

type matchKind int

const (
	matchNone matchKind = iota
	matchISSN
	matchTitle
	matchFuzzy
)

// ScoreGraph sets the rank score on every node of the graph. Nodes
// whose journal cannot be found get a zero score, which still marks
// them as scored. A title matching several ranked journals equally
// well aborts the pass with ErrAmbiguousMatch.
func (s *Scorer) ScoreGraph(g *citgraph.CitationGraph) (Summary, error) {
	sum := Summary{Nodes: len(g.Nodes)}
	for id, node := range g.Nodes {
		score, kind, err := s.scoreNode(node)
		if err != nil {
			return Summary{}, err
		}
		node.RankScore = &score
		g.Nodes[id] = node

		switch kind {
		case matchISSN:
			sum.ByISSN++
		case matchTitle:
			sum.ByTitle++
		case matchFuzzy:
			sum.ByFuzzy++
		default:
			sum.Unmatched++
		}
	}
	sum.Scored = sum.ByISSN + sum.ByTitle + sum.ByFuzzy
	if sum.Nodes > 0 {
		sum.Rate = float64(sum.Scored) / float64(sum.Nodes)
	}
	s.logger.Info("scored citation graph",
		"nodes", sum.Nodes,
		"by_issn", sum.ByISSN,
		"by_title", sum.ByTitle,
		"by_fuzzy", sum.ByFuzzy,
		"unmatched", sum.Unmatched)
	return sum, nil
}

func (s *Scorer) scoreNode(node citgraph.Node) (int, matchKind, error) {
	for _, issn := range []string{node.ISSNPrint, node.ISSNElectronic} {
		if issn == "" {
			continue
		}
		if score, ok := s.source.ScoreByISSN(issn); ok {
			return score, matchISSN, nil
		}
	}

	title := strings.ToLower(strings.TrimSpace(node.PubName))
	if title == "" {
		return 0, matchNone, nil
	}
	if score, ok := s.source.ScoreByTitle(title); ok {
		return score, matchTitle, nil
	}

	best, second := s.bestTitleMatches(title)
	if best.score < s.threshold {
		return 0, matchNone, nil
	}
	if second.score >= s.threshold && second.title != best.title {
		return 0, matchNone, fmt.Errorf("%w for %q: %q and %q",
			ErrAmbiguousMatch, node.PubName, best.title, second.title)
	}
	score, _ := s.source.ScoreByTitle(best.title)
	s.logger.Debug("fuzzy journal match",
		"publication", node.PubName,
		"matched", best.title,
		"similarity", best.score)
	return score, matchFuzzy, nil
}

type titleMatch struct {
	title string
	score int
}

// bestTitleMatches returns the two closest indexed titles. Earlier
// entries win ties, so repeated runs over the same source agree.
func (s *Scorer) bestTitleMatches(title string) (titleMatch, titleMatch) {
	var best, second titleMatch
	for _, candidate := range s.source.Titles() {
		r := fuzzy.WRatio(title, candidate)
		switch {
		case r > best.score:
			second = best
			best = titleMatch{title: candidate, score: r}
		case r > second.score:
			second = titleMatch{title: candidate, score: r}
		}
	}
	return best, second
}
