// Package citgraph builds and holds the citation graph. The graph is a
// plain value: nodes and edges live in maps alongside the traversal
// bookkeeping that makes an interrupted build resumable, and the whole
// struct round-trips through the checkpoint store without loss.
package citgraph

import (
	"github.com/citegraph/citegraph/internal/paper"
)

// Node is one document in the citation graph.
type Node struct {
	ScopusID       paper.ScopusID `json:"scopus_id"`
	Title          string         `json:"title"`
	Authors        string         `json:"authors,omitempty"`
	Year           int            `json:"year,omitempty"`
	IterDepth      int            `json:"iter_depth"`
	DOI            paper.DOI      `json:"doi,omitempty"`
	EID            paper.EID      `json:"eid,omitempty"`
	ScopusURL      string         `json:"scopus_url,omitempty"`
	PubName        string         `json:"publication_name,omitempty"`
	ISSNPrint      string         `json:"issn_print,omitempty"`
	ISSNElectronic string         `json:"issn_electronic,omitempty"`

	// RankScore is the journal rank assigned after a scoring pass. Nil
	// means the node has not been scored; zero means it was scored and
	// no rank was found.
	RankScore *int `json:"rank_score,omitempty"`
}

// NodeFromPaper maps a retrieved document onto a graph node.
func NodeFromPaper(p paper.Paper) Node {
	return Node{
		ScopusID:       p.ScopusID,
		Title:          p.Title,
		Authors:        p.Authors,
		Year:           p.Year,
		IterDepth:      p.IterDepth,
		DOI:            p.DOI,
		EID:            p.EID,
		ScopusURL:      p.ScopusURL,
		PubName:        p.PubName,
		ISSNPrint:      p.ISSNPrint,
		ISSNElectronic: p.ISSNElectronic,
	}
}

// EdgeKey identifies a directed citation edge.
type EdgeKey struct {
	Parent paper.ScopusID
	Child  paper.ScopusID
}

// Edge is a directed citation from Parent to Child. Weight counts how
// often the citation occurred; zero means the edge is unweighted.
type Edge struct {
	Parent paper.ScopusID `json:"parent"`
	Child  paper.ScopusID `json:"child"`
	Weight int            `json:"weight,omitempty"`
}

// CitationGraph is the complete build state: the graph itself plus the
// traversal position needed to resume an interrupted expansion.
//
// IterDepth is the last fully expanded depth. IterationCompleted is
// false while a layer is mid-flight; the two frontiers then hold the
// parents still to expand and the children accumulated so far.
// PapersByDepth records which documents entered the graph at each
// depth and only ever holds completed layers.
type CitationGraph struct {
	Nodes map[paper.ScopusID]Node
	Edges map[EdgeKey]Edge

	IterDepth          int
	IterationCompleted bool
	PapersByDepth      map[int]paper.Set
	ParentFrontier     paper.Set
	ChildFrontier      paper.Set

	TotalRetrievals  int
	FailedRetrievals int
}

// New returns an empty citation graph ready for seeding.
func New() *CitationGraph {
	return &CitationGraph{
		Nodes:              make(map[paper.ScopusID]Node),
		Edges:              make(map[EdgeKey]Edge),
		IterationCompleted: true,
		PapersByDepth:      make(map[int]paper.Set),
		ParentFrontier:     paper.NewSet(),
		ChildFrontier:      paper.NewSet(),
	}
}

// AddNode inserts a node unless one with the same Scopus ID already
// exists. Keeping the first version preserves the depth at which the
// document entered the graph and any rank assigned since.
func (g *CitationGraph) AddNode(n Node) {
	if _, ok := g.Nodes[n.ScopusID]; ok {
		return
	}
	g.Nodes[n.ScopusID] = n
}

// HasNode reports whether the document is already in the graph.
func (g *CitationGraph) HasNode(id paper.ScopusID) bool {
	_, ok := g.Nodes[id]
	return ok
}

// AddEdge inserts an unweighted edge. Repeated citations are a no-op.
func (g *CitationGraph) AddEdge(parent, child paper.ScopusID) {
	k := EdgeKey{Parent: parent, Child: child}
	if _, ok := g.Edges[k]; ok {
		return
	}
	g.Edges[k] = Edge{Parent: parent, Child: child}
}

// AddWeightedEdge inserts an edge with the given weight, or adds the
// weight to an existing edge. A reference list that cites the same
// document twice therefore yields weight two.
func (g *CitationGraph) AddWeightedEdge(parent, child paper.ScopusID, weight int) {
	k := EdgeKey{Parent: parent, Child: child}
	if e, ok := g.Edges[k]; ok {
		e.Weight += weight
		g.Edges[k] = e
		return
	}
	g.Edges[k] = Edge{Parent: parent, Child: child, Weight: weight}
}

// HasEdge reports whether the citation is present.
func (g *CitationGraph) HasEdge(parent, child paper.ScopusID) bool {
	_, ok := g.Edges[EdgeKey{Parent: parent, Child: child}]
	return ok
}

// EdgeWeight returns the weight of a citation and whether it exists.
func (g *CitationGraph) EdgeWeight(parent, child paper.ScopusID) (int, bool) {
	e, ok := g.Edges[EdgeKey{Parent: parent, Child: child}]
	return e.Weight, ok
}

// RemoveOutEdges deletes every edge leaving the given parent and
// returns how many were removed. Re-running a partially expanded
// parent after this cannot double-count its citations.
func (g *CitationGraph) RemoveOutEdges(parent paper.ScopusID) int {
	removed := 0
	for k := range g.Edges {
		if k.Parent == parent {
			delete(g.Edges, k)
			removed++
		}
	}
	return removed
}

// NodeCount returns the number of documents in the graph.
func (g *CitationGraph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of distinct citations in the graph.
func (g *CitationGraph) EdgeCount() int { return len(g.Edges) }

// Stats summarizes a build state.
type Stats struct {
	Nodes              int         `json:"nodes"`
	Edges              int         `json:"edges"`
	IterDepth          int         `json:"iter_depth"`
	IterationCompleted bool        `json:"iteration_completed"`
	TotalRetrievals    int         `json:"total_retrievals"`
	FailedRetrievals   int         `json:"failed_retrievals"`
	PapersPerDepth     map[int]int `json:"papers_per_depth,omitempty"`
	PendingParents     int         `json:"pending_parents,omitempty"`
}

// Stats returns a summary of the graph and its traversal position.
func (g *CitationGraph) Stats() Stats {
	s := Stats{
		Nodes:              len(g.Nodes),
		Edges:              len(g.Edges),
		IterDepth:          g.IterDepth,
		IterationCompleted: g.IterationCompleted,
		TotalRetrievals:    g.TotalRetrievals,
		FailedRetrievals:   g.FailedRetrievals,
		PendingParents:     len(g.ParentFrontier),
	}
	if len(g.PapersByDepth) > 0 {
		s.PapersPerDepth = make(map[int]int, len(g.PapersByDepth))
		for depth, layer := range g.PapersByDepth {
			s.PapersPerDepth[depth] = len(layer)
		}
	}
	return s
}
