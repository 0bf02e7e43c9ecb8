package viz

import (
	"cmp"
	"slices"

	"github.com/citegraph/citegraph/internal/citgraph"
	"github.com/citegraph/citegraph/internal/paper"
)

// FromGraph flattens a citation graph into export form. Nodes are
// ordered by Scopus ID and edges by source then target, so the output
// is stable across runs.
func FromGraph(g *citgraph.CitationGraph) *GraphData {
	ids := make([]paper.ScopusID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, newNode(g.Nodes[id]))
	}

	keys := make([]citgraph.EdgeKey, 0, len(g.Edges))
	for k := range g.Edges {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b citgraph.EdgeKey) int {
		if c := cmp.Compare(a.Parent, b.Parent); c != 0 {
			return c
		}
		return cmp.Compare(a.Child, b.Child)
	})
	edges := make([]Edge, 0, len(keys))
	for _, k := range keys {
		edges = append(edges, Edge{
			Source: k.Parent.String(),
			Target: k.Child.String(),
			Weight: g.Edges[k].Weight,
		})
	}

	return &GraphData{Nodes: nodes, Edges: edges}
}

// newNode maps a graph node onto its export form.
func newNode(n citgraph.Node) Node {
	return Node{
		ID:             n.ScopusID.String(),
		PaperTitle:     n.Title,
		Authors:        n.Authors,
		Year:           n.Year,
		IterDepth:      n.IterDepth,
		DOI:            string(n.DOI),
		EID:            string(n.EID),
		ScopusURL:      n.ScopusURL,
		PubName:        n.PubName,
		ISSNPrint:      n.ISSNPrint,
		ISSNElectronic: n.ISSNElectronic,
		RankScore:      n.RankScore,
	}
}
