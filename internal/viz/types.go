// Package viz converts a built citation graph into export formats:
// plain JSON, Cytoscape.js elements, and a standalone HTML viewer.
package viz

// GraphData is the exported form of a citation graph. Node and edge
// order is deterministic so repeated exports of the same build are
// byte-identical.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one document in the export.
type Node struct {
	ID         string `json:"id"`
	PaperTitle string `json:"paper_title"`
	Authors    string `json:"authors,omitempty"`
	Year       int    `json:"year,omitempty"`
	IterDepth  int    `json:"iter_depth"`

	DOI            string `json:"doi,omitempty"`
	EID            string `json:"eid,omitempty"`
	ScopusURL      string `json:"scopus_url,omitempty"`
	PubName        string `json:"publication_name,omitempty"`
	ISSNPrint      string `json:"issn_print,omitempty"`
	ISSNElectronic string `json:"issn_electronic,omitempty"`

	RankScore *int `json:"rank_score,omitempty"`
}

// Edge is one citation in the export. Weight is omitted for
// unweighted builds.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight,omitempty"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
