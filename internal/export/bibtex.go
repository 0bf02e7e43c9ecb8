// Package export renders graph nodes into citation-manager formats.
package export

import (
	"fmt"
	"slices"
	"strings"

	"github.com/citegraph/citegraph/internal/citgraph"
	"github.com/citegraph/citegraph/internal/paper"
)

// GraphToBibTeX renders every node of the graph as a BibTeX entry,
// ordered by Scopus ID so repeated exports diff cleanly.
func GraphToBibTeX(g *citgraph.CitationGraph) string {
	ids := make([]paper.ScopusID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, ToBibTeX(g.Nodes[id]))
	}
	return strings.Join(entries, "\n")
}

// ToBibTeX converts a graph node to a BibTeX entry.
func ToBibTeX(n citgraph.Node) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{scopus%d,\n", entryType(n), n.ScopusID))

	if authors := formatAuthors(n.Authors); authors != "" {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", authors))
	}
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(n.Title)))

	if n.PubName != "" {
		fieldName := "journal"
		if entryType(n) == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(n.PubName)))
	}
	if n.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", n.Year))
	}
	if n.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", n.DOI))
	}
	if issn := firstNonEmpty(n.ISSNPrint, n.ISSNElectronic); issn != "" {
		b.WriteString(fmt.Sprintf("  issn = {%s},\n", issn))
	}
	if n.ScopusURL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", n.ScopusURL))
	}

	b.WriteString("}\n")
	return b.String()
}

// entryType returns the BibTeX entry type for a node.
func entryType(n citgraph.Node) string {
	venue := strings.ToLower(n.PubName)
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}
	return "article"
}

// formatAuthors turns a semicolon-separated author string into BibTeX
// style: "Smith J. and Doe A."
func formatAuthors(authors string) string {
	var formatted []string
	for _, a := range strings.Split(authors, ";") {
		a = strings.TrimSpace(a)
		if a != "" {
			formatted = append(formatted, escapeLatex(a))
		}
	}
	return strings.Join(formatted, " and ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
