package export

import (
	"strings"
	"testing"

	"github.com/citegraph/citegraph/internal/citgraph"
)

func TestToBibTeX(t *testing.T) {
	n := citgraph.Node{
		ScopusID:  85111222333,
		Title:     "Quality & Queues: 100% of the time",
		Authors:   "Smith J.; Doe A.",
		Year:      2019,
		DOI:       "10.1000/test.1",
		ScopusURL: "https://www.scopus.com/record/85111222333",
		PubName:   "Annals of Statistics",
		ISSNPrint: "0090-5364",
	}

	got := ToBibTeX(n)

	for _, want := range []string{
		"@article{scopus85111222333,",
		"author = {Smith J. and Doe A.},",
		`title = {Quality \& Queues: 100\% of the time},`,
		"journal = {Annals of Statistics},",
		"year = {2019},",
		"doi = {10.1000/test.1},",
		"issn = {0090-5364},",
		"url = {https://www.scopus.com/record/85111222333},",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("entry missing %q:\n%s", want, got)
		}
	}
}

func TestToBibTeXProceedings(t *testing.T) {
	n := citgraph.Node{
		ScopusID: 1,
		Title:    "A Paper",
		PubName:  "Proceedings of the 10th Workshop on Things",
	}

	got := ToBibTeX(n)
	if !strings.HasPrefix(got, "@inproceedings{") {
		t.Errorf("entry type = %q, want inproceedings", strings.SplitN(got, "{", 2)[0])
	}
	if !strings.Contains(got, "booktitle = {") {
		t.Error("proceedings venue should use booktitle")
	}
}

func TestToBibTeXOmitsEmptyFields(t *testing.T) {
	got := ToBibTeX(citgraph.Node{ScopusID: 2, Title: "Bare"})

	for _, absent := range []string{"author =", "journal =", "year =", "doi =", "issn =", "url ="} {
		if strings.Contains(got, absent) {
			t.Errorf("entry should omit %q:\n%s", absent, got)
		}
	}
}

func TestGraphToBibTeXOrder(t *testing.T) {
	g := citgraph.New()
	g.AddNode(citgraph.Node{ScopusID: 100, Title: "Later"})
	g.AddNode(citgraph.Node{ScopusID: 9, Title: "Earlier"})

	got := GraphToBibTeX(g)
	first := strings.Index(got, "scopus9,")
	second := strings.Index(got, "scopus100,")
	if first == -1 || second == -1 || first > second {
		t.Errorf("entries out of order:\n%s", got)
	}
}
