package scopus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/citegraph/citegraph/internal/paper"
)

// ToPaper converts an abstract retrieval response into a Paper record.
// It fails only on structural problems (no usable identifier); content
// gaps such as a missing title or author list are left to the caller.
func ToPaper(resp *AbstractResponse) (*paper.Paper, error) {
	core := resp.Retrieval.CoreData

	scopusID, err := paper.ParseScopusID(core.Identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	p := &paper.Paper{
		Title:          core.Title,
		Authors:        joinAuthors(resp.Retrieval.Authors),
		Year:           coverYear(core.CoverDate),
		ScopusID:       scopusID,
		DOI:            paper.DOI(core.DOI),
		EID:            paper.EID(core.EID),
		ScopusURL:      scopusLink(core.Links),
		Refs:           extractRefs(resp.Retrieval.Item),
		PubName:        core.PublicationName,
		ISSNPrint:      core.ISSN,
		ISSNElectronic: core.EISSN,
	}

	return p, nil
}

// joinAuthors renders the author list as "Surname, G.; Surname, G."
// from the indexed names of the FULL view. A nil author group yields
// the empty string.
func joinAuthors(group *AuthorGroup) string {
	if group == nil || len(group.Authors) == 0 {
		return ""
	}

	names := make([]string, 0, len(group.Authors))
	for _, a := range group.Authors {
		indexed := strings.TrimSpace(a.IndexedName)
		if indexed == "" {
			continue
		}
		names = append(names, strings.Join(strings.Fields(indexed), ", "))
	}
	return strings.Join(names, "; ")
}

// coverYear parses the year out of a prism:coverDate like "2024-01-15".
func coverYear(coverDate string) int {
	yearPart, _, _ := strings.Cut(coverDate, "-")
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return 0
	}
	return year
}

// scopusLink picks the canonical web link from the coredata links.
func scopusLink(links []Link) string {
	for _, l := range links {
		if l.Rel == "scopus" {
			return l.Href
		}
	}
	for _, l := range links {
		if l.Rel == "self" {
			return l.Href
		}
	}
	return ""
}

// extractRefs pulls the reference pointers out of the bibliography.
// Entries without a numeric Scopus ID are dropped. Order and repeats
// are preserved.
func extractRefs(item *Item) []paper.Reference {
	if item == nil || item.BibRecord.Tail == nil {
		return nil
	}

	entries := item.BibRecord.Tail.Bibliography.References
	if len(entries) == 0 {
		return nil
	}

	refs := make([]paper.Reference, 0, len(entries))
	for _, entry := range entries {
		if entry.RefInfo.ItemIDList == nil {
			continue
		}
		var (
			id  paper.ScopusID
			doi paper.DOI
			ok  bool
		)
		for _, itemID := range entry.RefInfo.ItemIDList.ItemIDs {
			switch itemID.Type {
			case "SGR":
				parsed, err := paper.ParseScopusID(itemID.Value)
				if err != nil {
					continue
				}
				id, ok = parsed, true
			case "DOI":
				doi = paper.DOI(itemID.Value)
			}
		}
		if !ok {
			continue
		}
		refs = append(refs, paper.Reference{ScopusID: id, DOI: doi})
	}

	if len(refs) == 0 {
		return nil
	}
	return refs
}
