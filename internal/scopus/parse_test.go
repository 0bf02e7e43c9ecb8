package scopus

import "testing"

func TestJoinAuthors(t *testing.T) {
	tests := []struct {
		name  string
		group *AuthorGroup
		want  string
	}{
		{name: "nil group", group: nil, want: ""},
		{
			name:  "single author",
			group: &AuthorGroup{Authors: []Author{{IndexedName: "Celano G."}}},
			want:  "Celano, G.",
		},
		{
			name: "two authors",
			group: &AuthorGroup{Authors: []Author{
				{IndexedName: "Celano G."},
				{IndexedName: "Fichera S."},
			}},
			want: "Celano, G.; Fichera, S.",
		},
		{
			name:  "multi-part indexed name",
			group: &AuthorGroup{Authors: []Author{{IndexedName: "Van Der Berg J."}}},
			want:  "Van, Der, Berg, J.",
		},
		{
			name: "blank name skipped",
			group: &AuthorGroup{Authors: []Author{
				{IndexedName: ""},
				{IndexedName: "Doe A."},
			}},
			want: "Doe, A.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinAuthors(tt.group); got != tt.want {
				t.Errorf("joinAuthors() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCoverYear(t *testing.T) {
	if got := coverYear("2023-06-15"); got != 2023 {
		t.Errorf("coverYear(2023-06-15) = %d, want 2023", got)
	}
	if got := coverYear(""); got != 0 {
		t.Errorf("coverYear(\"\") = %d, want 0", got)
	}
	if got := coverYear("abc"); got != 0 {
		t.Errorf("coverYear(abc) = %d, want 0", got)
	}
}

func TestToPaper_MissingIdentifier(t *testing.T) {
	resp := &AbstractResponse{}
	if _, err := ToPaper(resp); err == nil {
		t.Error("ToPaper() without identifier expected error")
	}
}

func TestToPaper_KeepsDuplicateReferences(t *testing.T) {
	resp := &AbstractResponse{
		Retrieval: AbstractRetrieval{
			CoreData: CoreData{Identifier: "SCOPUS_ID:1", Title: "t"},
			Item: &Item{BibRecord: BibRecord{Tail: &Tail{Bibliography: Bibliography{
				References: ReferenceList{
					{RefInfo: RefInfo{ItemIDList: &RefItemIDList{ItemIDs: ItemIDs{{Type: "SGR", Value: "2"}}}}},
					{RefInfo: RefInfo{ItemIDList: &RefItemIDList{ItemIDs: ItemIDs{{Type: "SGR", Value: "2"}}}}},
				},
			}}}},
		},
	}

	p, err := ToPaper(resp)
	if err != nil {
		t.Fatalf("ToPaper() error = %v", err)
	}
	// A bibliography citing the same document twice must stay two
	// entries; edge weighting depends on the multiplicity.
	if len(p.Refs) != 2 {
		t.Errorf("Refs length = %d, want 2", len(p.Refs))
	}
}
