package paper

import "testing"

func TestKey_EqualAcrossTransientFields(t *testing.T) {
	first := Paper{
		IterDepth: 0,
		Title:     "Graph methods in citation analysis",
		Authors:   "Smith, J.",
		Year:      2021,
		ScopusID:  85012345678,
		EID:       "2-s2.0-85012345678",
	}
	second := Paper{
		IterDepth: 2,
		Title:     "Graph methods in citation analysis",
		Authors:   "Smith, J.; Doe, A.",
		Year:      2021,
		ScopusID:  85012345678,
		EID:       "2-s2.0-85012345678",
		Refs:      []Reference{{ScopusID: 85000000001}},
	}

	if first.Key() != second.Key() {
		t.Errorf("Key() mismatch for same identity: %v vs %v", first.Key(), second.Key())
	}

	s := NewSet(first)
	if !s.Contains(second.Key()) {
		t.Error("Set does not treat retrievals at different depths as the same paper")
	}
}

func TestSet_AddRemoveClone(t *testing.T) {
	a := Paper{Title: "A", ScopusID: 1, EID: "2-s2.0-1"}
	b := Paper{Title: "B", ScopusID: 2, EID: "2-s2.0-2"}

	s := NewSet(a, b)
	if len(s) != 2 {
		t.Fatalf("NewSet() size = %d, want 2", len(s))
	}

	// Re-adding replaces, never duplicates.
	s.Add(a)
	if len(s) != 2 {
		t.Errorf("Add() duplicate size = %d, want 2", len(s))
	}

	clone := s.Clone()
	s.Remove(a.Key())
	if s.Contains(a.Key()) {
		t.Error("Remove() left the paper in the set")
	}
	if !clone.Contains(a.Key()) {
		t.Error("Clone() shares storage with the original set")
	}
}

func TestParseScopusID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ScopusID
		wantErr bool
	}{
		{name: "plain digits", in: "85012345678", want: 85012345678},
		{name: "coredata prefix", in: "SCOPUS_ID:85012345678", want: 85012345678},
		{name: "surrounding space", in: " 85012345678 ", want: 85012345678},
		{name: "empty", in: "", wantErr: true},
		{name: "eid form", in: "2-s2.0-85012345678", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScopusID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScopusID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseScopusID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseIDType(t *testing.T) {
	if _, err := ParseIDType("DOI"); err != nil {
		t.Errorf("ParseIDType(\"DOI\") error = %v", err)
	}
	if _, err := ParseIDType("issn"); err == nil {
		t.Error("ParseIDType(\"issn\") expected error")
	}
}
