// Package paper defines the core domain types for retrieved documents.
package paper

import "strconv"

// ScopusID is the numeric primary key Scopus assigns to a document.
// Values exceed 32 bits.
type ScopusID int64

func (id ScopusID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// DOI is a Digital Object Identifier, e.g. "10.1016/j.cie.2023.109088".
type DOI string

// EID is a Scopus electronic identifier, e.g. "2-s2.0-85147259637".
type EID string

// Reference points at a cited document before that document has been
// retrieved in full.
type Reference struct {
	ScopusID ScopusID `json:"scopus_id"`
	DOI      DOI      `json:"doi,omitempty"`
}

// Paper is a normalized document record as returned by the retrieval
// layer. Refs preserves the order and multiplicity of the source
// bibliography; repeated citations of the same document stay repeated
// so that edge weights can account for them.
type Paper struct {
	IterDepth      int         `json:"iter_depth"`
	Title          string      `json:"title"`
	Authors        string      `json:"authors"`
	Year           int         `json:"year"`
	ScopusID       ScopusID    `json:"scopus_id"`
	DOI            DOI         `json:"doi,omitempty"`
	EID            EID         `json:"eid,omitempty"`
	ScopusURL      string      `json:"scopus_url,omitempty"`
	Refs           []Reference `json:"refs,omitempty"`
	PubName        string      `json:"pub_name,omitempty"`
	ISSNPrint      string      `json:"issn_print,omitempty"`
	ISSNElectronic string      `json:"issn_electronic,omitempty"`
}

// Key is the identity of a paper. Two retrievals of the same document
// compare equal by Key even when transient fields differ between
// responses.
type Key struct {
	ScopusID ScopusID
	EID      EID
}

// Key returns the identity of p.
func (p Paper) Key() Key {
	return Key{ScopusID: p.ScopusID, EID: p.EID}
}

// Set is a collection of papers keyed by identity.
type Set map[Key]Paper

// NewSet builds a Set from the given papers.
func NewSet(papers ...Paper) Set {
	s := make(Set, len(papers))
	for _, p := range papers {
		s.Add(p)
	}
	return s
}

// Add inserts p, replacing any paper with the same identity.
func (s Set) Add(p Paper) {
	s[p.Key()] = p
}

// Remove drops the paper with the given identity, if present.
func (s Set) Remove(k Key) {
	delete(s, k)
}

// Contains reports whether a paper with the given identity is present.
func (s Set) Contains(k Key) bool {
	_, ok := s[k]
	return ok
}

// Clone returns an independent shallow copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, p := range s {
		out[k] = p
	}
	return out
}
