package paper

import (
	"fmt"
	"strconv"
	"strings"
)

// IDType selects the identifier namespace used for an abstract lookup.
type IDType string

const (
	IDTypeDOI      IDType = "doi"
	IDTypeEID      IDType = "eid"
	IDTypeScopusID IDType = "scopus_id"
)

// Valid reports whether t is a namespace the retrieval API accepts.
func (t IDType) Valid() bool {
	switch t {
	case IDTypeDOI, IDTypeEID, IDTypeScopusID:
		return true
	}
	return false
}

// ParseIDType converts a user-supplied string into an IDType.
func ParseIDType(s string) (IDType, error) {
	t := IDType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown identifier type %q (valid: doi, eid, scopus_id)", s)
	}
	return t, nil
}

// Identifier is a document identifier paired with its namespace.
// It is immutable and comparable, suitable as a lookup key.
type Identifier struct {
	Value string `json:"value"`
	Type  IDType `json:"type"`
}

func (id Identifier) String() string {
	return id.Value
}

// NewDOIIdentifier wraps a DOI string as an Identifier.
func NewDOIIdentifier(doi DOI) Identifier {
	return Identifier{Value: string(doi), Type: IDTypeDOI}
}

// NewEIDIdentifier wraps an EID string as an Identifier.
func NewEIDIdentifier(eid EID) Identifier {
	return Identifier{Value: string(eid), Type: IDTypeEID}
}

// NewScopusIdentifier wraps a numeric Scopus ID as an Identifier.
func NewScopusIdentifier(id ScopusID) Identifier {
	return Identifier{Value: id.String(), Type: IDTypeScopusID}
}

// scopusIDPrefix is how the Scopus coredata tags its numeric identifier.
const scopusIDPrefix = "SCOPUS_ID:"

// ParseScopusID parses a numeric Scopus identifier, with or without the
// "SCOPUS_ID:" prefix used in API responses.
func ParseScopusID(s string) (ScopusID, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, scopusIDPrefix)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid scopus id %q: %w", s, err)
	}
	return ScopusID(n), nil
}
