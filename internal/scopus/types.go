package scopus

import "encoding/json"

// AbstractResponse is the top-level Abstract Retrieval API document.
type AbstractResponse struct {
	Retrieval AbstractRetrieval `json:"abstracts-retrieval-response"`
}

// AbstractRetrieval holds the parts of the FULL view this client reads.
type AbstractRetrieval struct {
	CoreData CoreData     `json:"coredata"`
	Authors  *AuthorGroup `json:"authors"`
	Item     *Item        `json:"item"`
}

// CoreData carries the document-level metadata fields.
type CoreData struct {
	Identifier      string `json:"dc:identifier"` // "SCOPUS_ID:85012345678"
	EID             string `json:"eid"`           // "2-s2.0-85012345678"
	DOI             string `json:"prism:doi"`
	Title           string `json:"dc:title"`
	CoverDate       string `json:"prism:coverDate"` // "2024-01-15"
	PublicationName string `json:"prism:publicationName"`
	ISSN            string `json:"prism:issn"`
	EISSN           string `json:"prism:eIssn"`
	CitedByCount    string `json:"citedby-count"`
	AggregationType string `json:"prism:aggregationType"`
	Links           []Link `json:"link"`
}

// Link is a coredata hypermedia link.
type Link struct {
	Rel  string `json:"@rel"`
	Href string `json:"@href"`
}

// AuthorGroup wraps the author array of the FULL view.
type AuthorGroup struct {
	Authors []Author `json:"author"`
}

// Author is a single document author.
type Author struct {
	AuthID      string `json:"@auid"`
	IndexedName string `json:"ce:indexed-name"` // "Celano G."
	GivenName   string `json:"ce:given-name"`
	Surname     string `json:"ce:surname"`
}

// Item holds the bibliographic record, including the reference list.
type Item struct {
	BibRecord BibRecord `json:"bibrecord"`
}

// BibRecord is the item-level record wrapper.
type BibRecord struct {
	Tail *Tail `json:"tail"`
}

// Tail contains the bibliography of the retrieved document.
type Tail struct {
	Bibliography Bibliography `json:"bibliography"`
}

// Bibliography is the document's outgoing reference list.
type Bibliography struct {
	RefCount   string        `json:"@refcount"`
	References ReferenceList `json:"reference"`
}

// ReferenceEntry is one entry of the bibliography.
type ReferenceEntry struct {
	RefInfo RefInfo `json:"ref-info"`
}

// RefInfo identifies the cited document.
type RefInfo struct {
	ItemIDList *RefItemIDList `json:"refd-itemidlist"`
}

// RefItemIDList wraps the itemid element of a reference.
type RefItemIDList struct {
	ItemIDs ItemIDs `json:"itemid"`
}

// ItemID is a typed identifier attached to a reference. The idtype
// "SGR" carries the numeric Scopus ID; "DOI" carries the DOI.
type ItemID struct {
	Type  string `json:"@idtype"`
	Value string `json:"$"`
}

// ReferenceList tolerates the API's habit of encoding one-element
// lists as a bare object instead of an array.
type ReferenceList []ReferenceEntry

func (l *ReferenceList) UnmarshalJSON(data []byte) error {
	var entries []ReferenceEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		*l = entries
		return nil
	}

	var single ReferenceEntry
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = ReferenceList{single}
	return nil
}

// ItemIDs tolerates the same single-object-or-array encoding for the
// itemid element.
type ItemIDs []ItemID

func (ids *ItemIDs) UnmarshalJSON(data []byte) error {
	var many []ItemID
	if err := json.Unmarshal(data, &many); err == nil {
		*ids = many
		return nil
	}

	var single ItemID
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*ids = ItemIDs{single}
	return nil
}

// errorResponse is the service-error document Scopus returns on 4xx.
type errorResponse struct {
	ServiceError struct {
		Status struct {
			Code string `json:"statusCode"`
			Text string `json:"statusText"`
		} `json:"status"`
	} `json:"service-error"`
}
