// Decode statistics and JSON export.
//
// MarshalJSON writes the decoded index in a readable form for debugging
// fixtures and comparing encoder output. It is not a storage format and
// there is no matching unmarshal.
package owl

import (
	json "github.com/goccy/go-json"
)

// Stats describes a decoded index.
type Stats struct {
	Pages       int    `json:"pages"`
	Words       int    `json:"words"`
	Postings    int    `json:"postings"`
	Clusters    int    `json:"clusters"`    // clusters merged
	Replaced    int    `json:"replaced"`    // words overwritten by a later cluster
	Trailing    int    `json:"trailing"`    // bytes of an incomplete final cluster
	Fingerprint string `json:"fingerprint"`
}

type dump struct {
	Pages []string             `json:"pages"`
	Words map[string][]Posting `json:"words"`
	Stats Stats                `json:"stats"`
}

// MarshalJSON encodes the page table, every word's postings and Stats.
func (ix *Index) MarshalJSON() ([]byte, error) {
	d := dump{
		Pages: ix.pages,
		Words: make(map[string][]Posting, len(ix.ordinals)),
		Stats: ix.stats,
	}
	if d.Pages == nil {
		d.Pages = []string{}
	}
	for w := range ix.ordinals {
		d.Words[w], _ = ix.Postings(w)
	}
	return json.Marshal(d)
}
