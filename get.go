// Point lookups.
package owl

// Posting is one page a word occurs on.
type Posting struct {
	Ordinal   int `json:"page"`
	Frequency int `json:"freq"`
}

// Page returns the name of the page at ordinal.
func (ix *Index) Page(ordinal int) (string, bool) {
	if ordinal < 0 || ordinal >= len(ix.pages) {
		return "", false
	}
	return ix.pages[ordinal], true
}

// Postings returns a word's postings in stream order. The word is matched
// exactly, without case folding. When a page is listed more than once,
// every listing carries the last frequency recorded for it.
func (ix *Index) Postings(word string) ([]Posting, bool) {
	ords, ok := ix.ordinals[word]
	if !ok {
		return nil, false
	}
	fm := ix.freqs[word]
	out := make([]Posting, len(ords))
	for i, p := range ords {
		out[i] = Posting{Ordinal: int(p), Frequency: int(fm[p])}
	}
	return out, true
}

// Frequency returns how often word occurs on the page at ordinal.
func (ix *Index) Frequency(word string, ordinal int) (int, bool) {
	if ordinal < 0 || ordinal > 0xFFFF {
		return 0, false
	}
	f, ok := ix.freqs[word][uint16(ordinal)]
	return int(f), ok
}
