// Query evaluation.
//
// A query is lowercased and split on single spaces. Every page listed
// under any query term becomes a candidate. Each term then adds its
// frequency on each candidate page to that page's score, including pages
// the term did not itself contribute. Scores are normalised against the
// best candidate, so the top result always scores exactly 1.
//
// Terms are matched exactly: no stemming, no prefix matching, and empty
// terms from repeated spaces are kept but match nothing. A repeated term
// counts once per occurrence.
package owl

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownPage is reported for postings whose ordinal is outside the page table.
const UnknownPage = "[unknown]"

// Result is a single ranked page.
type Result struct {
	Page    string  `json:"page"`
	Ordinal int     `json:"ordinal"`
	Score   float64 `json:"score"` // Raw / best Raw, in (0, 1]
	Raw     uint64  `json:"raw"`   // Sum of term frequencies
}

func (r Result) String() string {
	return fmt.Sprintf("%s (#%d) %.4f", r.Page, r.Ordinal, r.Score)
}

// Search ranks pages against query. It never fails; a query with no known
// terms returns an empty slice. Ties are broken by ascending ordinal.
func (ix *Index) Search(query string) []Result {
	// Caser is stateful, so one per call keeps Search goroutine-safe.
	terms := strings.Split(cases.Lower(language.Und).String(query), " ")

	candidates := roaring.New()
	for _, term := range terms {
		for _, p := range ix.ordinals[term] {
			candidates.Add(uint32(p))
		}
	}
	if candidates.IsEmpty() {
		return []Result{}
	}

	raw := make(map[uint32]uint64, candidates.GetCardinality())
	for _, term := range terms {
		fm, ok := ix.freqs[term]
		if !ok {
			continue
		}
		it := candidates.Iterator()
		for it.HasNext() {
			p := it.Next()
			if f, ok := fm[uint16(p)]; ok {
				raw[p] += uint64(f)
			}
		}
	}

	results := make([]Result, 0, candidates.GetCardinality())
	var best uint64
	it := candidates.Iterator()
	for it.HasNext() {
		p := it.Next()
		s := raw[p]
		best = max(best, s)
		results = append(results, Result{
			Page:    ix.page(int(p)),
			Ordinal: int(p),
			Raw:     s,
		})
	}

	// Every candidate can have a recorded frequency of zero; leave the
	// scores at zero rather than dividing by it.
	if best > 0 {
		for i := range results {
			results[i].Score = float64(results[i].Raw) / float64(best)
		}
	}

	// Candidates were collected in ascending ordinal order, so a stable
	// sort on score alone yields the ordinal tie-break.
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Raw, a.Raw)
	})
	return results
}

func (ix *Index) page(ordinal int) string {
	if ordinal < 0 || ordinal >= len(ix.pages) {
		return UnknownPage
	}
	return ix.pages[ordinal]
}
