// Enumeration of pages and words.
package owl

import (
	"iter"
	"maps"
	"slices"
)

// Pages yields the page table as (ordinal, name) pairs in ordinal order.
func (ix *Index) Pages() iter.Seq2[int, string] {
	return slices.All(ix.pages)
}

// Words yields every indexed word in sorted order. Sorting happens on each
// call because map iteration order is random and callers expect a stable
// listing.
func (ix *Index) Words() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(ix.ordinals)))
}
