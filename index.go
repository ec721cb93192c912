// Index construction.
//
// Decoding runs the whole pipeline in one pass: base64, envelope header,
// gzip, name table, cluster stream. The result is assembled into an Index
// that is never modified afterwards, so any number of goroutines may
// query it without locking.
package owl

import (
	"encoding/base64"
	"log/slog"
)

// Config holds decode options. The zero value is ready to use.
type Config struct {
	HashAlgorithm  int          // Fingerprint algorithm (default AlgXXHash3)
	MaxPayloadSize int          // Decompressed payload limit (default 64MB)
	Logger         *slog.Logger // Debug diagnostics (default discards)
}

// Index is a decoded postings index.
type Index struct {
	pages []string

	// ordinals keeps each word's page ordinals in stream order, duplicates
	// included. freqs maps the same ordinals to their frequency, with a
	// later duplicate overriding an earlier one.
	ordinals map[string][]uint16
	freqs    map[string]map[uint16]uint16

	fingerprint string
	stats       Stats
}

// New decodes a base64-encoded index with default options.
func New(encoded string) (*Index, error) {
	return Decode(encoded, Config{})
}

// Decode decodes a base64-encoded (standard alphabet, padded) index.
func Decode(encoded string, config Config) (*Index, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fail(StageInput, 0, ErrInvalidInputEncoding)
	}
	return DecodeBytes(raw, config)
}

// DecodeBytes decodes an index envelope that is already unwrapped from
// base64. raw is not retained.
func DecodeBytes(raw []byte, config Config) (*Index, error) {
	if config.HashAlgorithm == 0 {
		config.HashAlgorithm = AlgXXHash3
	}
	if config.MaxPayloadSize == 0 {
		config.MaxPayloadSize = DefaultMaxPayloadSize
	}
	log := config.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	compressed, err := envelope(newCursor(raw))
	if err != nil {
		return nil, err
	}

	data, err := decompress(compressed.buf, config.MaxPayloadSize)
	if err != nil {
		return nil, fail(StagePayload, 0, err)
	}
	log.Debug("owl: payload inflated", "compressed", compressed.len(), "size", len(data))

	payload := newCursor(data)
	pages, err := names(payload)
	if err != nil {
		return nil, err
	}
	log.Debug("owl: name table read", "pages", len(pages), "offset", payload.pos)

	dec := newClusterDecoder(log)
	words, err := dec.decode(payload)
	if err != nil {
		return nil, err
	}

	ix := build(words, pages)
	ix.fingerprint = hash(data, config.HashAlgorithm)
	ix.stats.Clusters = dec.clusters
	ix.stats.Replaced = dec.replaced
	ix.stats.Trailing = dec.pending
	ix.stats.Fingerprint = ix.fingerprint
	log.Debug("owl: index built",
		"words", ix.stats.Words, "clusters", ix.stats.Clusters, "replaced", ix.stats.Replaced)
	return ix, nil
}

// build assembles the lookup maps. Ordinals are not checked against the
// page table here; Search resolves unknown ordinals to UnknownPage.
func build(words map[string]entry, pages []string) *Index {
	ix := &Index{
		pages:    pages,
		ordinals: make(map[string][]uint16, len(words)),
		freqs:    make(map[string]map[uint16]uint16, len(words)),
	}
	postings := 0
	for w, e := range words {
		ix.ordinals[w] = e.pages
		fm := make(map[uint16]uint16, len(e.pages))
		for i, p := range e.pages {
			fm[p] = e.freqs[i]
		}
		ix.freqs[w] = fm
		postings += len(e.pages)
	}
	ix.stats.Pages = len(pages)
	ix.stats.Words = len(words)
	ix.stats.Postings = postings
	return ix
}

// Fingerprint returns a 16 hex character digest of the decompressed
// payload. Indexes decoded from the same input share a fingerprint.
func (ix *Index) Fingerprint() string {
	return ix.fingerprint
}

// Stats returns counters gathered while decoding.
func (ix *Index) Stats() Stats {
	return ix.stats
}
