// Cluster stream decoding.
//
// After the name table the payload is a sequence of clusters:
//
//	word_length(1) cluster_length(1)
//	{ word(word_length) count(1) { page(2) freq(2) } x count } x cluster_length
//
// Every word in a cluster has the same byte length, which is written once
// per cluster rather than per word. The decoder is a byte-at-a-time state
// machine so that it never needs to look ahead; input may end anywhere and
// whatever clusters were completed by then form the result.
//
// Words inside a cluster are collected into a batch and the batch is merged
// into the running map only once it holds cluster_length distinct words.
// Merging replaces a word wholesale if an earlier cluster already had it.
package owl

import (
	"log/slog"
	"unicode/utf8"
)

// state is the decoder's position within the cluster grammar.
type state uint8

const (
	stateWordLength state = iota
	stateClusterLength
	stateWord
	statePageCount
	statePostingPage
	statePostingFrequency
)

var stateNames = [...]string{
	stateWordLength:       "word-length",
	stateClusterLength:    "cluster-length",
	stateWord:             "word",
	statePageCount:        "page-count",
	statePostingPage:      "posting-page",
	statePostingFrequency: "posting-frequency",
}

func (s state) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// entry is one word's postings as decoded: ordinals and frequencies are
// parallel slices in stream order.
type entry struct {
	pages []uint16
	freqs []uint16
}

// clusterDecoder holds all in-flight state for one decode.
type clusterDecoder struct {
	state state

	wordLength    int
	clusterLength int
	pageCount     int

	word  string
	wbuf  []byte  // word bytes so far
	field *cursor // two-byte scratch for page and frequency fields
	cur   entry

	batch  map[string]entry
	merged map[string]entry

	// Diagnostics.
	clusters int            // clusters merged so far
	seen     map[string]int // word -> cluster number that last wrote it
	replaced int
	pending  int // bytes consumed since the last merge
	log      *slog.Logger
}

func newClusterDecoder(log *slog.Logger) *clusterDecoder {
	return &clusterDecoder{
		field:  newCursor(make([]byte, 0, 2)),
		batch:  make(map[string]entry),
		merged: make(map[string]entry),
		seen:   make(map[string]int),
		log:    log,
	}
}

// decode feeds every remaining byte of c through the state machine and
// returns the merged word map. The first invalid word aborts with no result.
func (d *clusterDecoder) decode(c *cursor) (map[string]entry, error) {
	for c.remaining() > 0 {
		b, err := c.next()
		if err != nil {
			return nil, fail(StageClusters, c.pos, err)
		}
		if err := d.feed(b); err != nil {
			return nil, fail(StageClusters, c.pos-1, err)
		}
	}
	if d.pending > 0 {
		d.log.Debug("owl: incomplete trailing cluster dropped",
			"bytes", d.pending, "state", d.state.String(), "words", len(d.batch))
	}
	return d.merged, nil
}

// feed applies one byte to the current state.
func (d *clusterDecoder) feed(b byte) error {
	d.pending++

	switch d.state {
	case stateWordLength:
		d.wordLength = int(b)
		d.state = stateClusterLength

	case stateClusterLength:
		d.clusterLength = int(b)
		d.state = stateWord

	case stateWord:
		// Append before comparing: a zero word length never completes.
		d.wbuf = append(d.wbuf, b)
		if len(d.wbuf) == d.wordLength {
			if !utf8.Valid(d.wbuf) {
				return ErrInvalidEncoding
			}
			d.word = string(d.wbuf)
			d.wbuf = d.wbuf[:0]
			d.state = statePageCount
		}

	case statePageCount:
		d.pageCount = int(b)
		d.state = statePostingPage

	case statePostingPage:
		d.field.push(b)
		if d.field.len() == 2 {
			d.cur.pages = append(d.cur.pages, d.field.u16())
			d.field.reset()
			d.state = statePostingFrequency
		}

	case statePostingFrequency:
		d.field.push(b)
		if d.field.len() == 2 {
			d.cur.freqs = append(d.cur.freqs, d.field.u16())
			d.field.reset()
			d.state = statePostingPage
			// A zero page count never matches, so the word absorbs
			// the rest of the stream as postings.
			if len(d.cur.pages) == d.pageCount {
				d.endWord()
			}
		}
	}
	return nil
}

// endWord moves the finished word into the batch and, once the batch
// holds clusterLength distinct words, merges it.
func (d *clusterDecoder) endWord() {
	d.batch[d.word] = d.cur
	d.word = ""
	d.cur = entry{}
	d.state = stateWord

	if len(d.batch) == d.clusterLength {
		d.merge()
		d.state = stateWordLength
	}
}

func (d *clusterDecoder) merge() {
	d.clusters++
	for w, e := range d.batch {
		if prev, ok := d.seen[w]; ok {
			d.replaced++
			d.log.Debug("owl: word replaced by later cluster",
				"word", w, "previous", prev, "cluster", d.clusters)
		}
		d.seen[w] = d.clusters
		d.merged[w] = e
	}
	clear(d.batch)
	d.pending = 0
}
