// Cluster decoder tests.
//
// The decoder is a byte-at-a-time state machine with a few format rules
// that look like bugs but are part of the contract:
//
//  1. Word length is written once per cluster and shared by every word
//     in it. It is never re-read per word.
//  2. A batch is merged only once it holds cluster_length distinct words.
//     Input ending mid-cluster drops that cluster.
//  3. A later cluster replaces a word's postings wholesale.
//  4. A zero word length or zero posting count never completes, so the
//     rest of the stream is absorbed without error.
//
// Every byte value is structurally valid in every state; the only
// failure is a word that is not UTF-8.
package owl

import (
	"errors"
	"log/slog"
	"slices"
	"testing"
)

var discard = slog.New(slog.DiscardHandler)

// decodeClusters runs the decoder over raw cluster bytes.
func decodeClusters(t *testing.T, data []byte) (*clusterDecoder, map[string]entry) {
	t.Helper()
	d := newClusterDecoder(discard)
	words, err := d.decode(newCursor(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return d, words
}

// TestClusterStates walks a single-word cluster byte by byte and checks
// the state after each one.
func TestClusterStates(t *testing.T) {
	data := cluster(word{"ab", [][2]uint16{{1, 2}}})
	want := []state{
		stateClusterLength,    // after word length
		stateWord,             // after cluster length
		stateWord,             // 'a'
		statePageCount,        // 'b'
		statePostingPage,      // count
		statePostingPage,      // page hi
		statePostingFrequency, // page lo
		statePostingFrequency, // freq hi
		stateWordLength,       // freq lo: word and cluster complete
	}

	d := newClusterDecoder(discard)
	for i, b := range data {
		if err := d.feed(b); err != nil {
			t.Fatalf("feed %d: %v", i, err)
		}
		if d.state != want[i] {
			t.Errorf("after byte %d: state = %s, want %s", i, d.state, want[i])
		}
	}
	if d.clusters != 1 {
		t.Errorf("clusters = %d, want 1", d.clusters)
	}
}

// TestClusterSharedWordLength decodes two three-byte words that share
// one length byte.
func TestClusterSharedWordLength(t *testing.T) {
	_, words := decodeClusters(t, cluster(
		word{"cat", [][2]uint16{{0, 2}}},
		word{"dog", [][2]uint16{{0, 1}, {1, 3}}},
	))

	if len(words) != 2 {
		t.Fatalf("words = %d, want 2", len(words))
	}
	if got := words["dog"].pages; !slices.Equal(got, []uint16{0, 1}) {
		t.Errorf("dog pages = %v, want [0 1]", got)
	}
	if got := words["dog"].freqs; !slices.Equal(got, []uint16{1, 3}) {
		t.Errorf("dog freqs = %v, want [1 3]", got)
	}
}

// TestClusterMixedWordLengths writes words of different lengths into one
// cluster. The decoder slices by the cluster's length byte, so it either
// reads different (garbage) words or fails on invalid UTF-8. It must not
// panic either way.
func TestClusterMixedWordLengths(t *testing.T) {
	data := cluster(
		word{"cat", [][2]uint16{{0, 1}}},
		word{"horse", [][2]uint16{{1, 1}}},
	)
	d := newClusterDecoder(discard)
	words, err := d.decode(newCursor(data))
	if err != nil {
		if !errors.Is(err, ErrInvalidEncoding) {
			t.Fatalf("err = %v, want nil or ErrInvalidEncoding", err)
		}
		return
	}
	if _, ok := words["horse"]; ok {
		t.Error("horse decoded despite the shared three-byte length")
	}
}

// TestClusterMultiple decodes consecutive clusters with different word
// lengths, each re-reading its own length byte.
func TestClusterMultiple(t *testing.T) {
	d, words := decodeClusters(t, slices.Concat(
		cluster(word{"a", [][2]uint16{{0, 1}}}),
		cluster(word{"bb", [][2]uint16{{1, 2}}}, word{"cc", [][2]uint16{{2, 3}}}),
		cluster(word{"dddd", [][2]uint16{{3, 4}}}),
	))
	if d.clusters != 3 {
		t.Errorf("clusters = %d, want 3", d.clusters)
	}
	for _, w := range []string{"a", "bb", "cc", "dddd"} {
		if _, ok := words[w]; !ok {
			t.Errorf("word %q missing", w)
		}
	}
}

// TestClusterLaterClusterReplaces verifies word-level last-write-wins:
// the second cluster's postings replace the first's entirely.
func TestClusterLaterClusterReplaces(t *testing.T) {
	d, words := decodeClusters(t, slices.Concat(
		cluster(word{"cat", [][2]uint16{{0, 9}, {1, 9}}}),
		cluster(word{"cat", [][2]uint16{{2, 4}}}),
	))
	if got := words["cat"].pages; !slices.Equal(got, []uint16{2}) {
		t.Errorf("cat pages = %v, want [2]", got)
	}
	if d.replaced != 1 {
		t.Errorf("replaced = %d, want 1", d.replaced)
	}
}

// TestClusterDuplicateWordInBatch verifies that a word repeated inside
// one cluster counts once toward cluster_length: the batch needs another
// distinct word before it merges.
func TestClusterDuplicateWordInBatch(t *testing.T) {
	data := rawCluster(3, 2,
		word{"cat", [][2]uint16{{0, 1}}},
		word{"cat", [][2]uint16{{1, 1}}},
	)

	d, words := decodeClusters(t, data)
	if len(words) != 0 {
		t.Errorf("words = %v, want none merged", words)
	}
	if len(d.batch) != 1 {
		t.Errorf("batch size = %d, want 1", len(d.batch))
	}

	// One more distinct word completes the cluster; cat keeps its
	// second postings.
	more := rawCluster(0, 0, word{"dog", [][2]uint16{{2, 1}}})[2:]
	_, words = decodeClusters(t, append(data, more...))
	if got := words["cat"].pages; !slices.Equal(got, []uint16{1}) {
		t.Errorf("cat pages = %v, want [1]", got)
	}
	if _, ok := words["dog"]; !ok {
		t.Error("dog missing")
	}
}

// TestClusterTrailingIncomplete verifies that a cluster cut off before
// its last word finishes is dropped, while earlier clusters survive.
func TestClusterTrailingIncomplete(t *testing.T) {
	full := cluster(word{"cat", [][2]uint16{{0, 1}}})
	partial := cluster(
		word{"dog", [][2]uint16{{0, 1}}},
		word{"emu", [][2]uint16{{0, 1}}},
	)

	for cut := 1; cut < len(partial); cut++ {
		d, words := decodeClusters(t, slices.Concat(full, partial[:cut]))
		if len(words) != 1 {
			t.Errorf("cut %d: words = %d, want 1", cut, len(words))
		}
		if _, ok := words["dog"]; ok {
			t.Errorf("cut %d: dog merged from an incomplete cluster", cut)
		}
		if d.pending != cut {
			t.Errorf("cut %d: pending = %d, want %d", cut, d.pending, cut)
		}
	}
}

// TestClusterZeroWordLength verifies that L=0 absorbs every following
// byte into the word buffer without completing or failing.
func TestClusterZeroWordLength(t *testing.T) {
	data := append([]byte{0, 1}, cluster(word{"cat", [][2]uint16{{0, 1}}})...)
	d, words := decodeClusters(t, data)
	if len(words) != 0 {
		t.Errorf("words = %v, want none", words)
	}
	if d.state != stateWord {
		t.Errorf("state = %s, want %s", d.state, stateWord)
	}
	if len(d.wbuf) != len(data)-2 {
		t.Errorf("word buffer = %d bytes, want %d", len(d.wbuf), len(data)-2)
	}
}

// TestClusterZeroPostingCount verifies that P=0 keeps consuming postings
// until input ends.
func TestClusterZeroPostingCount(t *testing.T) {
	data := []byte{1, 1, 'x', 0, 0, 1, 0, 1, 0, 2, 0, 2}
	d, words := decodeClusters(t, data)
	if len(words) != 0 {
		t.Errorf("words = %v, want none", words)
	}
	if len(d.cur.pages) != 2 {
		t.Errorf("pending postings = %d, want 2", len(d.cur.pages))
	}
}

// TestClusterZeroClusterLength verifies that C=0 never merges.
func TestClusterZeroClusterLength(t *testing.T) {
	_, words := decodeClusters(t, rawCluster(1, 0, word{"x", [][2]uint16{{0, 1}}}))
	if len(words) != 0 {
		t.Errorf("words = %v, want none", words)
	}
}

// TestClusterInvalidWord verifies that a non-UTF-8 word aborts the whole
// decode and discards clusters already merged.
func TestClusterInvalidWord(t *testing.T) {
	data := slices.Concat(
		cluster(word{"ok", [][2]uint16{{0, 1}}}),
		[]byte{2, 1, 0xC3, 0x28, 1, 0, 0, 0, 1},
	)
	d := newClusterDecoder(discard)
	words, err := d.decode(newCursor(data))
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("err = %v, want ErrInvalidEncoding", err)
	}
	if words != nil {
		t.Errorf("words = %v, want nil", words)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err %T is not *DecodeError", err)
	}
	if de.Stage != StageClusters || de.Offset != len(cluster(word{"ok", [][2]uint16{{0, 1}}}))+3 {
		t.Errorf("stage/offset = %s/%d", de.Stage, de.Offset)
	}
}

// TestClusterAnyByteAccepted feeds every byte value in every state; none
// may fail, because only word text is validated.
func TestClusterAnyByteAccepted(t *testing.T) {
	for s := stateWordLength; s <= statePostingFrequency; s++ {
		if s == stateWord {
			continue
		}
		for b := 0; b < 256; b++ {
			d := newClusterDecoder(discard)
			d.state = s
			d.pageCount = 1
			d.word = "w"
			if err := d.feed(byte(b)); err != nil {
				t.Errorf("state %s byte %#x: %v", s, b, err)
			}
		}
	}
}

func TestClusterEmptyStream(t *testing.T) {
	d, words := decodeClusters(t, nil)
	if len(words) != 0 || d.clusters != 0 || d.pending != 0 {
		t.Errorf("empty stream: words=%d clusters=%d pending=%d", len(words), d.clusters, d.pending)
	}
}

func TestStateString(t *testing.T) {
	if got := statePostingFrequency.String(); got != "posting-frequency" {
		t.Errorf("String = %q", got)
	}
	if got := state(99).String(); got != "unknown" {
		t.Errorf("String(99) = %q, want unknown", got)
	}
}
