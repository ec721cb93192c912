// Package owl decodes a compact, gzip-compressed, base64-wrapped postings
// index and answers free-text queries against it.
//
// An encoded index is an envelope holding a gzip payload. The payload
// starts with a table of page names followed by a stream of clusters.
// Each cluster groups words of one byte length together with their
// postings: (page ordinal, frequency) pairs. Decoding produces an
// immutable Index whose Search method sums term frequencies per page
// and normalises them against the best match.
package owl

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic handling. Every decode failure wraps
// exactly one of these, so callers can use errors.Is to tell a malformed
// envelope (ErrInvalidFormat, ErrUnexpectedEnd) from a damaged gzip
// stream (ErrDecompress) or text that is not UTF-8 (ErrInvalidEncoding).
var (
	ErrInvalidInputEncoding = errors.New("invalid base64 input")
	ErrInvalidFormat        = errors.New("invalid format")
	ErrUnexpectedEnd        = errors.New("unexpected end of data")
	ErrDecompress           = errors.New("decompression failed")
	ErrInvalidEncoding      = errors.New("invalid utf-8 text")
)

// Decode stages reported by DecodeError.
const (
	StageInput    = "input"
	StageHeader   = "header"
	StagePayload  = "payload"
	StageNames    = "names"
	StageClusters = "clusters"
)

// DecodeError records where in the pipeline decoding stopped. Offset is
// the byte position within the stage's buffer: the raw envelope for
// StageHeader, the decompressed payload for StageNames and StageClusters.
//
// The sentinel can be reached via errors.Is or errors.Unwrap.
type DecodeError struct {
	Stage  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("owl: %s at offset %d: %v", e.Stage, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func fail(stage string, offset int, err error) error {
	return &DecodeError{Stage: stage, Offset: offset, Err: err}
}
