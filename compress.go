// Payload decompression.
//
// The envelope body is a standard gzip member. klauspost's gzip is a
// drop-in replacement for compress/gzip with a faster inflater; readers
// are pooled because each one carries a sizeable decode window.
package owl

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// DefaultMaxPayloadSize caps the decompressed payload (64MB).
const DefaultMaxPayloadSize = 64 * 1024 * 1024

var gzipReaders sync.Pool

// decompress inflates data, refusing output larger than limit bytes.
func decompress(data []byte, limit int) ([]byte, error) {
	src := bytes.NewReader(data)

	zr, ok := gzipReaders.Get().(*gzip.Reader)
	if ok {
		if err := zr.Reset(src); err != nil {
			gzipReaders.Put(zr)
			return nil, fmt.Errorf("%w: gzip: %w", ErrDecompress, err)
		}
	} else {
		var err error
		zr, err = gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrDecompress, err)
		}
	}
	defer gzipReaders.Put(zr)

	// Read one byte past the limit so an oversized stream is detectable.
	out, err := io.ReadAll(io.LimitReader(zr, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrDecompress, err)
	}
	if len(out) > limit {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrDecompress, limit)
	}
	return out, nil
}
