// Envelope header.
//
// An encoded index starts with a 5 byte magic ("owl", a zero byte and
// the format version 1) followed by a 4 byte big-endian length and that
// many bytes of gzip data. Anything after the gzip data is ignored.
package owl

// Magic is the envelope prefix: "owl\x00" and version 1.
var Magic = [5]byte{0x6F, 0x77, 0x6C, 0x00, 0x01}

// MagicSize is the length of the envelope prefix in bytes.
const MagicSize = len(Magic)

// LengthSize is the width of the payload length field.
const LengthSize = 4

// envelope validates the magic and returns a cursor over the compressed
// payload. A buffer holding nothing beyond the magic is rejected.
func envelope(c *cursor) (*cursor, error) {
	if c.len() <= MagicSize {
		return nil, fail(StageHeader, 0, ErrInvalidFormat)
	}
	for i, want := range Magic {
		b, err := c.next()
		if err != nil {
			return nil, fail(StageHeader, i, err)
		}
		if b != want {
			return nil, fail(StageHeader, i, ErrInvalidFormat)
		}
	}

	// A truncated length field reads as zero, which yields an empty
	// payload and fails later in gunzip rather than here.
	size := int(c.u32())
	payload, err := c.extract(size)
	if err != nil {
		return nil, fail(StageHeader, c.pos, err)
	}
	return payload, nil
}
