// Byte cursor over an owned buffer.
//
// The cursor serves two roles. Over a decoded envelope or payload it is a
// sequential reader with big-endian field helpers. During cluster decoding
// it is a small append buffer: bytes of a multi-byte field are pushed one
// at a time and then reinterpreted with u16.
package owl

// cursor reads sequentially from buf. pos never exceeds len(buf).
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) len() int {
	return len(c.buf)
}

// remaining returns the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

// next returns the byte at the current position and advances past it.
func (c *cursor) next() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrUnexpectedEnd
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// u16 reads a big-endian uint16. It returns 0 without advancing when
// fewer than two bytes remain; the format treats a short field as zero.
func (c *cursor) u16() uint16 {
	if c.remaining() < 2 {
		return 0
	}
	v := uint16(c.buf[c.pos])<<8 | uint16(c.buf[c.pos+1])
	c.pos += 2
	return v
}

// u32 reads a big-endian uint32, with the same short-read rule as u16.
func (c *cursor) u32() uint32 {
	if c.remaining() < 4 {
		return 0
	}
	b := c.buf[c.pos : c.pos+4]
	c.pos += 4
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// extract copies size bytes starting at the current position into a new
// cursor. The receiver's position is left where it was.
func (c *cursor) extract(size int) (*cursor, error) {
	if size < 0 || size > c.remaining() {
		return nil, ErrUnexpectedEnd
	}
	out := make([]byte, size)
	copy(out, c.buf[c.pos:c.pos+size])
	return newCursor(out), nil
}

// push appends b to the buffer.
func (c *cursor) push(b byte) {
	c.buf = append(c.buf, b)
}

// reset empties the buffer and rewinds, keeping the allocation.
func (c *cursor) reset() {
	c.buf = c.buf[:0]
	c.pos = 0
}
