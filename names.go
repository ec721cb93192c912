// Page name table.
//
// The decompressed payload opens with a marker byte, then page names
// each terminated by 0x00, then 0x03. A page's ordinal is its position
// in this table. The cluster stream begins at the byte after 0x03.
package owl

import "unicode/utf8"

// Name table control bytes.
const (
	NamesStart = 0x02
	NameEnd    = 0x00
	NamesEnd   = 0x03
)

// names reads the page table and leaves c positioned at the first
// cluster byte. Bytes accumulated after the last name and before the
// table end are discarded.
func names(c *cursor) ([]string, error) {
	b, err := c.next()
	if err != nil {
		return nil, fail(StageNames, c.pos, err)
	}
	if b != NamesStart {
		return nil, fail(StageNames, 0, ErrInvalidFormat)
	}

	scratch := make([]byte, 0, 512)
	var pages []string

	for {
		b, err := c.next()
		if err != nil {
			return nil, fail(StageNames, c.pos, err)
		}
		switch b {
		case NameEnd:
			if !utf8.Valid(scratch) {
				return nil, fail(StageNames, c.pos-1, ErrInvalidEncoding)
			}
			pages = append(pages, string(scratch))
			scratch = scratch[:0]
		case NamesEnd:
			return pages, nil
		default:
			scratch = append(scratch, b)
		}
	}
}
