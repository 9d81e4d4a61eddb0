// internal/rarheader/varint.go
package rarheader

import (
	"errors"
	"io"
)

// maxVarintLen is the longest RAR5 vint the format allows (ten 7-bit groups).
const maxVarintLen = 10

var errVarintOverflow = errors.New("varint too long or truncated")

// readVarint reads a RAR5 variable-length integer from the start of b and
// returns the value and the number of bytes consumed.
func readVarint(b []byte) (uint64, int, error) {
	var val uint64
	for i := 0; i < len(b) && i < maxVarintLen; i++ {
		c := b[i]
		val |= uint64(c&0x7F) << (7 * i)
		if c&0x80 == 0 {
			return val, i + 1, nil
		}
	}
	if len(b) == 0 {
		return 0, 0, io.ErrUnexpectedEOF
	}
	return 0, 0, errVarintOverflow
}

// cursor walks a header buffer field by field.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) varint() (uint64, error) {
	v, n, err := readVarint(c.buf[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += n
	return v, nil
}

func (c *cursor) bytes(n uint64) ([]byte, error) {
	if n > uint64(len(c.buf)-c.pos) {
		return nil, io.ErrUnexpectedEOF
	}
	b := c.buf[c.pos : c.pos+int(n)]
	c.pos += int(n)
	return b, nil
}

func (c *cursor) skip(n uint64) error {
	_, err := c.bytes(n)
	return err
}
