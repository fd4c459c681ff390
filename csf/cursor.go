package csf

import (
	"io"
)

// Cursor reads from a finite sequence of bytes with a movable position. The
// position is always within [0, Len].
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the total number of bytes.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Pos returns the current position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bytes after the current position.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Read implements io.Reader.
func (c *Cursor) Read(p []byte) (n int, err error) {
	if c.pos >= len(c.data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n = copy(p, c.data[c.pos:])
	c.pos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Peek returns up to n bytes following the current position without
// advancing. The result is shorter than n if the end is reached. The returned
// slice aliases the underlying data.
func (c *Cursor) Peek(n int) []byte {
	if n > c.Remaining() {
		n = c.Remaining()
	}
	if n < 0 {
		n = 0
	}
	return c.data[c.pos : c.pos+n]
}

// Seek sets the position, clamped to [0, Len].
func (c *Cursor) Seek(pos int) {
	switch {
	case pos < 0:
		pos = 0
	case pos > len(c.data):
		pos = len(c.data)
	}
	c.pos = pos
}

// Skip advances the position by exactly n bytes. Returns false without moving
// if fewer than n bytes remain.
func (c *Cursor) Skip(n int) bool {
	if n < 0 || n > c.Remaining() {
		return false
	}
	c.pos += n
	return true
}

// SeekMarker scans forward from the current position for the first occurrence
// of marker. If found, the cursor is positioned at the first byte of the
// marker, which is not consumed, and true is returned. Otherwise the cursor is
// left at the end and false is returned.
//
// The scan tracks only the number of consecutively matched bytes. On a
// mismatch, the count restarts at 1 if the byte matches the first byte of the
// marker. This is exact for markers whose first byte does not reappear
// within them, such as " LBL"; it is not a general substring search.
func (c *Cursor) SeekMarker(marker []byte) bool {
	if len(marker) == 0 {
		return true
	}
	matched := 0
	for c.pos < len(c.data) {
		b := c.data[c.pos]
		c.pos++
		if b == marker[matched] {
			matched++
			if matched == len(marker) {
				c.pos -= len(marker)
				return true
			}
			continue
		}
		if b == marker[0] {
			matched = 1
		} else {
			matched = 0
		}
	}
	return false
}
