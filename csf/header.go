package csf

// Header holds the bytes preceding the first record. The content is not
// interpreted.
type Header struct {
	Bytes      []byte
	Terminator []byte
}

// ReadHeader consumes the header from c. If too few bytes remain, the cursor is
// not moved and a DataError wrapping ErrTruncatedInput is returned.
func ReadHeader(c *Cursor, f Format) (h Header, err error) {
	start := c.Pos()
	if c.Remaining() < f.prologueSize() {
		return h, DataError{Offset: int64(start), Cause: ErrTruncatedInput}
	}
	h.Bytes = append([]byte(nil), c.Peek(f.HeaderSize)...)
	c.Skip(f.HeaderSize)
	h.Terminator = append([]byte(nil), c.Peek(f.TerminatorSize)...)
	c.Skip(f.TerminatorSize)
	return h, nil
}
