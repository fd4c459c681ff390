package csf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/anaminus/parse"
	"github.com/csftools/csfstr/errors"
)

const maxInt = int(^uint(0) >> 1)

// Record is one key and value pair of a string table.
type Record struct {
	// Offset is the position of the record's label marker.
	Offset int64
	// LabelID is read from the record, but has no meaning to the decoder.
	LabelID uint32

	// Key is the sanitized key text.
	Key string
	// Value is the sanitized value text. It is empty if HasValue is false.
	Value string
	// HasValue is whether the record contained a value block.
	HasValue bool

	// RawKey holds the key bytes as stored.
	RawKey []byte
	// RawValue holds the value bytes as stored, before inversion.
	RawValue []byte
}

// Reader reads records from a string table held in memory.
//
// Once Next returns an error, the Reader is spent and every subsequent call
// returns the same error.
type Reader struct {
	format Format
	c      *Cursor
	header Header

	index int
	err   error
	warns errors.Errors
	stats DecoderStats
}

// NewReader consumes the header from data and returns a Reader positioned at
// the first record. Returns an error wrapping ErrTruncatedInput if data is too
// short to hold the header.
func NewReader(data []byte, f Format) (*Reader, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid format: %w", err)
	}
	r := &Reader{format: f, c: NewCursor(data)}
	h, err := ReadHeader(r.c, f)
	if err != nil {
		return nil, err
	}
	r.header = h
	return r, nil
}

// Header returns the header read by NewReader.
func (r *Reader) Header() Header {
	return r.header
}

// Warnings returns the non-fatal problems encountered so far, or nil.
func (r *Reader) Warnings() error {
	return r.warns.Return()
}

// Stats returns counts accumulated so far.
func (r *Reader) Stats() DecoderStats {
	return r.stats
}

// Next reads the next record. Returns io.EOF if the input is exhausted at a
// record boundary. Any other error is a *RecordError, after which no further
// records can be read.
func (r *Reader) Next() (rec Record, err error) {
	if r.err != nil {
		return Record{}, r.err
	}
	if r.c.Remaining() == 0 {
		r.err = io.EOF
		return Record{}, r.err
	}
	if rec, err = r.readRecord(); err != nil {
		r.err = err
		r.stats.Stopped = err.Error()
		return Record{}, err
	}
	r.index++
	r.stats.Records++
	if rec.HasValue {
		r.stats.ValueRecords++
	}
	if rec.Value == "" {
		r.stats.EmptyValues++
	}
	return rec, nil
}

func (r *Reader) readRecord() (rec Record, err error) {
	f := r.format
	rec.Offset = -1
	stop := func(kind error, format string, v ...interface{}) error {
		return &RecordError{
			Index:  r.index,
			Offset: rec.Offset,
			Cause:  fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, v...)),
		}
	}

	start := r.c.Pos()
	if !r.c.SeekMarker(f.LabelMarker[:]) {
		return rec, stop(ErrDesync, "could not find %q marker before end of input", string(f.LabelMarker[:]))
	}
	if skipped := r.c.Pos() - start; skipped > 0 {
		r.warns = append(r.warns, ResyncWarning{Offset: int64(start), Skipped: int64(skipped)})
		r.stats.Resyncs++
		r.stats.SkippedBytes += int64(skipped)
	}
	rec.Offset = int64(r.c.Pos())

	fr := parse.NewBinaryReader(r.c)

	var marker [4]byte
	if fr.Bytes(marker[:]) {
		return rec, stop(ErrTruncatedRecord, "missing label marker")
	}
	if fr.Number(&rec.LabelID) {
		return rec, stop(ErrTruncatedRecord, "missing label id")
	}

	var keyLength uint32
	if fr.Number(&keyLength) {
		return rec, stop(ErrTruncatedRecord, "missing key length")
	}
	if keyLength == 0 || keyLength > f.MaxKeyLength {
		return rec, stop(ErrUnreasonableLength, "key length %d", keyLength)
	}
	if uint64(keyLength) > uint64(r.c.Remaining()) {
		return rec, stop(ErrTruncatedRecord, "missing key")
	}
	rec.RawKey = make([]byte, keyLength)
	if fr.Bytes(rec.RawKey) {
		return rec, stop(ErrTruncatedRecord, "missing key")
	}
	rec.Key = Sanitize(DecodeKey(rec.RawKey, f.KeyCharmap))

	// A value block is present only if the text marker immediately follows.
	if !bytes.Equal(r.c.Peek(len(f.TextMarker)), f.TextMarker[:]) {
		return rec, nil
	}
	rec.HasValue = true

	if fr.Bytes(marker[:]) {
		return rec, stop(ErrTruncatedRecord, "missing text marker")
	}

	var units uint32
	if fr.Number(&units) {
		return rec, stop(ErrTruncatedRecord, "missing value length")
	}
	if units > f.MaxValueUnits {
		return rec, stop(ErrUnreasonableLength, "value length %d", units)
	}
	if uint64(units) > uint64(maxInt/2) {
		return rec, stop(ErrUnreasonableLength, "value length %d overflows", units)
	}
	n := int(units) * 2
	if n > r.c.Remaining() {
		return rec, stop(ErrTruncatedRecord, "missing value payload")
	}
	rec.RawValue = make([]byte, n)
	if fr.Bytes(rec.RawValue) {
		return rec, stop(ErrTruncatedRecord, "missing value payload")
	}
	rec.Value = Sanitize(DecodeUTF16LE(InvertBytes(rec.RawValue)))

	return rec, nil
}
