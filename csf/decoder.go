package csf

import (
	"io"

	"github.com/csftools/csfstr/errors"
)

// DecoderStats holds counts gathered while decoding.
type DecoderStats struct {
	// Records is the number of records decoded.
	Records int
	// ValueRecords is the number of records that had a value block.
	ValueRecords int
	// EmptyValues is the number of records written with an empty value.
	EmptyValues int
	// Resyncs is the number of times unknown bytes were skipped before a
	// record.
	Resyncs int
	// SkippedBytes is the total number of unknown bytes skipped.
	SkippedBytes int64
	// Stopped is the message of the error that ended decoding early, if any.
	Stopped string `json:",omitempty"`
}

// Decoder converts a string table into STR text.
type Decoder struct {
	// Format describes the binary layout. The zero value selects
	// DefaultFormat.
	Format Format

	// If Stats is not nil, it is filled with statistics of the last decode.
	Stats *DecoderStats
}

func (d Decoder) format() Format {
	if d.Format.KeyCharmap == nil && d.Format.LabelMarker == [4]byte{} {
		return DefaultFormat()
	}
	return d.Format
}

// read consumes r entirely and prepares a Reader over its content.
func (d Decoder) read(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, errors.New("nil reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, SourceError{Cause: err}
	}
	return NewReader(data, d.format())
}

// Convert decodes a string table from r and writes it to w as STR text.
//
// If a record cannot be decoded, a single "// ERROR:" line is written after
// the blocks already produced, and decoding stops. This is not reported
// through err; the structural error is instead included in warn, along with
// any other problems that did not stop decoding.
//
// err is non-nil if the header cannot be read, or if reading r or writing w
// fails. Output already written to w is left in place.
func (d Decoder) Convert(w io.Writer, r io.Reader) (warn, err error) {
	if w == nil {
		return nil, errors.New("nil writer")
	}
	rr, err := d.read(r)
	if err != nil {
		return nil, err
	}
	defer d.fillStats(rr)

	sw := NewWriter(w, rr.format)
	var stop error
	for {
		rec, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			stop = err
			if err := sw.WriteDiagnostic(err); err != nil {
				return errors.Union(rr.Warnings(), stop), err
			}
			break
		}
		if err := sw.WriteRecord(rec); err != nil {
			return rr.Warnings(), err
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.Union(rr.Warnings(), stop), err
	}
	return errors.Union(rr.Warnings(), stop), nil
}

func (d Decoder) fillStats(rr *Reader) {
	if d.Stats != nil {
		*d.Stats = rr.Stats()
	}
}

// Convert decodes a string table from r in the default format, and writes it
// to w as STR text.
func Convert(w io.Writer, r io.Reader) (warn, err error) {
	return Decoder{}.Convert(w, r)
}
