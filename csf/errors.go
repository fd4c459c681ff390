package csf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// Indicates that the input is too short to contain the header.
	ErrTruncatedInput = errors.New("file too short for header")
	// Indicates that a record ends before one of its fields.
	ErrTruncatedRecord = errors.New("truncated record")
	// Indicates a length field outside of its sanity bound.
	ErrUnreasonableLength = errors.New("unreasonable length")
	// Indicates that no label marker was found before the end of the input.
	ErrDesync = errors.New("desync")
)

// DataError wraps an error that occurred at a particular position in the
// input.
type DataError struct {
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err DataError) Unwrap() error {
	return err.Cause
}

// RecordError indicates a structural error that stopped decoding. Records
// preceding the error are unaffected.
type RecordError struct {
	// Index is the position of the record within the file.
	Index int
	// Offset is the byte offset at which the record began, or -1 if the
	// record's marker was never found.
	Offset int64

	Cause error
}

func (err *RecordError) Error() string {
	if err.Offset < 0 {
		return fmt.Sprintf("record #%d: %s", err.Index, err.Cause)
	}
	return fmt.Sprintf("record #%d at %d: %s", err.Index, err.Offset, err.Cause)
}

func (err *RecordError) Unwrap() error {
	return err.Cause
}

// ResyncWarning indicates that bytes were skipped to find the start of a
// record.
type ResyncWarning struct {
	// Offset is the position of the first skipped byte.
	Offset int64
	// Skipped is the number of bytes skipped.
	Skipped int64
}

func (w ResyncWarning) Error() string {
	return fmt.Sprintf("skipped %d unknown bytes at %d", w.Skipped, w.Offset)
}

// SourceError wraps a failure to read the input.
type SourceError struct {
	Cause error
}

func (err SourceError) Error() string {
	return "read input: " + err.Cause.Error()
}

func (err SourceError) Unwrap() error {
	return err.Cause
}

// SinkError wraps a failure to write the output.
type SinkError struct {
	Cause error
}

func (err SinkError) Error() string {
	return "write output: " + err.Cause.Error()
}

func (err SinkError) Unwrap() error {
	return err.Cause
}
