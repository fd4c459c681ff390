package csf

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// EscapeValue escapes s for the quoted value line of a STR block. Line breaks
// become the two characters `\n`, and each double quote is doubled.
func EscapeValue(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", `\n`)
	return strings.ReplaceAll(s, `"`, `""`)
}

// Writer writes STR text, encoded with a single-byte code page. Characters
// that the code page cannot represent are written as '?'.
//
// Errors from the underlying writer are returned as SinkError. After an error,
// every method returns the same error.
type Writer struct {
	w       *bufio.Writer
	cm      *charmap.Charmap
	newline string
	err     error
}

// NewWriter returns a Writer that writes to w according to f.
func NewWriter(w io.Writer, f Format) *Writer {
	return &Writer{
		w:       bufio.NewWriter(w),
		cm:      f.OutputCharmap,
		newline: f.Newline,
	}
}

func (w *Writer) line(s string) {
	if w.err != nil {
		return
	}
	for _, r := range s {
		b, ok := w.cm.EncodeRune(r)
		if !ok {
			b = '?'
		}
		if err := w.w.WriteByte(b); err != nil {
			w.err = SinkError{Cause: err}
			return
		}
	}
	if _, err := w.w.WriteString(w.newline); err != nil {
		w.err = SinkError{Cause: err}
	}
}

// WriteRecord writes one block: the key, the quoted and escaped value, the
// line END, and a blank line.
func (w *Writer) WriteRecord(rec Record) error {
	w.line(rec.Key)
	w.line(`"` + EscapeValue(rec.Value) + `"`)
	w.line("END")
	w.line("")
	return w.err
}

// WriteDiagnostic writes err as a comment line.
func (w *Writer) WriteDiagnostic(err error) error {
	w.line("// ERROR: " + err.Error())
	return w.err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = SinkError{Cause: err}
	}
	return w.err
}
