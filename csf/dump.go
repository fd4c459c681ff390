package csf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/csftools/csfstr/errors"
)

// Dump writes to w a readable representation of the string table decoded from
// r, including offsets and raw bytes of each record.
func (d Decoder) Dump(w io.Writer, r io.Reader) (warn, err error) {
	if w == nil {
		return nil, errors.New("nil writer")
	}
	rr, err := d.read(r)
	if err != nil {
		return nil, err
	}
	defer d.fillStats(rr)

	bw := bufio.NewWriter(w)
	h := rr.Header()
	bw.WriteString("Header: ")
	dumpBytes(bw, 0, h.Bytes)
	bw.WriteString("\nTerminator: ")
	dumpBytes(bw, 0, h.Terminator)
	bw.WriteString("\nRecords: {")

	var stop error
	for {
		rec, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			stop = err
			break
		}
		dumpRecord(bw, 1, rr.index-1, rec)
	}
	bw.WriteString("\n}")
	if stop != nil {
		fmt.Fprintf(bw, "\nStopped: %s", stop)
	}
	bw.WriteByte('\n')

	if err := bw.Flush(); err != nil {
		return errors.Union(rr.Warnings(), stop), SinkError{Cause: err}
	}
	return errors.Union(rr.Warnings(), stop), nil
}

func dumpRecord(w *bufio.Writer, indent, i int, rec Record) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: {", i)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Offset: %d", rec.Offset)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "LabelID: %d", rec.LabelID)
	dumpNewline(w, indent+1)
	w.WriteString("Key: ")
	dumpString(w, indent+1, rec.Key)
	dumpNewline(w, indent+1)
	w.WriteString("RawKey: ")
	dumpBytes(w, indent+1, rec.RawKey)
	dumpNewline(w, indent+1)
	if !rec.HasValue {
		w.WriteString("Value: <none>")
	} else {
		w.WriteString("Value: ")
		dumpString(w, indent+1, rec.Value)
		dumpNewline(w, indent+1)
		w.WriteString("RawValue: ")
		dumpBytes(w, indent+1, rec.RawValue)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}

func dumpString(w *bufio.Writer, indent int, s string) {
	for _, r := range s {
		if !unicode.IsGraphic(r) {
			dumpBytes(w, indent, []byte(s))
			return
		}
	}
	fmt.Fprintf(w, "(len:%d) ", len(s))
	w.WriteString(strconv.Quote(s))
}

// dumpBytes writes b as rows of hex with an ASCII column.
func dumpBytes(w *bufio.Writer, indent int, b []byte) {
	fmt.Fprintf(w, "(len:%d)", len(b))
	const width = 16
	for j := 0; j < len(b); j += width {
		n := j + width
		if n > len(b) {
			n = len(b)
		}
		dumpNewline(w, indent+1)
		w.WriteString("| ")
		for i := j; i < j+width; i++ {
			if i < n {
				fmt.Fprintf(w, "%02x", b[i])
			} else if len(b) > width {
				w.WriteString("  ")
			} else {
				break
			}
			if (i+1)%8 == 0 && i+1 < j+width {
				w.WriteString("  ")
			} else {
				w.WriteByte(' ')
			}
		}
		w.WriteByte('|')
		for i := j; i < n; i++ {
			if 0x20 <= b[i] && b[i] <= 0x7E {
				w.WriteByte(b[i])
			} else {
				w.WriteByte('.')
			}
		}
		w.WriteByte('|')
	}
}
