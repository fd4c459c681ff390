package csf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func convert(t *testing.T, d Decoder, data []byte) (out string, warn error) {
	t.Helper()
	var buf bytes.Buffer
	warn, err := d.Convert(&buf, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.String(), warn
}

func TestConvertTwoRecords(t *testing.T) {
	data := app(header,
		label(1, "GUI:OK"), text("OK"),
		label(2, "GUI:Cancel"), text("Cancel"),
	)
	out, warn := convert(t, Decoder{}, data)
	if warn != nil {
		t.Errorf("unexpected warning: %v", warn)
	}
	want := "GUI:OK\n\"OK\"\nEND\n\nGUI:Cancel\n\"Cancel\"\nEND\n\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestConvertNoValue(t *testing.T) {
	out, _ := convert(t, Decoder{}, app(header, label(0, "NAME")))
	if want := "NAME\n\"\"\nEND\n\n"; out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestConvertShortPeek(t *testing.T) {
	// Fewer than four bytes follow the key; they are not a text marker, so
	// the record has no value and the remainder fails to resync.
	out, warn := convert(t, Decoder{}, app(header, label(0, "NAME"), " R"))
	if !strings.HasPrefix(out, "NAME\n\"\"\nEND\n\n// ERROR: ") {
		t.Errorf("unexpected output %q", out)
	}
	if !errors.Is(warn, ErrDesync) {
		t.Errorf("expected desync, got %v", warn)
	}
}

func TestConvertEscapedValue(t *testing.T) {
	out, _ := convert(t, Decoder{}, app(header, label(0, "KEY"), text("He said \"Hi\"\r\nBye")))
	want := "KEY\n\"He said \"\"Hi\"\"\\nBye\"\nEND\n\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestConvertLoneSurrogate(t *testing.T) {
	data := app(header, label(0, "KEY"), textUnits([]uint16{'A', 0xD800, 'B'}))
	out, _ := convert(t, Decoder{}, data)
	if want := "KEY\n\"AB\"\nEND\n\n"; out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestConvertUndefinedKeyByte(t *testing.T) {
	// 0x81 has no Windows-1252 assignment; it decodes to a C1 control and is
	// dropped instead of reaching the output as '?'.
	data := app(header, " LBL", le32(0), le32(3), "A\x81B")
	out, _ := convert(t, Decoder{}, data)
	if want := "AB\n\"\"\nEND\n\n"; out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestConvertZeroKeyLength(t *testing.T) {
	data := app(header, label(0, "A"), app(" LBL", le32(0), le32(0)), label(0, "B"))
	out, warn := convert(t, Decoder{}, data)
	if !errors.Is(warn, ErrUnreasonableLength) {
		t.Errorf("expected unreasonable length, got %v", warn)
	}
	if !strings.HasPrefix(out, "A\n\"\"\nEND\n\n// ERROR: ") || strings.Contains(out, "B\n") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestConvertValueTooLong(t *testing.T) {
	data := app(header, label(0, "A"), " RTS", le32(5_000_001))
	out, warn := convert(t, Decoder{}, data)
	if !errors.Is(warn, ErrUnreasonableLength) {
		t.Errorf("expected unreasonable length, got %v", warn)
	}
	if strings.Count(out, "// ERROR:") != 1 || strings.Contains(out, "END") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestConvertTruncatedPayload(t *testing.T) {
	data := app(header,
		label(0, "FIRST"), text("one"),
		label(0, "SECOND"), " RTS", le32(3),
	)
	out, warn := convert(t, Decoder{}, data)
	if !errors.Is(warn, ErrTruncatedRecord) {
		t.Errorf("expected truncated record, got %v", warn)
	}
	block := "FIRST\n\"one\"\nEND\n\n"
	if !strings.HasPrefix(out, block) {
		t.Fatalf("missing first block in %q", out)
	}
	rest := out[len(block):]
	if !strings.HasPrefix(rest, "// ERROR: ") || strings.Count(rest, "\n") != 1 || !strings.HasSuffix(rest, "\n") {
		t.Errorf("expected a single error line, got %q", rest)
	}
	if !strings.Contains(rest, "missing value payload") {
		t.Errorf("unexpected message %q", rest)
	}
}

func TestConvertTruncatedKey(t *testing.T) {
	data := app(header, " LBL", le32(0), le32(10), "abc")
	out, warn := convert(t, Decoder{}, data)
	if !errors.Is(warn, ErrTruncatedRecord) {
		t.Errorf("expected truncated record, got %v", warn)
	}
	if want := "// ERROR: record #0 at 25: truncated record: missing key\n"; out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestConvertPadding(t *testing.T) {
	data := app(header,
		"\x00\x00 L\x00", label(0, "A"), text("a"),
		"\xFF", label(0, "B"),
	)
	var stats DecoderStats
	out, warn := convert(t, Decoder{Stats: &stats}, data)
	if want := "A\n\"a\"\nEND\n\nB\n\"\"\nEND\n\n"; out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
	var rw ResyncWarning
	if !errors.As(warn, &rw) || rw.Offset != 25 || rw.Skipped != 5 {
		t.Errorf("unexpected warning %v", warn)
	}
	want := DecoderStats{Records: 2, ValueRecords: 1, EmptyValues: 1, Resyncs: 2, SkippedBytes: 6}
	if stats != want {
		t.Errorf("expected stats %+v, got %+v", want, stats)
	}
}

func TestConvertTrailingGarbage(t *testing.T) {
	data := app(header, label(0, "A"), "junk")
	var stats DecoderStats
	out, warn := convert(t, Decoder{Stats: &stats}, data)
	if !errors.Is(warn, ErrDesync) {
		t.Errorf("expected desync, got %v", warn)
	}
	if !strings.HasSuffix(out, "END\n\n// ERROR: record #1: desync: could not find \" LBL\" marker before end of input\n") {
		t.Errorf("unexpected output %q", out)
	}
	if stats.Records != 1 || stats.Stopped == "" {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestConvertHeaderOnly(t *testing.T) {
	out, warn := convert(t, Decoder{}, header)
	if out != "" || warn != nil {
		t.Errorf("expected empty output, got %q (%v)", out, warn)
	}
}

func TestConvertTruncatedHeader(t *testing.T) {
	var buf bytes.Buffer
	_, err := Convert(&buf, bytes.NewReader(make([]byte, 24)))
	if !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("expected truncated input, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

type failReader struct{}

var errUnreadable = errors.New("unreadable")

func (failReader) Read(p []byte) (int, error) {
	return 0, errUnreadable
}

func TestConvertIOErrors(t *testing.T) {
	var buf bytes.Buffer
	_, err := Convert(&buf, failReader{})
	var srcErr SourceError
	if !errors.As(err, &srcErr) || !errors.Is(err, errUnreadable) {
		t.Errorf("expected SourceError, got %v", err)
	}

	_, err = Convert(failWriter{}, bytes.NewReader(app(header, label(0, "A"))))
	var sinkErr SinkError
	if !errors.As(err, &sinkErr) {
		t.Errorf("expected SinkError, got %v", err)
	}

	if _, err := Convert(nil, bytes.NewReader(header)); err == nil {
		t.Error("expected error (nil writer)")
	}
	if _, err := Convert(&buf, nil); err == nil {
		t.Error("expected error (nil reader)")
	}
}

func TestConvertIdempotent(t *testing.T) {
	data := app(header,
		label(7, "A"), text("first\r\nline"),
		"\x00", label(8, "B"),
		label(9, "C"), text("\"quoted\""),
	)
	first, _ := convert(t, Decoder{}, data)
	second, _ := convert(t, Decoder{}, data)
	if first != second {
		t.Errorf("outputs differ:\n%q\n%q", first, second)
	}
}

func TestReaderNext(t *testing.T) {
	data := app(header, label(42, "K"), text("v"))
	r, err := NewReader(data, DefaultFormat())
	if err != nil {
		t.Fatal(err)
	}
	rec, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Offset != 25 || rec.LabelID != 42 || rec.Key != "K" || rec.Value != "v" || !rec.HasValue {
		t.Errorf("unexpected record %+v", rec)
	}
	if !bytes.Equal(rec.RawValue, []byte{0x89, 0xFF}) {
		t.Errorf("unexpected raw value % X", rec.RawValue)
	}
	for i := 0; i < 2; i++ {
		if _, err := r.Next(); err != io.EOF {
			t.Errorf("expected EOF, got %v", err)
		}
	}
}

func TestReaderTerminal(t *testing.T) {
	r, err := NewReader(app(header, "nothing here"), DefaultFormat())
	if err != nil {
		t.Fatal(err)
	}
	_, first := r.Next()
	var recErr *RecordError
	if !errors.As(first, &recErr) || recErr.Index != 0 || recErr.Offset != -1 {
		t.Fatalf("unexpected error %v", first)
	}
	if _, err := r.Next(); err != first {
		t.Errorf("expected sticky error, got %v", err)
	}
}

func TestCustomFormat(t *testing.T) {
	f := DefaultFormat()
	f.HeaderSize = 4
	f.TerminatorSize = 0
	f.MaxKeyLength = 3
	f.Newline = "\r\n"
	data := app("HEAD", label(0, "abc"), label(0, "abcd"))
	out, warn := convert(t, Decoder{Format: f}, data)
	if !errors.Is(warn, ErrUnreasonableLength) {
		t.Errorf("expected unreasonable length, got %v", warn)
	}
	if !strings.HasPrefix(out, "abc\r\n\"\"\r\nEND\r\n\r\n// ERROR: ") {
		t.Errorf("unexpected output %q", out)
	}

	f.TextMarker = f.LabelMarker
	if _, err := NewReader(data, f); err == nil {
		t.Error("expected invalid format error")
	}
}

func TestDump(t *testing.T) {
	data := app(header, label(3, "NAME"), text("Hi"), label(4, "EMPTY"), "??")
	var buf bytes.Buffer
	warn, err := Decoder{}.Dump(&buf, bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(warn, ErrDesync) {
		t.Errorf("expected desync warning, got %v", warn)
	}
	out := buf.String()
	for _, s := range []string{
		"Header: (len:24)",
		"#0: {",
		"LabelID: 3",
		`Key: (len:4) "NAME"`,
		`Value: (len:2) "Hi"`,
		"| b7 ff 96 ff |....|",
		"#1: {",
		"Value: <none>",
		"Stopped: record #2: desync",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("dump missing %q:\n%s", s, out)
		}
	}
}

func TestDumpControlText(t *testing.T) {
	data := app(header, label(0, "KEY"), text("a\tb"))
	var buf bytes.Buffer
	if _, err := (Decoder{}).Dump(&buf, bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}
	want := "Value: (len:3)\n\t\t\t| 61 09 62 |a.b|"
	if out := buf.String(); !strings.Contains(out, want) {
		t.Errorf("dump missing %q:\n%s", want, out)
	}
}
