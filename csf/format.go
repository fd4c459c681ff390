// Package csf implements a decoder for CSF-style binary string tables, which
// converts them into the line-oriented STR text format.
//
// The binary layout is a fixed header followed by a sequence of records. Each
// record starts with a label marker, and may be followed by a value block
// introduced by a text marker. Keys are stored in a single-byte code page;
// values are stored as UTF-16LE with every byte inverted.
//
// The easiest way to convert a file is through the Convert function, which
// uses DefaultFormat. A Decoder may be configured with a different Format to
// handle variations of the layout.
package csf

import (
	"errors"

	"golang.org/x/text/encoding/charmap"
)

// Format describes the constants of a particular variation of the binary
// layout. A Format is a plain value, and is never modified by the decoder.
type Format struct {
	// LabelMarker begins each record.
	LabelMarker [4]byte
	// TextMarker begins the optional value block of a record.
	TextMarker [4]byte

	// HeaderSize is the number of header bytes preceding the terminator.
	HeaderSize int
	// TerminatorSize is the number of bytes following the header.
	TerminatorSize int

	// MaxKeyLength is the largest accepted key length, in bytes.
	MaxKeyLength uint32
	// MaxValueUnits is the largest accepted value length, in UTF-16 code
	// units.
	MaxValueUnits uint32

	// KeyCharmap decodes key bytes.
	KeyCharmap *charmap.Charmap
	// OutputCharmap encodes the produced STR text.
	OutputCharmap *charmap.Charmap

	// Newline terminates each line of STR output.
	Newline string
}

// DefaultFormat returns the Format of the files produced by the game.
func DefaultFormat() Format {
	return Format{
		LabelMarker:    [4]byte{0x20, 0x4C, 0x42, 0x4C}, // " LBL"
		TextMarker:     [4]byte{0x20, 0x52, 0x54, 0x53}, // " RTS"
		HeaderSize:     24,
		TerminatorSize: 1,
		MaxKeyLength:   1_000_000,
		MaxValueUnits:  5_000_000,
		KeyCharmap:     charmap.Windows1252,
		OutputCharmap:  charmap.Windows1252,
		Newline:        "\n",
	}
}

// prologueSize returns the number of bytes consumed by the header.
func (f Format) prologueSize() int {
	return f.HeaderSize + f.TerminatorSize
}

// Validate returns an error if the Format cannot be used to decode.
func (f Format) Validate() error {
	switch {
	case f.LabelMarker == f.TextMarker:
		return errors.New("label and text markers must differ")
	case f.LabelMarker == [4]byte{}:
		return errors.New("label marker is empty")
	case f.HeaderSize < 0 || f.TerminatorSize < 0:
		return errors.New("negative header size")
	case f.MaxKeyLength == 0:
		return errors.New("maximum key length must be positive")
	case f.KeyCharmap == nil:
		return errors.New("missing key encoding")
	case f.OutputCharmap == nil:
		return errors.New("missing output encoding")
	case f.Newline != "\n" && f.Newline != "\r\n":
		return errors.New("newline must be LF or CRLF")
	}
	return nil
}
