// Package profile loads csf.Format values from YAML documents, so that
// variations of the binary layout can be described without code changes.
//
// A profile looks like this; every key is optional and falls back to
// csf.DefaultFormat:
//
//	label_marker: " LBL"
//	text_marker: " RTS"
//	header_size: 24
//	terminator_size: 1
//	max_key_length: 1000000
//	max_value_units: 5000000
//	key_encoding: windows-1252
//	output_encoding: windows-1252
//	newline: lf
package profile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/csftools/csfstr/csf"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"
)

// Profile is the YAML representation of a csf.Format. Nil fields are unset.
type Profile struct {
	LabelMarker    *string `yaml:"label_marker"`
	TextMarker     *string `yaml:"text_marker"`
	HeaderSize     *int    `yaml:"header_size"`
	TerminatorSize *int    `yaml:"terminator_size"`
	MaxKeyLength   *uint32 `yaml:"max_key_length"`
	MaxValueUnits  *uint32 `yaml:"max_value_units"`
	KeyEncoding    *string `yaml:"key_encoding"`
	OutputEncoding *string `yaml:"output_encoding"`
	Newline        *string `yaml:"newline"`
}

var charmaps = map[string]*charmap.Charmap{
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"windows-1253": charmap.Windows1253,
	"windows-1254": charmap.Windows1254,
	"windows-1257": charmap.Windows1257,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"iso-8859-15":  charmap.ISO8859_15,
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
}

// Charmap returns the code page with the given name. Names are
// case-insensitive, and "cp1252" is accepted for "windows-1252".
func Charmap(name string) (*charmap.Charmap, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(key, "cp125") {
		key = "windows-" + strings.TrimPrefix(key, "cp")
	}
	if cm, ok := charmaps[key]; ok {
		return cm, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}

func marker(name, s string) (m [4]byte, err error) {
	if len(s) != len(m) {
		return m, fmt.Errorf("%s must be %d bytes, got %d", name, len(m), len(s))
	}
	copy(m[:], s)
	return m, nil
}

// Format applies the set fields of p over csf.DefaultFormat, and validates the
// result.
func (p Profile) Format() (f csf.Format, err error) {
	f = csf.DefaultFormat()
	if p.LabelMarker != nil {
		if f.LabelMarker, err = marker("label_marker", *p.LabelMarker); err != nil {
			return f, err
		}
	}
	if p.TextMarker != nil {
		if f.TextMarker, err = marker("text_marker", *p.TextMarker); err != nil {
			return f, err
		}
	}
	if p.HeaderSize != nil {
		f.HeaderSize = *p.HeaderSize
	}
	if p.TerminatorSize != nil {
		f.TerminatorSize = *p.TerminatorSize
	}
	if p.MaxKeyLength != nil {
		f.MaxKeyLength = *p.MaxKeyLength
	}
	if p.MaxValueUnits != nil {
		f.MaxValueUnits = *p.MaxValueUnits
	}
	if p.KeyEncoding != nil {
		if f.KeyCharmap, err = Charmap(*p.KeyEncoding); err != nil {
			return f, fmt.Errorf("key_encoding: %w", err)
		}
	}
	if p.OutputEncoding != nil {
		if f.OutputCharmap, err = Charmap(*p.OutputEncoding); err != nil {
			return f, fmt.Errorf("output_encoding: %w", err)
		}
	}
	if p.Newline != nil {
		switch strings.ToLower(*p.Newline) {
		case "lf":
			f.Newline = "\n"
		case "crlf":
			f.Newline = "\r\n"
		default:
			return f, fmt.Errorf("newline: expected lf or crlf, got %q", *p.Newline)
		}
	}
	return f, f.Validate()
}

// Load decodes a profile from r and returns the Format it describes.
func Load(r io.Reader) (csf.Format, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return csf.Format{}, fmt.Errorf("decode profile: %w", err)
	}
	f, err := p.Format()
	if err != nil {
		return csf.Format{}, fmt.Errorf("invalid profile: %w", err)
	}
	return f, nil
}

// LoadFile loads a profile from the file at path.
func LoadFile(path string) (csf.Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return csf.Format{}, err
	}
	defer file.Close()
	return Load(file)
}
