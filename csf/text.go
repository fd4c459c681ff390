package csf

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// InvertBytes returns a copy of b with each byte replaced by 0xFF minus the
// byte. The transform is its own inverse.
func InvertBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = 0xFF - c
	}
	return out
}

// DecodeUTF16LE returns the little-endian UTF-16 code units of b. A trailing
// odd byte is ignored. Code units are returned as-is, including unpaired
// surrogates.
func DecodeUTF16LE(b []byte) []uint16 {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return units
}

// DecodeKey decodes b with the single-byte code page cm, returning UTF-16 code
// units suitable for Sanitize. Bytes the code page leaves undefined decode to
// the code point of the same value, which for 0x80-0x9F is a C1 control.
func DecodeKey(b []byte, cm *charmap.Charmap) []uint16 {
	runes := make([]rune, len(b))
	for i, c := range b {
		r := cm.DecodeByte(c)
		if r == utf8.RuneError {
			if e, ok := cm.EncodeRune(r); !ok || e != c {
				r = rune(c)
			}
		}
		runes[i] = r
	}
	return utf16.Encode(runes)
}

const (
	surrHigh = 0xD800 // first high surrogate
	surrLow  = 0xDC00 // first low surrogate
	surrEnd  = 0xE000 // past the last low surrogate
)

func isHighSurrogate(u uint16) bool { return surrHigh <= u && u < surrLow }
func isLowSurrogate(u uint16) bool  { return surrLow <= u && u < surrEnd }

// Sanitize converts UTF-16 code units to a string, dropping code points that
// cause trouble in the output:
//
//   - the noncharacters U+FFFE and U+FFFF,
//   - characters in the Unicode Format (Cf) category,
//   - surrogates that are not part of a well-formed pair,
//   - control characters other than CR, LF, and TAB.
//
// The noncharacters are removed before anything else, so a surrogate pair
// separated only by them is joined.
func Sanitize(units []uint16) string {
	filtered := make([]uint16, 0, len(units))
	for _, u := range units {
		if u == 0xFFFE || u == 0xFFFF {
			continue
		}
		filtered = append(filtered, u)
	}

	var s strings.Builder
	s.Grow(len(filtered))
	for i := 0; i < len(filtered); i++ {
		u := filtered[i]
		r := rune(u)
		switch {
		case isHighSurrogate(u):
			if i+1 >= len(filtered) || !isLowSurrogate(filtered[i+1]) {
				continue
			}
			r = utf16.DecodeRune(r, rune(filtered[i+1]))
			i++
		case isLowSurrogate(u):
			continue
		}
		if unicode.Is(unicode.Cf, r) {
			continue
		}
		if unicode.IsControl(r) && r != '\r' && r != '\n' && r != '\t' {
			continue
		}
		s.WriteRune(r)
	}
	return s.String()
}
