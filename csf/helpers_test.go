package csf

import (
	"encoding/binary"
	"unicode/utf16"
)

// app concatenates strings, byte slices, and single bytes.
func app(bs ...interface{}) []byte {
	var s []byte
	for _, b := range bs {
		switch b := b.(type) {
		case string:
			s = append(s, b...)
		case []byte:
			s = append(s, b...)
		case byte:
			s = append(s, b)
		case int:
			s = append(s, byte(b))
		}
	}
	return s
}

func le32(n uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	return b[:]
}

// header is a zeroed header and terminator.
var header = make([]byte, 25)

// label encodes the label block of a record.
func label(id uint32, key string) []byte {
	return app(" LBL", le32(id), le32(uint32(len(key))), key)
}

// textUnits encodes a value block holding the given code units.
func textUnits(units []uint16) []byte {
	b := app(" RTS", le32(uint32(len(units))))
	for _, u := range units {
		b = append(b, 0xFF-byte(u), 0xFF-byte(u>>8))
	}
	return b
}

// text encodes a value block holding s.
func text(s string) []byte {
	return textUnits(utf16.Encode([]rune(s)))
}
