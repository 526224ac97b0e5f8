package classfile

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/probeum/classkit/errors"
)

// decodeModifiedUTF8 converts the JVM's modified UTF-8 encoding to a Go
// string. The encoding differs from standard UTF-8 in two ways: U+0000 is
// written as the two-byte form 0xC0 0x80, and supplementary characters are
// written as a surrogate pair of two three-byte sequences. No byte may be
// 0x00 or in 0xF0..0xFF.
//
// Structurally malformed input fails with an invalid_modified_utf8 error.
// An unpaired surrogate is not a structural fault (javac can emit them), so
// it decodes to U+FFFD rather than failing the string.
func decodeModifiedUTF8(index int, raw []byte) (string, error) {
	// Fast path: pure ASCII with no NUL bytes is its own decoding.
	ascii := true
	for _, b := range raw {
		if b == 0 || b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw), nil
	}

	var sb strings.Builder
	sb.Grow(len(raw))

	i := 0
	for i < len(raw) {
		b := raw[i]
		switch {
		case b == 0 || b >= 0xF0:
			return "", errors.InvalidModifiedUTF8(index, raw)

		case b < 0x80:
			sb.WriteByte(b)
			i++

		case b&0xE0 == 0xC0:
			if i+1 >= len(raw) || raw[i+1]&0xC0 != 0x80 {
				return "", errors.InvalidModifiedUTF8(index, raw)
			}
			r := rune(b&0x1F)<<6 | rune(raw[i+1]&0x3F)
			sb.WriteRune(r)
			i += 2

		case b&0xF0 == 0xE0:
			u, ok := threeByteUnit(raw, i)
			if !ok {
				return "", errors.InvalidModifiedUTF8(index, raw)
			}
			i += 3
			if !utf16.IsSurrogate(rune(u)) {
				sb.WriteRune(rune(u))
				break
			}
			// High surrogate: try to pair with the next three-byte unit.
			if u >= 0xD800 && u <= 0xDBFF && i < len(raw) && raw[i]&0xF0 == 0xE0 {
				if lo, ok := threeByteUnit(raw, i); ok && lo >= 0xDC00 && lo <= 0xDFFF {
					sb.WriteRune(utf16.DecodeRune(rune(u), rune(lo)))
					i += 3
					break
				}
			}
			sb.WriteRune(utf8.RuneError)

		default:
			// Continuation byte in lead position.
			return "", errors.InvalidModifiedUTF8(index, raw)
		}
	}

	return sb.String(), nil
}

// threeByteUnit decodes the three-byte sequence starting at i into a UTF-16
// code unit, without interpreting surrogates.
func threeByteUnit(raw []byte, i int) (uint16, bool) {
	if i+2 >= len(raw) || raw[i+1]&0xC0 != 0x80 || raw[i+2]&0xC0 != 0x80 {
		return 0, false
	}
	return uint16(raw[i]&0x0F)<<12 | uint16(raw[i+1]&0x3F)<<6 | uint16(raw[i+2]&0x3F), true
}
