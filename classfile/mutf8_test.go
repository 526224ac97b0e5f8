package classfile

import (
	"testing"

	"github.com/probeum/classkit/errors"
)

func TestDecodeModifiedUTF8(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"empty", []byte{}, ""},
		{"ascii", []byte("java/lang/Object"), "java/lang/Object"},
		{"embedded nul", []byte{'a', 0xC0, 0x80, 'b'}, "a\x00b"},
		{"two byte", []byte{0xC3, 0xA9}, "é"},
		{"three byte", []byte{0xE2, 0x82, 0xAC}, "€"},
		{"surrogate pair", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "\U0001F600"},
		{"unpaired high surrogate", []byte{0xED, 0xA0, 0xBD, 'x'}, "�x"},
		{"unpaired low surrogate", []byte{0xED, 0xB8, 0x80}, "�"},
		{"mixed", append([]byte("Caf"), 0xC3, 0xA9), "Café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeModifiedUTF8(1, tt.raw)
			if err != nil {
				t.Fatalf("decodeModifiedUTF8(%x): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("decodeModifiedUTF8(%x) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeModifiedUTF8Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"raw nul byte", []byte{'a', 0x00, 'b'}},
		{"0xF0 lead", []byte{0xF0, 0x9F, 0x98, 0x80}},
		{"0xFF byte", []byte{0xFF}},
		{"bare continuation", []byte{0x80}},
		{"truncated two byte", []byte{0xC3}},
		{"truncated three byte", []byte{0xE2, 0x82}},
		{"bad continuation", []byte{0xC3, 0x41}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeModifiedUTF8(7, tt.raw)
			if err == nil {
				t.Fatalf("decodeModifiedUTF8(%x) succeeded", tt.raw)
			}
			if !errors.IsKind(err, errors.KindInvalidModifiedUTF8) {
				t.Errorf("wrong error kind: %v", err)
			}
		})
	}
}

func TestUtf8DecodedLazily(t *testing.T) {
	// A structurally broken Utf8 entry must not fail the parse; the error
	// surfaces only when the entry is resolved.
	cp := &ConstantPool{entries: []Const{
		nil,
		&ConstUtf8{Raw: []byte{0xFF}},
		&ConstUtf8{Raw: []byte("ok")},
	}}

	if s, err := cp.Utf8(2); err != nil || s != "ok" {
		t.Fatalf("Utf8(2) = %q, %v", s, err)
	}
	if _, err := cp.Utf8(1); !errors.IsKind(err, errors.KindInvalidModifiedUTF8) {
		t.Fatalf("Utf8(1) error = %v, want invalid_modified_utf8", err)
	}
}
