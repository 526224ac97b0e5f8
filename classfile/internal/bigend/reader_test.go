package bigend

import (
	"bytes"
	"testing"

	"github.com/probeum/classkit/errors"
)

func TestReaderSequence(t *testing.T) {
	data := []byte{
		0xCA, 0xFE, 0xBA, 0xBE,
		0x00, 0x34,
		0x01,
		0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0,
		'a', 'b', 'c',
	}
	r := NewReader(data)

	if v, err := r.ReadU32(); err != nil || v != 0xCAFEBABE {
		t.Fatalf("ReadU32 = %#x, %v", v, err)
	}
	if v, err := r.ReadU16(); err != nil || v != 0x0034 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
	if v, err := r.ReadU8(); err != nil || v != 0x01 {
		t.Fatalf("ReadU8 = %#x, %v", v, err)
	}
	if v, err := r.ReadU64(); err != nil || v != 0x123456789ABCDEF0 {
		t.Fatalf("ReadU64 = %#x, %v", v, err)
	}
	if b, err := r.ReadBytes(3); err != nil || !bytes.Equal(b, []byte("abc")) {
		t.Fatalf("ReadBytes = %q, %v", b, err)
	}

	if r.Position() != len(data) || r.Remaining() != 0 {
		t.Errorf("position %d remaining %d after full read", r.Position(), r.Remaining())
	}
}

func TestReaderEOF(t *testing.T) {
	reads := []struct {
		name string
		have int
		read func(r *Reader) error
	}{
		{"u8", 0, func(r *Reader) error { _, err := r.ReadU8(); return err }},
		{"u16", 1, func(r *Reader) error { _, err := r.ReadU16(); return err }},
		{"u32", 3, func(r *Reader) error { _, err := r.ReadU32(); return err }},
		{"u64", 7, func(r *Reader) error { _, err := r.ReadU64(); return err }},
		{"bytes", 2, func(r *Reader) error { _, err := r.ReadBytes(3); return err }},
		{"skip", 1, func(r *Reader) error { return r.Skip(4) }},
	}
	for _, tt := range reads {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(make([]byte, tt.have))
			err := tt.read(r)
			if !errors.IsKind(err, errors.KindUnexpectedEOF) {
				t.Fatalf("got %v, want unexpected_eof", err)
			}
			if r.Position() != 0 {
				t.Errorf("failed read advanced position to %d", r.Position())
			}
		})
	}
}

func TestReaderEOFDetail(t *testing.T) {
	r := NewReader([]byte{0x00})
	_, err := r.ReadU32()

	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error type %T", err)
	}
	if e.Needed != 4 || e.Available != 1 || e.Offset != 0 {
		t.Errorf("needed %d available %d offset %d", e.Needed, e.Available, e.Offset)
	}
}

func TestReaderOffsetBase(t *testing.T) {
	r := NewReaderAt([]byte{1, 2, 3, 4}, 100)
	if r.Offset() != 100 {
		t.Fatalf("initial offset %d", r.Offset())
	}
	if err := r.Skip(3); err != nil {
		t.Fatal(err)
	}
	if r.Offset() != 103 || r.Position() != 3 {
		t.Errorf("offset %d position %d after skip", r.Offset(), r.Position())
	}

	_, err := r.ReadU16()
	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error type %T", err)
	}
	if e.Offset != 103 {
		t.Errorf("EOF offset %d, want absolute 103", e.Offset)
	}
}

func TestReadBytesIsViewWithCappedCapacity(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	r := NewReader(data)
	b, err := r.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if &b[0] != &data[0] {
		t.Error("ReadBytes copied instead of aliasing")
	}
	if cap(b) != 2 {
		t.Errorf("cap %d, want 2: appends must not clobber later input", cap(b))
	}
}
