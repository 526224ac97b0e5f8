// Package bigend implements a bounds-checked big-endian cursor over an
// immutable byte slice. It is the single choke point for all raw buffer
// access in the class file decoder: no other package indexes input bytes
// directly, so no read can ever go out of bounds or panic.
package bigend

import (
	"encoding/binary"

	"github.com/probeum/classkit/errors"
)

// Reader tracks a monotonically increasing read position over a byte slice.
// The base offset lets a sub-reader scoped to an attribute body report
// absolute positions in the enclosing class file.
type Reader struct {
	data []byte
	pos  int
	base int
}

// NewReader creates a Reader over data with base offset zero.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewReaderAt creates a Reader over data whose first byte sits at the given
// absolute offset in the original input.
func NewReaderAt(data []byte, base int) *Reader {
	return &Reader{data: data, base: base}
}

// Position returns the number of bytes consumed from this reader.
func (r *Reader) Position() int {
	return r.pos
}

// Offset returns the absolute byte offset of the next read.
func (r *Reader) Offset() int {
	return r.base + r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Len returns the total length of the underlying slice.
func (r *Reader) Len() int {
	return len(r.data)
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return errors.UnexpectedEOF(r.Offset(), n, r.Remaining())
	}
	return nil
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU16 reads a big-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a big-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadU64 reads a big-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadBytes returns a view of the next n bytes without copying. The view
// aliases the input buffer, which must stay unmodified for the lifetime of
// the decoded tree. It fails before consuming anything if fewer than n bytes
// remain.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances past n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}
