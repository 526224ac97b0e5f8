package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // structural decoding of class bytes
	PhaseResolve  Phase = "resolve"  // constant pool lookups
	PhaseValidate Phase = "validate" // deferred cross-reference checks
	PhaseHook     Phase = "hook"     // load-hook dispatch
)

// Kind categorizes the error
type Kind string

const (
	KindUnexpectedEOF        Kind = "unexpected_eof"
	KindNotAClassFile        Kind = "not_a_class_file"
	KindInvalidConstantTag   Kind = "invalid_constant_tag"
	KindInvalidPoolIndex     Kind = "invalid_constant_pool_index"
	KindPlaceholderReference Kind = "placeholder_reference"
	KindInvalidModifiedUTF8  Kind = "invalid_modified_utf8"
	KindLengthMismatch       Kind = "attribute_length_mismatch"
	KindNestingTooDeep       Kind = "attribute_nesting_too_deep"
	KindTrailingData         Kind = "trailing_data"
	KindInvalidData          Kind = "invalid_data"
	KindInternal             Kind = "internal"
)

// Error is the structured error type used throughout the toolkit.
// Offset is the absolute byte position in the class file at which the
// condition was detected; it is always meaningful for parse-phase errors.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Attr   string // attribute name, when the error is scoped to one
	Detail string
	Offset int

	// Index context for pool-reference errors.
	Index    int
	PoolSize int

	// Length context for EOF and attribute-length errors.
	Needed    int
	Available int
	Declared  int
	Consumed  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Attr != "" {
		b.WriteString(" in ")
		b.WriteString(strconv.Quote(e.Attr))
	}

	b.WriteString(" at offset ")
	b.WriteString(strconv.Itoa(e.Offset))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// As and Is re-export the standard library helpers so callers need a single
// errors import.
func As(err error, target any) bool { return errors.As(err, target) }

func Is(err, target error) bool { return errors.Is(err, target) }

// IsKind reports whether any error in err's chain is an *Error of the given
// kind, regardless of phase.
func IsKind(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == k {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Convenience constructors for the decoder's error taxonomy

// UnexpectedEOF reports a read past the end of the input buffer.
func UnexpectedEOF(offset, needed, available int) *Error {
	return &Error{
		Phase:     PhaseParse,
		Kind:      KindUnexpectedEOF,
		Offset:    offset,
		Needed:    needed,
		Available: available,
		Detail:    fmt.Sprintf("need %d bytes, %d available", needed, available),
	}
}

// NotAClassFile reports a bad magic number.
func NotAClassFile(magic uint32) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindNotAClassFile,
		Detail: fmt.Sprintf("magic 0x%08X, want 0xCAFEBABE", magic),
	}
}

// InvalidConstantTag reports an unrecognized constant pool tag byte.
func InvalidConstantTag(tag byte, offset int) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidConstantTag,
		Offset: offset,
		Detail: fmt.Sprintf("tag %d", tag),
	}
}

// InvalidPoolIndex reports a constant pool reference outside [1, size).
func InvalidPoolIndex(phase Phase, index, poolSize, offset int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidPoolIndex,
		Offset:   offset,
		Index:    index,
		PoolSize: poolSize,
		Detail:   fmt.Sprintf("index %d out of range (pool size %d)", index, poolSize),
	}
}

// PlaceholderReference reports a reference to the unaddressable slot that
// follows a Long or Double entry.
func PlaceholderReference(index, offset int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindPlaceholderReference,
		Offset: offset,
		Index:  index,
		Detail: fmt.Sprintf("index %d is the second slot of a long or double entry", index),
	}
}

// InvalidModifiedUTF8 reports a malformed modified-UTF-8 byte sequence.
func InvalidModifiedUTF8(index int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindInvalidModifiedUTF8,
		Index:  index,
		Detail: fmt.Sprintf("constant #%d: invalid sequence: %x", index, preview),
	}
}

// LengthMismatch reports an attribute whose decode consumed a different number
// of bytes than its declared attribute_length.
func LengthMismatch(name string, declared, consumed, offset int) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindLengthMismatch,
		Offset:   offset,
		Attr:     name,
		Declared: declared,
		Consumed: consumed,
		Detail:   fmt.Sprintf("declared %d bytes, consumed %d", declared, consumed),
	}
}

// NestingTooDeep reports an attribute list nested past the configured cap.
func NestingTooDeep(depth, max, offset int) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindNestingTooDeep,
		Offset: offset,
		Detail: fmt.Sprintf("attribute nesting depth %d exceeds limit %d", depth, max),
	}
}

// TrailingData reports bytes left over after a structurally complete parse.
func TrailingData(offset, remaining int) *Error {
	return &Error{
		Phase:     PhaseParse,
		Kind:      KindTrailingData,
		Offset:    offset,
		Available: remaining,
		Detail:    fmt.Sprintf("%d trailing bytes", remaining),
	}
}

// InvalidData reports malformed content inside an otherwise well-framed
// structure, such as a bad stack map frame type or element value tag.
func InvalidData(attr, detail string, offset int) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Offset: offset,
		Attr:   attr,
		Detail: detail,
	}
}

// Internal reports a defect in the decoder itself, as opposed to malformed
// input. Callers should treat it as a bug, not a recoverable input condition.
func Internal(detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInternal,
		Detail: detail,
	}
}

// Hook wraps an error surfaced while dispatching a load-hook event.
func Hook(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseHook,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
