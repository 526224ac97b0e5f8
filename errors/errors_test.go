package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "eof error",
			err:      UnexpectedEOF(42, 4, 1),
			contains: []string{"[parse]", "unexpected_eof", "offset 42", "need 4 bytes", "1 available"},
		},
		{
			name:     "pool index error",
			err:      InvalidPoolIndex(PhaseResolve, 17, 12, 100),
			contains: []string{"[resolve]", "invalid_constant_pool_index", "index 17", "pool size 12"},
		},
		{
			name:     "length mismatch names attribute",
			err:      LengthMismatch("Code", 31, 29, 200),
			contains: []string{"attribute_length_mismatch", `"Code"`, "declared 31", "consumed 29"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseHook,
				Kind:   KindInvalidData,
				Detail: "dispatch failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[hook]", "invalid_data", "dispatch failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Hook("parse class", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause through Unwrap")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := UnexpectedEOF(10, 2, 0)

	if !errors.Is(err, &Error{Phase: PhaseParse, Kind: KindUnexpectedEOF}) {
		t.Error("expected match on same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseParse, Kind: KindTrailingData}) {
		t.Error("unexpected match on different kind")
	}
	if errors.Is(err, &Error{Phase: PhaseResolve, Kind: KindUnexpectedEOF}) {
		t.Error("unexpected match on different phase")
	}
}

func TestError_As(t *testing.T) {
	var wrapped error = Hook("dispatch", LengthMismatch("Record", 8, 6, 77))

	var e *Error
	if !errors.As(wrapped, &e) {
		t.Fatal("errors.As failed")
	}
	if e.Phase != PhaseHook {
		t.Errorf("outermost phase = %q, want hook", e.Phase)
	}

	var inner *Error
	if !errors.As(errors.Unwrap(wrapped), &inner) {
		t.Fatal("errors.As on cause failed")
	}
	if inner.Kind != KindLengthMismatch || inner.Declared != 8 || inner.Consumed != 6 {
		t.Errorf("cause context lost: %+v", inner)
	}
}

func TestInvalidModifiedUTF8_PreviewTruncated(t *testing.T) {
	data := make([]byte, 100)
	err := InvalidModifiedUTF8(3, data)
	if len(err.Detail) > 120 {
		t.Errorf("detail not truncated: %d chars", len(err.Detail))
	}
}
