// Package errors provides structured error types for the classkit library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Every error carries the absolute byte offset at which it was
// detected plus enough context (index vs pool size, declared vs consumed
// length) to diagnose a malformed class file without re-parsing it.
//
// Use the convenience constructors for the decoder's taxonomy:
//
//	err := errors.UnexpectedEOF(offset, 4, 1)
//	err := errors.InvalidPoolIndex(errors.PhaseResolve, 17, 12, offset)
//	err := errors.LengthMismatch("Code", 31, 29, offset)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their Phase and Kind agree,
// which is how callers test for a particular failure class:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindUnexpectedEOF}) {
//	    // truncated input
//	}
package errors
