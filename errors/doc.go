// Package errors provides the structured fault type used across the
// boundary.
//
// Faults are categorized by Phase (where the fault occurred) and Kind (what
// went wrong). The Error type carries the field path, a detail message and
// an optional cause.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidUTF16).
//		Path("search_result", "title").
//		Detail("unpaired surrogate 0x%04x at unit %d", unit, i).
//		Build()
//
// Entry points never return these as values. Fatal hands them to panic so
// that a malformed host string or an exhausted heap terminates the call:
//
//	errors.Fatal(errors.AllocationFailed(errors.PhaseEncode, size, 1))
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
