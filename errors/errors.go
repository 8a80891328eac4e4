package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the fault occurred
type Phase string

const (
	PhaseDecode  Phase = "decode"  // host to plugin
	PhaseEncode  Phase = "encode"  // plugin to host
	PhasePack    Phase = "pack"    // collection construction
	PhaseRelease Phase = "release" // deallocation
	PhaseAlloc   Phase = "alloc"   // heap management
	PhaseHost    Phase = "host"    // host module registration
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the fault
type Kind string

const (
	KindInvalidUTF16   Kind = "invalid_utf16"
	KindInvalidUTF8    Kind = "invalid_utf8"
	KindInteriorNUL    Kind = "interior_nul"
	KindNegativeLength Kind = "negative_length"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindAllocation     Kind = "allocation"
	KindOverflow       Kind = "overflow"
	KindNilPointer     Kind = "nil_pointer"
	KindInvalidInput   Kind = "invalid_input"
	KindRegistration   Kind = "registration"
)

// Error is the structured fault type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

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

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Fatal aborts the current boundary call with err.
// The entry points do not recover; the fault reaches the host as a crash.
func Fatal(err *Error) {
	panic(err)
}

// Convenience constructors for common fault patterns

// InvalidUTF16 creates an invalid UTF-16 error for an unpaired surrogate
func InvalidUTF16(phase Phase, path []string, unit uint16, index int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF16,
		Path:   path,
		Detail: fmt.Sprintf("unpaired surrogate 0x%04x at code unit %d", unit, index),
		Value:  unit,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InteriorNUL creates an error for a string that cannot be NUL-terminated
func InteriorNUL(phase Phase, path []string, index int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInteriorNUL,
		Path:   path,
		Detail: fmt.Sprintf("nul byte found at position %d", index),
		Value:  index,
	}
}

// NegativeLength creates an error for a negative host string length
func NegativeLength(phase Phase, path []string, length int32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNegativeLength,
		Path:   path,
		Detail: fmt.Sprintf("length %d is negative", length),
		Value:  length,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds creates an out of bounds memory access error
func OutOfBounds(phase Phase, path []string, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("access at offset %d length %d out of bounds", offset, length),
		Value:  offset,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
