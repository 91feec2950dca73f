package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // value to wire bytes
	PhaseDecode   Phase = "decode"   // wire bytes to value
	PhaseValidate Phase = "validate" // text validation
	PhaseRecall   Phase = "recall"   // closure table lookups
	PhaseHost     Phase = "host"     // guest/host boundary
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated       Kind = "truncated"
	KindHandleViolation Kind = "handle_violation"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindOverflow        Kind = "overflow"
	KindInvalidInput    Kind = "invalid_input"
	KindChecksum        Kind = "checksum"
)

// Error is the structured error type used throughout the runtime core.
// Offset is -1 when the error is not tied to a byte position.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Offset >= 0 {
		b.WriteString(" at byte ")
		b.WriteString(strconv.Itoa(e.Offset))
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
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Offset sets the byte offset the error refers to
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
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

// Convenience constructors for common error patterns

// Truncated creates an error for input that ends before a terminating byte
func Truncated(phase Phase, offset int, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Offset: offset,
		Detail: what + ": buffer exhausted",
	}
}

// HandleViolation creates an error for a recall of a handle that is not live
func HandleViolation(handle uint32, reason string) *Error {
	return &Error{
		Phase:  PhaseRecall,
		Kind:   KindHandleViolation,
		Offset: -1,
		Detail: fmt.Sprintf("handle %d: %s", handle, reason),
		Value:  handle,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error pointing at the first bad byte
func InvalidUTF8(phase Phase, data []byte, cursor int) *Error {
	preview := data[cursor:]
	if len(preview) > 4 {
		preview = preview[:4]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Offset: cursor,
		Detail: fmt.Sprintf("UTF-8 validation failure near %x", preview),
	}
}

// OutOfBounds creates an error for an access of size bytes at offset into a
// region of limit bytes
func OutOfBounds(phase Phase, offset, size, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: offset,
		Detail: fmt.Sprintf("access of %d bytes at %d exceeds %d", size, offset, limit),
		Value:  offset,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Offset: -1,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}
