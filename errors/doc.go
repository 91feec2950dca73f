// Package errors provides the structured error type shared by the runtime core.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries an optional byte offset, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTruncated).
//		Offset(12).
//		Detail("buffer exhausted after %d bytes", 12).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.HandleViolation(handle, "slot is free")
//	err := errors.InvalidUTF8(PhaseValidate, data, cursor)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
