// Package trap is the fatal-trap facility of the runtime core.
//
// A trap means the runtime cannot continue: a corrupted wire format, a
// violated handle contract or untrusted text that failed validation at the
// boundary gate. Raise never returns. Embedders that must keep the process
// alive (a wazero host function, a CLI command, a test) convert the trap
// back into an error with Catch.
package trap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cPlayIt/motoko/errors"
)

// Trap is the panic value carried by Raise.
type Trap struct {
	Err *errors.Error
}

// Error implements the error interface
func (t *Trap) Error() string {
	return "RTS trap: " + t.Err.Error()
}

// Unwrap returns the structured error behind the trap
func (t *Trap) Unwrap() error {
	return t.Err
}

// Raise aborts the current computation with err.
func Raise(err *errors.Error) {
	Logger().Error("rts trap",
		zap.String("phase", string(err.Phase)),
		zap.String("kind", string(err.Kind)),
		zap.Int("offset", err.Offset),
		zap.String("detail", err.Detail),
	)
	panic(&Trap{Err: err})
}

// Raisef is Raise with an invalid-input error built from a format string.
func Raisef(phase errors.Phase, format string, args ...any) {
	Raise(errors.InvalidInput(phase, fmt.Sprintf(format, args...)))
}

// Catch runs fn and returns the trap it raised, if any.
// Panics that are not traps propagate unchanged.
func Catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t, ok := r.(*Trap)
			if !ok {
				panic(r)
			}
			err = t
		}
	}()
	fn()
	return nil
}
