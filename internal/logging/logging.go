// Package logging holds the package-level zap loggers of the runtime
// packages. Every package starts silent until the CLI installs a logger.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var nop = zap.NewNop()

// Holder is a swappable logger. The zero value logs nothing.
type Holder struct {
	l atomic.Pointer[zap.Logger]
}

// Get returns the installed logger, or a no-op logger.
func (h *Holder) Get() *zap.Logger {
	if l := h.l.Load(); l != nil {
		return l
	}
	return nop
}

// Set installs l. A nil l restores the no-op logger.
func (h *Holder) Set(l *zap.Logger) {
	h.l.Store(l)
}
