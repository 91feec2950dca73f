package closure

import (
	"go.uber.org/zap"

	"github.com/cPlayIt/motoko/internal/logging"
)

var holder logging.Holder

// Logger returns the closure package's logger. It logs nothing until
// SetLogger is called.
func Logger() *zap.Logger {
	return holder.Get()
}

// SetLogger configures the closure package's logger.
// Call it before any table operations.
func SetLogger(l *zap.Logger) {
	holder.Set(l)
}
