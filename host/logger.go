package host

import (
	"go.uber.org/zap"

	"github.com/cPlayIt/motoko/internal/logging"
)

var holder logging.Holder

// Logger returns the host package's logger. It logs nothing until
// SetLogger is called.
func Logger() *zap.Logger {
	return holder.Get()
}

// SetLogger configures the host package's logger.
// Call it before any host module is instantiated.
func SetLogger(l *zap.Logger) {
	holder.Set(l)
}
