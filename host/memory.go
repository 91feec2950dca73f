package host

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/trap"
)

// guestMemory is the calling guest's memory. Every access outside it traps.
type guestMemory struct {
	mem api.Memory
}

func memoryOf(mod api.Module) guestMemory {
	mem := mod.Memory()
	if mem == nil {
		trap.Raisef(errors.PhaseHost, "guest module %s exports no memory", mod.Name())
	}
	return guestMemory{mem: mem}
}

// view returns the live region [ptr, ptr+n). Writes through it land in guest
// memory.
func (g guestMemory) view(ptr, n uint32) []byte {
	b, ok := g.mem.Read(ptr, n)
	if !ok {
		trap.Raise(errors.OutOfBounds(errors.PhaseHost, int(ptr), int(n), int(g.mem.Size())))
	}
	return b
}
