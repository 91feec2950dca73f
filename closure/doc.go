// Package closure provides the closure table: stable integer handles for
// closures handed to a host that cannot hold native references.
//
// # Handle Table
//
// A Table maps handles to values:
//
//	table := closure.New[any]()
//
//	// Store a closure, get a handle for the host
//	h := table.Remember(fn)
//
//	// The host calls back with the handle; the slot is freed
//	fn = table.Recall(h)
//
// A handle is valid from Remember until its matching Recall. Recalling a
// handle that is out of range or already recalled is a protocol violation
// and raises a trap.
//
// # Growth
//
// The table starts with DefaultCapacity slots and doubles when every slot
// is occupied. Freed slots are reused before the table grows, so
// alternating Remember/Recall keeps the table at a fixed size. Capacity
// never shrinks and handles are never renumbered.
//
// # Process-wide table
//
// The runtime owns one table for its whole life. Default returns it, and
// the package-level Remember, Recall and Count operate on it.
//
// # Concurrency
//
// Tables are not safe for concurrent use. Every operation runs to
// completion without suspending, so nested use from a recalled closure is
// fine on the owning goroutine.
package closure
