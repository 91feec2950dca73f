// Package host exposes the runtime core to guest WebAssembly modules as a
// wazero host module.
//
// Guests import the functions listed by Exports from the module name
// (motoko_rts by default). Pointers and lengths refer to the calling
// guest's exported memory. A trap raised inside a host function unwinds
// the guest call, and wazero hands it back as the error of that call:
//
//	mod, err := host.New().Instantiate(ctx, rt)
//	...
//	_, err = guest.ExportedFunction("recall_closure").Call(ctx, 99)
//	// errors.As(err, &rtsErr) finds the handle violation
package host
