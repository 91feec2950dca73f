package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/api"

	"github.com/cPlayIt/motoko/host"
	"github.com/cPlayIt/motoko/internal/wasmgen"
)

// buildGuest emits a guest that re-exports the host functions of m through
// trampolines, plus round_trip(ref) which remembers and recalls ref in one
// guest call.
func buildGuest(m *host.Module) []byte {
	b := wasmgen.New(m.Name())
	for _, e := range m.Exports() {
		b.Import(e.Name, e.Params, e.Results)
	}

	remember, _ := b.ImportIndex("remember_closure")
	recall, _ := b.ImportIndex("recall_closure")
	b.AddFunc("round_trip",
		[]api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32},
		wasmgen.Instr(wasmgen.LocalGet(0), wasmgen.Call(remember), wasmgen.Call(recall)))
	return b.Build()
}

func newGuestCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Write a guest module that re-exports every host function",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wasm := buildGuest(a.hostModule())
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(wasm)
				return err
			}
			return os.WriteFile(output, wasm, 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "-", "File to write the module to. Defaults to stdout.")
	return cmd
}
