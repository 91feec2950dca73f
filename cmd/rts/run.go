package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
)

type runOptions struct {
	funcName string
	args     []string
	list     bool
	dump     bool
	wasi     bool
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <guest.wasm>",
		Short: "Instantiate a guest module against the host module and call an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			return a.run(cmd.Context(), cmd.OutOrStdout(), data, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.funcName, "func", "f", "", "Export to call")
	cmd.Flags().StringSliceVarP(&opts.args, "arg", "a", nil, "Integer argument (repeatable)")
	cmd.Flags().BoolVar(&opts.list, "list", false, "List exported functions and exit")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Print the closure table after the call")
	cmd.Flags().BoolVar(&opts.wasi, "wasi", false, "Also provide wasi_snapshot_preview1")
	return cmd
}

func (a *app) run(ctx context.Context, out io.Writer, wasm []byte, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	if opts.wasi {
		wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	}

	hm := a.hostModule()
	if _, err := hm.Instantiate(ctx, rt); err != nil {
		return fmt.Errorf("instantiate host module: %w", err)
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	funcs := compiled.ExportedFunctions()
	if opts.list {
		names := make([]string, 0, len(funcs))
		for name := range funcs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s\n", formatSignature(name, funcs[name]))
		}
		return nil
	}

	if opts.funcName == "" {
		return fmt.Errorf("no function given; use --func or --list")
	}
	def, ok := funcs[opts.funcName]
	if !ok {
		return fmt.Errorf("guest exports no function %q", opts.funcName)
	}

	params, err := parseArgs(opts.args, def.ParamTypes())
	if err != nil {
		return err
	}

	guest, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("guest"))
	if err != nil {
		return fmt.Errorf("instantiate guest: %w", err)
	}

	a.logger.Debug("calling guest export",
		zap.String("func", opts.funcName),
		zap.Uint64s("args", params),
	)
	results, err := guest.ExportedFunction(opts.funcName).Call(ctx, params...)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.funcName, err)
	}

	for i, r := range results {
		fmt.Fprintln(out, formatValue(r, def.ResultTypes()[i]))
	}
	if opts.dump {
		return hm.Table().Dump(out)
	}
	return nil
}

func parseArgs(args []string, types []api.ValueType) ([]uint64, error) {
	if len(args) != len(types) {
		return nil, fmt.Errorf("want %d arguments, got %d", len(types), len(args))
	}

	params := make([]uint64, len(args))
	for i, arg := range args {
		bits := 64
		if types[i] == api.ValueTypeI32 {
			bits = 32
		}
		if v, err := strconv.ParseInt(arg, 0, bits); err == nil {
			params[i] = uint64(v)
			if bits == 32 {
				params[i] = api.EncodeI32(int32(v))
			}
			continue
		}
		v, err := strconv.ParseUint(arg, 0, bits)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a %s", i, arg, api.ValueTypeName(types[i]))
		}
		params[i] = v
	}
	return params, nil
}

func formatValue(v uint64, t api.ValueType) string {
	switch t {
	case api.ValueTypeI32:
		return fmt.Sprintf("%d (i32 0x%08x)", int32(v), uint32(v))
	case api.ValueTypeI64:
		return fmt.Sprintf("%d (i64 0x%016x)", int64(v), v)
	default:
		return fmt.Sprintf("0x%x (%s)", v, api.ValueTypeName(t))
	}
}

func formatSignature(name string, def api.FunctionDefinition) string {
	typeNames := func(types []api.ValueType) string {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = api.ValueTypeName(t)
		}
		return strings.Join(names, ", ")
	}

	s := name + "(" + typeNames(def.ParamTypes()) + ")"
	if len(def.ResultTypes()) > 0 {
		s += " -> " + typeNames(def.ResultTypes())
	}
	return s
}
