package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/cPlayIt/motoko/closure"
	"github.com/cPlayIt/motoko/leb128"
	"github.com/cPlayIt/motoko/utf8valid"
)

// DefaultModuleName is the import module name used unless WithModuleName
// overrides it.
const DefaultModuleName = "motoko_rts"

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

// Export describes one host function as a guest imports it.
type Export struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
	fn      api.GoModuleFunc
}

// Module binds the runtime core to one closure table.
type Module struct {
	table   *closure.Table[uint32]
	name    string
	exports []Export
}

// New creates a host module. It is not registered with any runtime until
// Instantiate is called.
func New(opts ...Option) *Module {
	o := options{moduleName: DefaultModuleName}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Module{
		name:  o.moduleName,
		table: o.table,
	}
	if m.table == nil {
		m.table = closure.New[uint32](o.closureOpts...)
	}
	m.exports = m.buildExports()
	return m
}

// Name returns the import module name.
func (m *Module) Name() string {
	return m.name
}

// Table returns the closure table behind remember_closure and
// recall_closure.
func (m *Module) Table() *closure.Table[uint32] {
	return m.table
}

// Exports lists the host functions in registration order.
func (m *Module) Exports() []Export {
	out := make([]Export, len(m.exports))
	copy(out, m.exports)
	return out
}

// Instantiate registers the module with rt.
func (m *Module) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(m.name)
	for _, e := range m.exports {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(e.fn, e.Params, e.Results).
			WithName(e.Name).
			Export(e.Name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	Logger().Debug("host module instantiated",
		zap.String("module", m.name),
		zap.Int("exports", len(m.exports)),
	)
	return mod, nil
}

func (m *Module) buildExports() []Export {
	return []Export{
		{Name: "remember_closure", Params: []api.ValueType{i32}, Results: []api.ValueType{i32}, fn: m.rememberClosure},
		{Name: "recall_closure", Params: []api.ValueType{i32}, Results: []api.ValueType{i32}, fn: m.recallClosure},
		{Name: "closure_count", Results: []api.ValueType{i32}, fn: m.closureCount},
		{Name: "utf8_valid", Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i32}, fn: utf8Valid},
		{Name: "utf8_validate", Params: []api.ValueType{i32, i32}, fn: utf8Validate},
		{Name: "leb128_encode_u64", Params: []api.ValueType{i64, i32}, Results: []api.ValueType{i32}, fn: leb128EncodeU64},
		{Name: "sleb128_encode_i64", Params: []api.ValueType{i64, i32}, Results: []api.ValueType{i32}, fn: sleb128EncodeI64},
		{Name: "leb128_size_u64", Params: []api.ValueType{i64}, Results: []api.ValueType{i32}, fn: leb128SizeU64},
		{Name: "sleb128_size_i64", Params: []api.ValueType{i64}, Results: []api.ValueType{i32}, fn: sleb128SizeI64},
		{Name: "leb128_decode_u64", Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i64}, fn: leb128DecodeU64},
		{Name: "sleb128_decode_i64", Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i64}, fn: sleb128DecodeI64},
	}
}

func (m *Module) rememberClosure(_ context.Context, _ api.Module, stack []uint64) {
	h := m.table.Remember(api.DecodeU32(stack[0]))
	stack[0] = api.EncodeU32(uint32(h))
}

func (m *Module) recallClosure(_ context.Context, _ api.Module, stack []uint64) {
	ref := m.table.Recall(closure.Handle(api.DecodeU32(stack[0])))
	stack[0] = api.EncodeU32(ref)
}

func (m *Module) closureCount(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(uint32(m.table.Count()))
}

func utf8Valid(_ context.Context, mod api.Module, stack []uint64) {
	b := memoryOf(mod).view(api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	stack[0] = encodeBool(utf8valid.Valid(b))
}

func utf8Validate(_ context.Context, mod api.Module, stack []uint64) {
	utf8valid.Validate(memoryOf(mod).view(api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
}

func leb128EncodeU64(_ context.Context, mod api.Module, stack []uint64) {
	v := leb128.U64(stack[0])
	n := leb128.SizeUnsigned(v)
	buf := leb128.NewBuf(memoryOf(mod).view(api.DecodeU32(stack[1]), uint32(n)))
	leb128.EncodeUnsigned(buf, v)
	stack[0] = api.EncodeU32(uint32(n))
}

func sleb128EncodeI64(_ context.Context, mod api.Module, stack []uint64) {
	v := leb128.I64(stack[0])
	n := leb128.SizeSigned(v)
	buf := leb128.NewBuf(memoryOf(mod).view(api.DecodeU32(stack[1]), uint32(n)))
	leb128.EncodeSigned(buf, v)
	stack[0] = api.EncodeU32(uint32(n))
}

func leb128SizeU64(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(uint32(leb128.SizeUnsigned(leb128.U64(stack[0]))))
}

func sleb128SizeI64(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(uint32(leb128.SizeSigned(leb128.I64(stack[0]))))
}

func leb128DecodeU64(_ context.Context, mod api.Module, stack []uint64) {
	buf := leb128.NewBuf(memoryOf(mod).view(api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
	stack[0] = uint64(leb128.DecodeUnsigned(buf, leb128.U64Folder{}).(leb128.U64))
}

func sleb128DecodeI64(_ context.Context, mod api.Module, stack []uint64) {
	buf := leb128.NewBuf(memoryOf(mod).view(api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
	stack[0] = api.EncodeI64(int64(leb128.DecodeSigned(buf, leb128.I64Folder{}).(leb128.I64)))
}

func encodeBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
