package host

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/cPlayIt/motoko/closure"
	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/internal/wasmgen"
	"github.com/cPlayIt/motoko/leb128"
)

// guestFor builds a guest that re-exports every host function of m, plus
// a round_trip export that recalls what it just remembered.
func guestFor(m *Module, data map[uint32][]byte) []byte {
	b := wasmgen.New(m.Name())
	for _, e := range m.Exports() {
		b.Import(e.Name, e.Params, e.Results)
	}
	remember, _ := b.ImportIndex("remember_closure")
	recall, _ := b.ImportIndex("recall_closure")
	b.AddFunc("round_trip", []api.ValueType{i32}, []api.ValueType{i32},
		wasmgen.Instr(wasmgen.LocalGet(0), wasmgen.Call(remember), wasmgen.Call(recall)))

	for off, bytes := range data {
		b.AddData(off, bytes)
	}
	return b.Build()
}

type fixture struct {
	ctx   context.Context
	host  *Module
	guest api.Module
}

func newFixture(t *testing.T, data map[uint32][]byte, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	m := New(opts...)
	_, err := m.Instantiate(ctx, rt)
	require.NoError(t, err)

	guest, err := rt.InstantiateWithConfig(ctx, guestFor(m, data), wazero.NewModuleConfig().WithName("guest"))
	require.NoError(t, err)

	return &fixture{ctx: ctx, host: m, guest: guest}
}

func (f *fixture) call(name string, args ...uint64) ([]uint64, error) {
	fn := f.guest.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("no export %q", name)
	}
	return fn.Call(f.ctx, args...)
}

func (f *fixture) mustCall(t *testing.T, name string, args ...uint64) []uint64 {
	t.Helper()
	res, err := f.call(name, args...)
	require.NoError(t, err, name)
	return res
}

// callI32 calls name and returns its single i32 result. The upper half of
// the raw result word is not defined for i32 values.
func (f *fixture) callI32(t *testing.T, name string, args ...uint64) uint32 {
	t.Helper()
	res := f.mustCall(t, name, args...)
	require.Len(t, res, 1, name)
	return api.DecodeU32(res[0])
}

func rtsError(t *testing.T, err error) *errors.Error {
	t.Helper()
	require.Error(t, err)
	var rtsErr *errors.Error
	require.True(t, stderrors.As(err, &rtsErr), "not a runtime error: %v", err)
	return rtsErr
}

func TestNew_Defaults(t *testing.T) {
	m := New()
	require.Equal(t, DefaultModuleName, m.Name())
	require.NotNil(t, m.Table())
	require.Equal(t, closure.DefaultCapacity, m.Table().Cap())

	names := make([]string, 0, len(m.Exports()))
	for _, e := range m.Exports() {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{
		"remember_closure", "recall_closure", "closure_count",
		"utf8_valid", "utf8_validate",
		"leb128_encode_u64", "sleb128_encode_i64",
		"leb128_size_u64", "sleb128_size_i64",
		"leb128_decode_u64", "sleb128_decode_i64",
	}, names)
}

func TestNew_Options(t *testing.T) {
	shared := closure.New[uint32]()
	m := New(WithModuleName("rts"), WithTable(shared), WithClosureOptions(closure.WithInitialCapacity(2)))
	require.Equal(t, "rts", m.Name())
	require.Same(t, shared, m.Table())

	m = New(WithClosureOptions(closure.WithInitialCapacity(2)))
	require.Equal(t, 2, m.Table().Cap())
}

func TestClosures(t *testing.T) {
	f := newFixture(t, nil, WithClosureOptions(closure.WithInitialCapacity(2)))

	var handles []uint64
	for i := uint64(0); i < 10; i++ {
		handles = append(handles, uint64(f.callI32(t, "remember_closure", 1000+i)))
	}
	require.Equal(t, uint32(10), f.callI32(t, "closure_count"))
	require.Equal(t, 16, f.host.Table().Cap())

	for i := len(handles) - 1; i >= 0; i-- {
		require.Equal(t, uint32(1000+i), f.callI32(t, "recall_closure", handles[i]))
	}
	require.Equal(t, uint32(0), f.callI32(t, "closure_count"))

	require.Equal(t, uint32(77), f.callI32(t, "round_trip", 77))
	require.Zero(t, f.host.Table().Count())
}

func TestClosures_RecallTraps(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.call("recall_closure", 5)
	rtsErr := rtsError(t, err)
	require.Equal(t, errors.KindHandleViolation, rtsErr.Kind)

	h := uint64(f.callI32(t, "remember_closure", 1))
	f.mustCall(t, "recall_closure", h)
	_, err = f.call("recall_closure", h)
	require.Equal(t, errors.KindHandleViolation, rtsError(t, err).Kind)
}

func TestClosures_SharedTable(t *testing.T) {
	table := closure.New[uint32]()
	f := newFixture(t, nil, WithTable(table))

	h := table.Remember(9)
	require.Equal(t, uint32(1), f.callI32(t, "closure_count"))
	require.Equal(t, uint32(9), f.callI32(t, "recall_closure", uint64(h)))
	require.Zero(t, table.Count())
}

func TestUTF8(t *testing.T) {
	f := newFixture(t, map[uint32][]byte{
		0:  []byte(" \xe2\x96\x88 "),
		32: []byte("ok\xed\xa0\x80"),
	})

	require.Equal(t, uint32(1), f.callI32(t, "utf8_valid", 0, 5))
	require.Equal(t, uint32(0), f.callI32(t, "utf8_valid", 32, 5))
	require.Equal(t, uint32(1), f.callI32(t, "utf8_valid", 32, 2))
	require.Equal(t, uint32(0), f.callI32(t, "utf8_valid", 0, 3), "truncated sequence")
	require.Equal(t, uint32(1), f.callI32(t, "utf8_valid", 0, 0))

	f.mustCall(t, "utf8_validate", 0, 5)

	_, err := f.call("utf8_validate", 32, 5)
	rtsErr := rtsError(t, err)
	require.Equal(t, errors.KindInvalidUTF8, rtsErr.Kind)
	require.Equal(t, 2, rtsErr.Offset)
	require.ErrorContains(t, err, "UTF-8 validation failure")
}

func TestLEB128_Encode(t *testing.T) {
	f := newFixture(t, nil)
	mem := f.guest.Memory()

	for _, v := range []uint64{0, 1, 127, 128, 624485, math.MaxUint64} {
		n := f.callI32(t, "leb128_encode_u64", v, 100)
		want := leb128.EncodeU64(v)
		require.Equal(t, uint32(len(want)), n)
		require.Equal(t, uint32(len(want)), f.callI32(t, "leb128_size_u64", v))

		got, ok := mem.Read(100, n)
		require.True(t, ok)
		require.Equal(t, want, got, "leb128 %d", v)
	}

	for _, v := range []int64{0, -1, 63, 64, -64, -65, -123456, math.MinInt64, math.MaxInt64} {
		n := f.callI32(t, "sleb128_encode_i64", api.EncodeI64(v), 200)
		want := leb128.EncodeS64(v)
		require.Equal(t, uint32(len(want)), n)
		require.Equal(t, uint32(len(want)), f.callI32(t, "sleb128_size_i64", api.EncodeI64(v)))

		got, ok := mem.Read(200, n)
		require.True(t, ok)
		require.Equal(t, want, got, "sleb128 %d", v)
	}
}

func TestLEB128_Decode(t *testing.T) {
	f := newFixture(t, map[uint32][]byte{
		0:  {0xe5, 0x8e, 0x26},
		16: {0xc0, 0xbb, 0x78},
		32: {0x80, 0x80},
	})

	require.Equal(t, uint64(624485), f.mustCall(t, "leb128_decode_u64", 0, 3)[0])
	require.Equal(t, int64(-123456), int64(f.mustCall(t, "sleb128_decode_i64", 16, 3)[0]))

	_, err := f.call("leb128_decode_u64", 32, 2)
	require.Equal(t, errors.KindTruncated, rtsError(t, err).Kind)

	_, err = f.call("sleb128_decode_i64", 0, 2)
	require.Equal(t, errors.KindTruncated, rtsError(t, err).Kind)
}

func TestLEB128_RoundTripThroughMemory(t *testing.T) {
	f := newFixture(t, nil)

	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40), math.MinInt64} {
		n := f.callI32(t, "sleb128_encode_i64", api.EncodeI64(v), 512)
		got := f.mustCall(t, "sleb128_decode_i64", 512, uint64(n))[0]
		require.Equal(t, v, int64(got))
	}
}

func TestMemory_OutOfBounds(t *testing.T) {
	f := newFixture(t, nil)
	end := uint64(wasmgen.PageSize)

	tests := []struct {
		name string
		fn   string
		args []uint64
	}{
		{"validate past end", "utf8_valid", []uint64{end - 2, 4}},
		{"validate huge length", "utf8_validate", []uint64{0, math.MaxUint32}},
		{"encode past end", "leb128_encode_u64", []uint64{math.MaxUint64, end - 3}},
		{"signed encode past end", "sleb128_encode_i64", []uint64{api.EncodeI64(-1), end}},
		{"decode past end", "leb128_decode_u64", []uint64{end, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.call(tt.fn, tt.args...)
			rtsErr := rtsError(t, err)
			require.Equal(t, errors.KindOutOfBounds, rtsErr.Kind)
			require.Equal(t, errors.PhaseHost, rtsErr.Phase)
		})
	}
}

func TestInstantiate_CustomName(t *testing.T) {
	f := newFixture(t, nil, WithModuleName("rts_v2"))
	h := f.callI32(t, "remember_closure", 3)
	require.Equal(t, uint32(3), f.callI32(t, "recall_closure", uint64(h)))
}

func TestMemory_GuestWithoutMemory(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	m := New()
	_, err := m.Instantiate(ctx, rt)
	require.NoError(t, err)

	b := wasmgen.New(m.Name())
	b.Import("utf8_valid", []api.ValueType{i32, i32}, []api.ValueType{i32})
	b.Import("closure_count", nil, []api.ValueType{i32})
	b.OmitMemory()
	guest, err := rt.Instantiate(ctx, b.Build())
	require.NoError(t, err)

	res, err := guest.ExportedFunction("closure_count").Call(ctx)
	require.NoError(t, err, "functions that never touch memory still work")
	require.Equal(t, uint32(0), api.DecodeU32(res[0]))

	_, err = guest.ExportedFunction("utf8_valid").Call(ctx, 0, 0)
	rtsErr := rtsError(t, err)
	require.Equal(t, errors.KindInvalidInput, rtsErr.Kind)
	require.ErrorContains(t, err, "exports no memory")
}

func TestMemory_OutOfBoundsOffset(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.call("leb128_decode_u64", wasmgen.PageSize-1, 4)
	rtsErr := rtsError(t, err)
	require.Equal(t, wasmgen.PageSize-1, rtsErr.Offset)
	require.ErrorContains(t, err, "access of 4 bytes at 65535 exceeds 65536")
}
