package wasmgen

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func instantiateHost(t *testing.T, ctx context.Context, rt wazero.Runtime) {
	t.Helper()
	_, err := rt.NewHostModuleBuilder("host").
		NewFunctionBuilder().
		WithFunc(func(a, b uint32) uint32 { return a + b }).
		Export("add").
		NewFunctionBuilder().
		WithFunc(func(v uint64) uint64 { return v * 2 }).
		Export("double").
		Instantiate(ctx)
	require.NoError(t, err)
}

func TestBuild_Header(t *testing.T) {
	wasm := New("host").Build()
	if !bytes.HasPrefix(wasm, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}) {
		t.Fatalf("missing wasm header: % x", wasm[:8])
	}
}

func TestBuild_CompilesEmpty(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, New("host").Build())
	require.NoError(t, err)
	require.NotNil(t, mod.Memory())
	require.Equal(t, uint32(PageSize), mod.Memory().Size())
}

func TestBuild_Trampolines(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)
	instantiateHost(t, ctx, rt)

	b := New("host")
	b.Import("add", []api.ValueType{i32, i32}, []api.ValueType{i32})
	b.Import("double", []api.ValueType{i64}, []api.ValueType{i64})

	mod, err := rt.Instantiate(ctx, b.Build())
	require.NoError(t, err)

	res, err := mod.ExportedFunction("add").Call(ctx, 40, 2)
	require.NoError(t, err)
	require.Equal(t, uint32(42), api.DecodeU32(res[0]))

	res, err = mod.ExportedFunction("double").Call(ctx, 1<<40)
	require.NoError(t, err)
	require.Equal(t, uint64(1<<41), res[0])
}

func TestBuild_AddFunc(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)
	instantiateHost(t, ctx, rt)

	b := New("host")
	add := b.Import("add", []api.ValueType{i32, i32}, []api.ValueType{i32})
	b.AddFunc("add_300", []api.ValueType{i32}, []api.ValueType{i32},
		Instr(LocalGet(0), I32Const(300), Call(add)))
	b.AddFunc("minus_one", nil, []api.ValueType{i64}, I64Const(-1))
	b.AddFunc("noop", nil, nil, Instr(I32Const(7), Drop()))

	mod, err := rt.Instantiate(ctx, b.Build())
	require.NoError(t, err)

	res, err := mod.ExportedFunction("add_300").Call(ctx, 12)
	require.NoError(t, err)
	require.Equal(t, uint32(312), api.DecodeU32(res[0]))

	res, err = mod.ExportedFunction("minus_one").Call(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(-1), int64(res[0]))

	_, err = mod.ExportedFunction("noop").Call(ctx)
	require.NoError(t, err)
}

func TestBuild_Data(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	b := New("host")
	b.SetMemoryPages(2)
	b.AddData(16, []byte("hello"))
	b.AddData(PageSize+1, []byte{0xff})

	mod, err := rt.Instantiate(ctx, b.Build())
	require.NoError(t, err)
	require.Equal(t, uint32(2*PageSize), mod.Memory().Size())

	got, ok := mod.Memory().Read(16, 5)
	require.True(t, ok)
	require.Equal(t, "hello", string(got))

	v, ok := mod.Memory().ReadByte(PageSize + 1)
	require.True(t, ok)
	require.Equal(t, byte(0xff), v)
}

func TestImportIndex(t *testing.T) {
	b := New("host")
	b.Import("a", nil, nil)
	b.Import("b", nil, nil)

	idx, ok := b.ImportIndex("b")
	require.True(t, ok)
	require.Equal(t, uint32(1), idx)

	_, ok = b.ImportIndex("c")
	require.False(t, ok)
}

func TestBuild_OmitMemory(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)
	instantiateHost(t, ctx, rt)

	b := New("host")
	b.Import("add", []api.ValueType{i32, i32}, []api.ValueType{i32})
	b.OmitMemory()
	b.AddData(0, []byte("dropped"))

	mod, err := rt.Instantiate(ctx, b.Build())
	require.NoError(t, err)
	require.Nil(t, mod.Memory())
	require.NotNil(t, mod.ExportedFunction("add"))
}
