// Package wasmgen builds small guest WebAssembly modules that import the
// runtime host module. They stand in for compiled canisters in tests and
// give the rts command something to run without a toolchain.
package wasmgen

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/cPlayIt/motoko/leb128"
)

// Section ids.
const (
	sectionType     = 0x01
	sectionImport   = 0x02
	sectionFunction = 0x03
	sectionMemory   = 0x05
	sectionExport   = 0x07
	sectionCode     = 0x0a
	sectionData     = 0x0b
)

// External kinds.
const (
	externFunc   = 0x00
	externMemory = 0x02
)

// Opcodes accepted in function bodies passed to AddFunc.
const (
	OpCall     = 0x10
	OpDrop     = 0x1a
	OpLocalGet = 0x20
	OpI32Const = 0x41
	OpI64Const = 0x42
	OpEnd      = 0x0b
)

// MemoryExport is the name the guest memory is exported under.
const MemoryExport = "memory"

// PageSize is the WebAssembly page size in bytes.
const PageSize = 65536

type signature struct {
	params  []api.ValueType
	results []api.ValueType
}

type hostImport struct {
	name string
	sig  signature
}

type guestFunc struct {
	name string
	sig  signature
	body []byte
}

type dataSegment struct {
	offset uint32
	bytes  []byte
}

// Builder assembles a guest module. Every host import is re-exported
// through a trampoline under the same name, followed by the functions
// added with AddFunc.
type Builder struct {
	hostModule  string
	imports     []hostImport
	funcs       []guestFunc
	data        []dataSegment
	memoryPages uint32
	noMemory    bool
}

// New creates a builder for a guest importing from hostModule with one page
// of exported memory.
func New(hostModule string) *Builder {
	return &Builder{
		hostModule:  hostModule,
		memoryPages: 1,
	}
}

// Import declares a host function and returns its function index.
func (b *Builder) Import(name string, params, results []api.ValueType) uint32 {
	b.imports = append(b.imports, hostImport{name: name, sig: signature{params, results}})
	return uint32(len(b.imports) - 1)
}

// ImportIndex returns the function index of a declared import.
func (b *Builder) ImportIndex(name string) (uint32, bool) {
	for i, imp := range b.imports {
		if imp.name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// AddFunc adds an exported function. body holds the instructions without
// local declarations or the final end opcode.
func (b *Builder) AddFunc(name string, params, results []api.ValueType, body []byte) {
	b.funcs = append(b.funcs, guestFunc{name: name, sig: signature{params, results}, body: body})
}

// SetMemoryPages sets the minimum size of the exported memory.
func (b *Builder) SetMemoryPages(n uint32) {
	b.memoryPages = n
}

// OmitMemory leaves the memory section and its export out of the module.
// Data segments are dropped with it.
func (b *Builder) OmitMemory() {
	b.noMemory = true
}

// AddData places bytes at offset when the guest is instantiated.
func (b *Builder) AddData(offset uint32, bytes []byte) {
	b.data = append(b.data, dataSegment{offset: offset, bytes: bytes})
}

// Build encodes the module.
func (b *Builder) Build() []byte {
	wasm := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	wasm = appendSection(wasm, sectionType, b.typeSection())
	if len(b.imports) > 0 {
		wasm = appendSection(wasm, sectionImport, b.importSection())
	}
	if n := b.definedCount(); n > 0 {
		wasm = appendSection(wasm, sectionFunction, b.functionSection())
	}
	if !b.noMemory {
		wasm = appendSection(wasm, sectionMemory, b.memorySection())
	}
	wasm = appendSection(wasm, sectionExport, b.exportSection())
	if n := b.definedCount(); n > 0 {
		wasm = appendSection(wasm, sectionCode, b.codeSection())
	}
	if len(b.data) > 0 && !b.noMemory {
		wasm = appendSection(wasm, sectionData, b.dataSection())
	}
	return wasm
}

// definedCount is the number of trampolines plus added functions.
func (b *Builder) definedCount() int {
	return len(b.imports) + len(b.funcs)
}

// Type i belongs to import i for i < len(imports); trampolines reuse it.
// Added functions follow.
func (b *Builder) typeSection() []byte {
	sigs := make([]signature, 0, b.definedCount())
	for _, imp := range b.imports {
		sigs = append(sigs, imp.sig)
	}
	for _, f := range b.funcs {
		sigs = append(sigs, f.sig)
	}

	section := leb128.AppendU32(nil, uint32(len(sigs)))
	for _, s := range sigs {
		section = append(section, 0x60)
		section = appendValTypes(section, s.params)
		section = appendValTypes(section, s.results)
	}
	return section
}

func (b *Builder) importSection() []byte {
	section := leb128.AppendU32(nil, uint32(len(b.imports)))
	for i, imp := range b.imports {
		section = appendName(section, b.hostModule)
		section = appendName(section, imp.name)
		section = append(section, externFunc)
		section = leb128.AppendU32(section, uint32(i))
	}
	return section
}

func (b *Builder) functionSection() []byte {
	section := leb128.AppendU32(nil, uint32(b.definedCount()))
	for i, n := 0, b.definedCount(); i < n; i++ {
		section = leb128.AppendU32(section, uint32(i))
	}
	return section
}

func (b *Builder) memorySection() []byte {
	section := []byte{0x01, 0x00}
	return leb128.AppendU32(section, b.memoryPages)
}

func (b *Builder) exportSection() []byte {
	n := b.definedCount()
	if !b.noMemory {
		n++
	}
	section := leb128.AppendU32(nil, uint32(n))

	if !b.noMemory {
		section = appendName(section, MemoryExport)
		section = append(section, externMemory, 0x00)
	}

	base := uint32(len(b.imports))
	for i, imp := range b.imports {
		section = appendName(section, imp.name)
		section = append(section, externFunc)
		section = leb128.AppendU32(section, base+uint32(i))
	}
	for i, f := range b.funcs {
		section = appendName(section, f.name)
		section = append(section, externFunc)
		section = leb128.AppendU32(section, base+uint32(len(b.imports)+i))
	}
	return section
}

func (b *Builder) codeSection() []byte {
	section := leb128.AppendU32(nil, uint32(b.definedCount()))
	for i, imp := range b.imports {
		section = appendBody(section, trampoline(uint32(i), len(imp.sig.params)))
	}
	for _, f := range b.funcs {
		section = appendBody(section, f.body)
	}
	return section
}

func (b *Builder) dataSection() []byte {
	section := leb128.AppendU32(nil, uint32(len(b.data)))
	for _, d := range b.data {
		section = append(section, 0x00, OpI32Const)
		section = leb128.AppendS32(section, int32(d.offset))
		section = append(section, OpEnd)
		section = leb128.AppendU32(section, uint32(len(d.bytes)))
		section = append(section, d.bytes...)
	}
	return section
}

// trampoline forwards every parameter to the imported function idx.
func trampoline(idx uint32, params int) []byte {
	var body []byte
	for i := 0; i < params; i++ {
		body = append(body, OpLocalGet)
		body = leb128.AppendU32(body, uint32(i))
	}
	body = append(body, OpCall)
	return leb128.AppendU32(body, idx)
}

// appendBody wraps instructions with an empty local declaration vector and
// the closing end opcode.
func appendBody(dst, instrs []byte) []byte {
	dst = leb128.AppendU32(dst, uint32(len(instrs)+2))
	dst = append(dst, 0x00)
	dst = append(dst, instrs...)
	return append(dst, OpEnd)
}

func appendSection(dst []byte, id byte, body []byte) []byte {
	dst = append(dst, id)
	dst = leb128.AppendU32(dst, uint32(len(body)))
	return append(dst, body...)
}

func appendName(dst []byte, name string) []byte {
	dst = leb128.AppendU32(dst, uint32(len(name)))
	return append(dst, name...)
}

func appendValTypes(dst []byte, types []api.ValueType) []byte {
	dst = leb128.AppendU32(dst, uint32(len(types)))
	for _, t := range types {
		dst = append(dst, valType(t))
	}
	return dst
}

func valType(t api.ValueType) byte {
	switch t {
	case api.ValueTypeI64:
		return 0x7e
	case api.ValueTypeF32:
		return 0x7d
	case api.ValueTypeF64:
		return 0x7c
	default:
		return 0x7f
	}
}
