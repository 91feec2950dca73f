package wasmgen

import "github.com/cPlayIt/motoko/leb128"

// Instr concatenates instruction fragments into a function body.
func Instr(parts ...[]byte) []byte {
	var body []byte
	for _, p := range parts {
		body = append(body, p...)
	}
	return body
}

// Call calls function idx.
func Call(idx uint32) []byte {
	return leb128.AppendU32([]byte{OpCall}, idx)
}

// LocalGet pushes local (or parameter) i.
func LocalGet(i uint32) []byte {
	return leb128.AppendU32([]byte{OpLocalGet}, i)
}

// I32Const pushes v.
func I32Const(v int32) []byte {
	return leb128.AppendS32([]byte{OpI32Const}, v)
}

// I64Const pushes v.
func I64Const(v int64) []byte {
	return leb128.AppendS64([]byte{OpI64Const}, v)
}

// Drop discards the top of the stack.
func Drop() []byte {
	return []byte{OpDrop}
}
