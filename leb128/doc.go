// Package leb128 implements the canonical LEB128 and SLEB128 variable-length
// integer encodings used to move integers across the runtime boundary.
//
// The codec works over an abstract arbitrary-precision integer, the Int
// interface, so it does not care how digits are stored. Decoding rebuilds a
// value through a Folder, which receives the 7-bit groups least significant
// first.
//
// # Encoding
//
//	buf := leb128.NewBuf(make([]byte, leb128.SizeUnsigned(n)))
//	leb128.EncodeUnsigned(buf, n)
//
// or, for a growable destination:
//
//	out = leb128.AppendSigned(out, n)
//
// # Decoding
//
//	buf := leb128.NewBuf(data)
//	n := leb128.DecodeSigned(buf, bigint.Folder{})
//	consumed := buf.Pos
//
// Decode traps when the buffer ends before a terminating byte. TryDecodeUnsigned
// and TryDecodeSigned report the same condition as an error instead.
//
// # Fixed-width values
//
// U64 and I64 implement Int for machine words. AppendU32, AppendS32 and
// AppendS64 cover the common binary-format cases.
package leb128
