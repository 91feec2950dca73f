package leb128

import "github.com/cPlayIt/motoko/trap"

// AppendU32 appends the LEB128 encoding of v.
func AppendU32(dst []byte, v uint32) []byte {
	return AppendUnsigned(dst, U64(v))
}

// AppendS32 appends the SLEB128 encoding of v.
func AppendS32(dst []byte, v int32) []byte {
	return AppendSigned(dst, I64(v))
}

// AppendS64 appends the SLEB128 encoding of v.
func AppendS64(dst []byte, v int64) []byte {
	return AppendSigned(dst, I64(v))
}

// EncodeU64 returns the LEB128 encoding of v.
func EncodeU64(v uint64) []byte {
	return AppendUnsigned(nil, U64(v))
}

// EncodeS64 returns the SLEB128 encoding of v.
func EncodeS64(v int64) []byte {
	return AppendSigned(nil, I64(v))
}

// ReadU64 decodes a LEB128 value from the front of data and returns it with
// the number of bytes consumed. Truncated input and values wider than 64
// bits are reported as errors.
func ReadU64(data []byte) (v uint64, n int, err error) {
	buf := NewBuf(data)
	err = trap.Catch(func() {
		v = uint64(DecodeUnsigned(buf, U64Folder{}).(U64))
	})
	if err != nil {
		return 0, 0, err
	}
	return v, buf.Pos, nil
}

// ReadS64 decodes a SLEB128 value from the front of data and returns it with
// the number of bytes consumed.
func ReadS64(data []byte) (v int64, n int, err error) {
	buf := NewBuf(data)
	err = trap.Catch(func() {
		v = int64(DecodeSigned(buf, I64Folder{}).(I64))
	})
	if err != nil {
		return 0, 0, err
	}
	return v, buf.Pos, nil
}
