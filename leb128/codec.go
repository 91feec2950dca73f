package leb128

import (
	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/trap"
)

const (
	continuation = 0x80
	signBit      = 0x40
)

// EncodeUnsigned writes n as LEB128. n must be non-negative.
func EncodeUnsigned(buf *Buf, n Int) {
	for {
		b := n.Low7()
		n = n.Lsr7()
		if !n.IsZero() {
			b |= continuation
		}
		buf.Put(b)
		if n.IsZero() {
			return
		}
	}
}

// SizeUnsigned returns the number of bytes EncodeUnsigned writes for n.
func SizeUnsigned(n Int) int {
	size := 0
	for {
		size++
		n = n.Lsr7()
		if n.IsZero() {
			return size
		}
	}
}

// EncodeSigned writes n as SLEB128.
func EncodeSigned(buf *Buf, n Int) {
	for {
		b := n.Low7()
		n = n.Shr7()
		if signedDone(n, b) {
			buf.Put(b)
			return
		}
		buf.Put(b | continuation)
	}
}

// SizeSigned returns the number of bytes EncodeSigned writes for n.
func SizeSigned(n Int) int {
	size := 0
	for {
		size++
		b := n.Low7()
		n = n.Shr7()
		if signedDone(n, b) {
			return size
		}
	}
}

// signedDone reports whether b, with n the value left after shifting it
// out, is the last byte of a signed encoding: bit 6 of b already carries
// the sign of the remainder.
func signedDone(n Int, b byte) bool {
	return (n.IsZero() && b&signBit == 0) || (n.IsMinusOne() && b&signBit != 0)
}

// DecodeUnsigned reads a LEB128 value. It traps if the buffer ends first.
func DecodeUnsigned(buf *Buf, f Folder) Int {
	groups, _, err := readGroups(buf, "leb128 decode")
	if err != nil {
		trap.Raise(err)
	}
	return f.Fold(groups, false)
}

// DecodeSigned reads a SLEB128 value. It traps if the buffer ends first.
func DecodeSigned(buf *Buf, f Folder) Int {
	groups, last, err := readGroups(buf, "sleb128 decode")
	if err != nil {
		trap.Raise(err)
	}
	return f.Fold(groups, last&signBit != 0)
}

// TryDecodeUnsigned is DecodeUnsigned returning truncation as an error.
// The cursor does not move on error.
func TryDecodeUnsigned(buf *Buf, f Folder) (Int, error) {
	groups, _, err := readGroups(buf, "leb128 decode")
	if err != nil {
		return nil, err
	}
	return f.Fold(groups, false), nil
}

// TryDecodeSigned is DecodeSigned returning truncation as an error.
// The cursor does not move on error.
func TryDecodeSigned(buf *Buf, f Folder) (Int, error) {
	groups, last, err := readGroups(buf, "sleb128 decode")
	if err != nil {
		return nil, err
	}
	return f.Fold(groups, last&signBit != 0), nil
}

// readGroups consumes bytes up to and including the first one without the
// continuation bit and returns their low 7 bits in order.
func readGroups(buf *Buf, what string) ([]byte, byte, *errors.Error) {
	start := buf.Pos
	var groups []byte
	for {
		b, ok := buf.Next()
		if !ok {
			buf.Pos = start
			return nil, 0, errors.Truncated(errors.PhaseDecode, start, what)
		}
		groups = append(groups, b&0x7f)
		if b&continuation == 0 {
			return groups, b, nil
		}
	}
}

// AppendUnsigned appends the LEB128 encoding of n to dst.
func AppendUnsigned(dst []byte, n Int) []byte {
	return appendEncoded(dst, SizeUnsigned(n), n, EncodeUnsigned)
}

// AppendSigned appends the SLEB128 encoding of n to dst.
func AppendSigned(dst []byte, n Int) []byte {
	return appendEncoded(dst, SizeSigned(n), n, EncodeSigned)
}

func appendEncoded(dst []byte, size int, n Int, encode func(*Buf, Int)) []byte {
	off := len(dst)
	dst = append(dst, make([]byte, size)...)
	encode(NewBuf(dst[off:]), n)
	return dst
}
