package leb128

import (
	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/trap"
)

// Buf is a cursor pair over a caller-owned byte region.
// Pos never exceeds End.
type Buf struct {
	data []byte
	Pos  int
	End  int
}

// NewBuf returns a buffer covering all of b.
func NewBuf(b []byte) *Buf {
	return &Buf{data: b, End: len(b)}
}

// Put writes c at the cursor. Writing past End traps.
func (b *Buf) Put(c byte) {
	if b.Pos >= b.End {
		trap.Raise(errors.OutOfBounds(errors.PhaseEncode, b.Pos, 1, b.End))
	}
	b.data[b.Pos] = c
	b.Pos++
}

// Next reads the byte at the cursor. It reports false at End.
func (b *Buf) Next() (byte, bool) {
	if b.Pos >= b.End {
		return 0, false
	}
	c := b.data[b.Pos]
	b.Pos++
	return c, true
}

// Remaining returns the number of bytes between the cursor and End.
func (b *Buf) Remaining() int {
	return b.End - b.Pos
}

// Bytes returns the bytes before the cursor.
func (b *Buf) Bytes() []byte {
	return b.data[:b.Pos]
}
