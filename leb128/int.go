package leb128

import (
	"encoding/hex"
	"slices"

	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/trap"
)

// Int is the view of an arbitrary-precision integer the codec needs.
// Values are immutable: shifts return new values.
type Int interface {
	// IsZero reports whether the value is 0.
	IsZero() bool
	// IsMinusOne reports whether the value is -1.
	IsMinusOne() bool
	// Low7 returns the low 7 bits of the two's-complement value.
	Low7() byte
	// Shr7 shifts right by 7, preserving the sign.
	Shr7() Int
	// Lsr7 shifts right by 7, filling with zeros.
	Lsr7() Int
}

// Folder rebuilds integers from 7-bit groups.
type Folder interface {
	// Fold accumulates groups[i] at bit offset 7*i. When negative is set the
	// bits above 7*len(groups) are ones.
	Fold(groups []byte, negative bool) Int
}

// U64 is an unsigned machine word.
type U64 uint64

func (v U64) IsZero() bool     { return v == 0 }
func (v U64) IsMinusOne() bool { return false }
func (v U64) Low7() byte       { return byte(v & 0x7f) }
func (v U64) Shr7() Int        { return v >> 7 }
func (v U64) Lsr7() Int        { return v >> 7 }

// I64 is a signed machine word.
type I64 int64

func (v I64) IsZero() bool     { return v == 0 }
func (v I64) IsMinusOne() bool { return v == -1 }
func (v I64) Low7() byte       { return byte(v & 0x7f) }
func (v I64) Shr7() Int        { return v >> 7 }
func (v I64) Lsr7() Int        { return I64(uint64(v) >> 7) }

// U64Folder folds groups into a U64, trapping when they do not fit.
type U64Folder struct{}

// Fold implements Folder.
func (U64Folder) Fold(groups []byte, negative bool) Int {
	var r uint64
	for i, g := range groups {
		if shift := uint(7 * i); shift < 64 {
			r |= uint64(g) << shift
		}
	}
	// Re-deriving the groups catches bits that fell off the top.
	for i, g := range groups {
		if byte(r>>uint(7*i))&0x7f != g {
			trap.Raise(errors.Overflow(errors.PhaseDecode, groupsHex(groups), "u64"))
		}
	}
	if negative {
		trap.Raise(errors.Overflow(errors.PhaseDecode, "negative value", "u64"))
	}
	return U64(r)
}

// I64Folder folds groups into an I64, trapping when they do not fit.
type I64Folder struct{}

// Fold implements Folder.
func (I64Folder) Fold(groups []byte, negative bool) Int {
	var r uint64
	for i, g := range groups {
		if shift := uint(7 * i); shift < 64 {
			r |= uint64(g) << shift
		}
	}
	if width := uint(7 * len(groups)); negative && width < 64 {
		r |= ^uint64(0) << width
	}
	v := int64(r)
	for i, g := range groups {
		if byte(v>>uint(7*i))&0x7f != g {
			trap.Raise(errors.Overflow(errors.PhaseDecode, groupsHex(groups), "s64"))
		}
	}
	if (v < 0) != negative {
		trap.Raise(errors.Overflow(errors.PhaseDecode, groupsHex(groups), "s64"))
	}
	return I64(v)
}

// groupsHex renders the 7-bit groups most significant first.
func groupsHex(groups []byte) string {
	rev := slices.Clone(groups)
	slices.Reverse(rev)
	return "groups 0x" + hex.EncodeToString(rev)
}
