// Package bigint adapts math/big integers to the leb128 codec.
package bigint

import (
	"math/big"

	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/leb128"
	"github.com/cPlayIt/motoko/trap"
)

var (
	mask7    = big.NewInt(0x7f)
	minusOne = big.NewInt(-1)
)

// Int is an immutable arbitrary-precision integer.
type Int struct {
	v *big.Int
}

// New returns an Int holding a copy of v.
func New(v *big.Int) Int {
	return Int{v: new(big.Int).Set(v)}
}

// FromInt64 returns an Int holding v.
func FromInt64(v int64) Int {
	return Int{v: big.NewInt(v)}
}

// Parse reads a decimal (or 0x/0o/0b prefixed) integer.
func Parse(s string) (Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return Int{}, errors.InvalidInput(errors.PhaseDecode, "not an integer: "+s)
	}
	return Int{v: v}, nil
}

// Big returns a copy of the underlying value.
func (n Int) Big() *big.Int {
	return new(big.Int).Set(n.big())
}

// Cmp compares n and m.
func (n Int) Cmp(m Int) int {
	return n.big().Cmp(m.big())
}

// Neg returns -n.
func (n Int) Neg() Int {
	return Int{v: new(big.Int).Neg(n.big())}
}

func (n Int) String() string {
	return n.big().String()
}

func (n Int) big() *big.Int {
	if n.v == nil {
		return new(big.Int)
	}
	return n.v
}

// IsZero implements leb128.Int.
func (n Int) IsZero() bool {
	return n.big().Sign() == 0
}

// IsMinusOne implements leb128.Int.
func (n Int) IsMinusOne() bool {
	return n.big().Cmp(minusOne) == 0
}

// Low7 implements leb128.Int. big.Int.And uses two's-complement semantics
// for negative operands.
func (n Int) Low7() byte {
	return byte(new(big.Int).And(n.big(), mask7).Uint64())
}

// Shr7 implements leb128.Int. big.Int.Rsh is an arithmetic shift.
func (n Int) Shr7() leb128.Int {
	return Int{v: new(big.Int).Rsh(n.big(), 7)}
}

// Lsr7 implements leb128.Int. Negative values have no zero-filled
// representation of finite width, so shifting one traps.
func (n Int) Lsr7() leb128.Int {
	if n.big().Sign() < 0 {
		trap.Raise(errors.New(errors.PhaseEncode, errors.KindOverflow).
			Value(n.String()).
			Detail("negative value %s has no unsigned encoding", n).
			Build())
	}
	return Int{v: new(big.Int).Rsh(n.big(), 7)}
}

// Folder rebuilds Int values for the leb128 decoders.
type Folder struct{}

// Fold implements leb128.Folder.
func (Folder) Fold(groups []byte, negative bool) leb128.Int {
	v := new(big.Int)
	g := new(big.Int)
	for i := len(groups) - 1; i >= 0; i-- {
		v.Lsh(v, 7)
		v.Or(v, g.SetUint64(uint64(groups[i])))
	}
	if negative {
		width := new(big.Int).Lsh(big.NewInt(1), uint(7*len(groups)))
		v.Sub(v, width)
	}
	return Int{v: v}
}
