package bigint_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cPlayIt/motoko/bigint"
	"github.com/cPlayIt/motoko/leb128"
	"github.com/cPlayIt/motoko/trap"
)

func pow2(i uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), i)
}

func neighbours(i uint) []*big.Int {
	p := pow2(i)
	one := big.NewInt(1)
	return []*big.Int{
		new(big.Int).Sub(p, one),
		p,
		new(big.Int).Add(p, one),
	}
}

func roundTripUnsigned(t *testing.T, n bigint.Int) {
	t.Helper()
	b := make([]byte, 100)
	size := leb128.SizeUnsigned(n)
	leb128.EncodeUnsigned(leb128.NewBuf(b), n)

	buf := leb128.NewBuf(b)
	got := leb128.DecodeUnsigned(buf, bigint.Folder{}).(bigint.Int)
	if got.Cmp(n) != 0 {
		t.Errorf("leb128 %s: round trip gave %s", n, got)
	}
	if buf.Pos != size {
		t.Errorf("leb128 %s: size %d, decode consumed %d", n, size, buf.Pos)
	}
}

func roundTripSigned(t *testing.T, n bigint.Int) {
	t.Helper()
	b := make([]byte, 100)
	size := leb128.SizeSigned(n)
	leb128.EncodeSigned(leb128.NewBuf(b), n)

	buf := leb128.NewBuf(b)
	got := leb128.DecodeSigned(buf, bigint.Folder{}).(bigint.Int)
	if got.Cmp(n) != 0 {
		t.Errorf("sleb128 %s: round trip gave %s", n, got)
	}
	if buf.Pos != size {
		t.Errorf("sleb128 %s: size %d, decode consumed %d", n, size, buf.Pos)
	}
}

func TestLEB128_PowersOfTwo(t *testing.T) {
	for i := uint(0); i < 100; i++ {
		for _, v := range neighbours(i) {
			roundTripUnsigned(t, bigint.New(v))
		}
	}
}

func TestSLEB128_PowersOfTwo(t *testing.T) {
	for i := uint(0); i < 100; i++ {
		for _, v := range neighbours(i) {
			n := bigint.New(v)
			roundTripSigned(t, n)
			roundTripSigned(t, n.Neg())
		}
	}
}

func TestZeroIsOneByte(t *testing.T) {
	zero := bigint.FromInt64(0)
	require.Equal(t, []byte{0x00}, leb128.AppendUnsigned(nil, zero))
	require.Equal(t, []byte{0x00}, leb128.AppendSigned(nil, zero))
	require.Equal(t, 1, leb128.SizeUnsigned(zero))
	require.Equal(t, 1, leb128.SizeSigned(zero))
}

func TestMatchesFixedWidth(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 63, 64, -64, -65, 127, -128, 624485, -624485, 1<<62 + 5, -(1 << 62)} {
		require.Equal(t, leb128.EncodeS64(v), leb128.AppendSigned(nil, bigint.FromInt64(v)), "sleb128 %d", v)
		if v >= 0 {
			require.Equal(t, leb128.EncodeU64(uint64(v)), leb128.AppendUnsigned(nil, bigint.FromInt64(v)), "leb128 %d", v)
		}
	}
}

func TestScenario_2Pow128Minus1(t *testing.T) {
	n, err := bigint.Parse("0xffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	require.Equal(t, 0, n.Cmp(bigint.New(new(big.Int).Sub(pow2(128), big.NewInt(1)))))

	enc := leb128.AppendUnsigned(nil, n)
	require.Len(t, enc, 19)
	require.Equal(t, leb128.SizeUnsigned(n), len(enc))
	for i, b := range enc[:18] {
		require.Equal(t, byte(0xff), b, "byte %d", i)
	}
	require.Equal(t, byte(0x03), enc[18])
	roundTripUnsigned(t, n)

	neg := n.Neg()
	senc := leb128.AppendSigned(nil, neg)
	require.Equal(t, leb128.SizeSigned(neg), len(senc))
	roundTripSigned(t, neg)
}

func TestUnsignedNegativeTraps(t *testing.T) {
	err := trap.Catch(func() { leb128.SizeUnsigned(bigint.FromInt64(-5)) })
	require.ErrorContains(t, err, "no unsigned encoding")
}

func TestParse(t *testing.T) {
	n, err := bigint.Parse("-340282366920938463463374607431768211455")
	require.NoError(t, err)
	require.Equal(t, "-340282366920938463463374607431768211455", n.String())

	_, err = bigint.Parse("12ab")
	require.Error(t, err)
}

func TestZeroValue(t *testing.T) {
	var n bigint.Int
	require.True(t, n.IsZero())
	require.Equal(t, "0", n.String())
	require.Equal(t, []byte{0x00}, leb128.AppendUnsigned(nil, n))
}

func TestFoldNegative(t *testing.T) {
	// 0x7f alone, sign bit set: -1.
	v := bigint.Folder{}.Fold([]byte{0x7f}, true).(bigint.Int)
	require.True(t, v.IsMinusOne())

	// 0x80 0x7f => groups 0x00 0x7f => -128.
	v = bigint.Folder{}.Fold([]byte{0x00, 0x7f}, true).(bigint.Int)
	require.Equal(t, "-128", v.String())
}
