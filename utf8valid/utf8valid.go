package utf8valid

import (
	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/trap"
)

//	U+0000..U+007F       00..7F
//	                  N  C0..C1  80..BF                   1100000x 10xxxxxx
//	U+0080..U+07FF       C2..DF  80..BF
//	                  N  E0      80..9F  80..BF           11100000 100xxxxx
//	U+0800..U+0FFF       E0      A0..BF  80..BF
//	U+1000..U+CFFF       E1..EC  80..BF  80..BF
//	U+D000..U+D7FF       ED      80..9F  80..BF
//	                  S  ED      A0..BF  80..BF           11101101 101xxxxx
//	U+E000..U+FFFF       EE..EF  80..BF  80..BF
//	                  N  F0      80..8F  80..BF  80..BF   11110000 1000xxxx
//	U+10000..U+3FFFF     F0      90..BF  80..BF  80..BF
//	U+40000..U+FFFFF     F1..F3  80..BF  80..BF  80..BF
//	U+100000..U+10FFFF   F4      80..8F  80..BF  80..BF   11110100 1000xxxx
//
// N = non-shortest form, S = surrogate.
const (
	mask2, lead2 = 0xE0C0, 0xC080
	mask3, lead3 = 0xF0C0C0, 0xE08080
	mask4, lead4 = 0xF8C0C0C0, 0xF0808080

	// payload bits that must not all be zero (overlong), plus the surrogate
	// and range markers for the wider forms
	bits2     = 0x1E00
	bits3     = 0x0F2000
	surrogate = 0x0D2000
	bits4     = 0x07300000
	maxPlane  = 0x04000000
)

// Check reports whether b is well-formed UTF-8. The cursor is the offset of
// the first byte of the first ill-formed sequence, or len(b) when b is
// valid.
func Check(b []byte) (ok bool, cursor int) {
	var window [4]byte
	n := len(b)
	cur := 0

	for cur < n {
		p := b[cur:]
		if cur+4 > n {
			// Zero padding can never complete a multi-byte form, so a
			// sequence cut off by the end of input is rejected.
			window = [4]byte{}
			copy(window[:], b[cur:])
			p = window[:]
		}

		v := uint32(p[0])
		if v&0x80 == 0 {
			cur++
			continue
		}

		v = v<<8 | uint32(p[1])
		if v&mask2 == lead2 {
			if v&bits2 == 0 {
				break
			}
			cur += 2
			continue
		}

		v = v<<8 | uint32(p[2])
		if v&mask3 == lead3 {
			if r := v & bits3; r == 0 || r == surrogate {
				break
			}
			cur += 3
			continue
		}

		v = v<<8 | uint32(p[3])
		if v&mask4 == lead4 {
			if r := v & bits4; r == 0 || r > maxPlane {
				break
			}
			cur += 4
			continue
		}

		break
	}

	return cur == n, cur
}

// Valid reports whether b is well-formed UTF-8.
func Valid(b []byte) bool {
	ok, _ := Check(b)
	return ok
}

// ValidString reports whether s is well-formed UTF-8.
func ValidString(s string) bool {
	return Valid([]byte(s))
}

// Validate returns normally if b is well-formed UTF-8 and raises a trap
// otherwise. The trap carries the offset of the offending sequence.
func Validate(b []byte) {
	ok, cursor := Check(b)
	if ok {
		return
	}
	trap.Raise(errors.InvalidUTF8(errors.PhaseValidate, b, cursor))
}
