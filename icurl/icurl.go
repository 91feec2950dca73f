// Package icurl decodes "ic:" principal URLs into the blob they name.
//
// The URL form is the scheme "ic:" (in any case) followed by an even
// number of hex digits. The last byte is a CRC-8 checksum of the bytes
// before it and is not part of the result.
package icurl

import (
	"strings"

	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/trap"
)

const scheme = "ic:"

// Decode returns the payload named by url.
func Decode(url string) ([]byte, error) {
	if len(url) < len(scheme) || !strings.EqualFold(url[:len(scheme)], scheme) {
		return nil, errors.InvalidInput(errors.PhaseDecode, "ic_url_decode: Not a URL")
	}

	digits := url[len(scheme):]
	if len(digits)%2 != 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, "ic_url_decode: Not an even number of hex digits")
	}
	if len(digits) < 2 {
		return nil, errors.InvalidInput(errors.PhaseDecode, "ic_url_decode: Too short URL")
	}

	raw := make([]byte, len(digits)/2)
	for i := range raw {
		hi, ok1 := unhex(digits[2*i])
		lo, ok2 := unhex(digits[2*i+1])
		if !ok1 || !ok2 {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
				Offset(len(scheme) + 2*i).
				Detail("ic_url_decode: Not a hex digit").
				Build()
		}
		raw[i] = hi<<4 | lo
	}

	payload, sum := raw[:len(raw)-1], raw[len(raw)-1]
	if got := Checksum(payload); got != sum {
		return nil, errors.New(errors.PhaseDecode, errors.KindChecksum).
			Value(url).
			Detail("ic_url_decode: CRC-8 mismatch (want %02x, have %02x)", got, sum).
			Build()
	}
	return payload, nil
}

// MustDecode is Decode for callers on the trusted side of the boundary:
// a malformed URL raises a trap.
func MustDecode(url string) []byte {
	b, err := Decode(url)
	if err != nil {
		trap.Raise(err.(*errors.Error))
	}
	return b
}

// Encode renders payload as an "ic:" URL with upper-case hex digits.
func Encode(payload []byte) string {
	const hexdigits = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(len(scheme) + 2*len(payload) + 2)
	sb.WriteString(scheme)
	for _, b := range append(payload[:len(payload):len(payload)], Checksum(payload)) {
		sb.WriteByte(hexdigits[b>>4])
		sb.WriteByte(hexdigits[b&0x0f])
	}
	return sb.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
