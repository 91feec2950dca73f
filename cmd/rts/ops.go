package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cPlayIt/motoko/bigint"
	"github.com/cPlayIt/motoko/icurl"
	"github.com/cPlayIt/motoko/leb128"
	"github.com/cPlayIt/motoko/trap"
	"github.com/cPlayIt/motoko/utf8valid"
)

// encodeResult is an encoded integer and the size the codec predicted for it.
type encodeResult struct {
	bytes []byte
	size  int
}

func (r encodeResult) String() string {
	return fmt.Sprintf("%s (%d bytes)", hex.EncodeToString(r.bytes), r.size)
}

// decodeResult is a decoded integer and the number of bytes it used.
type decodeResult struct {
	value    bigint.Int
	consumed int
	total    int
}

func (r decodeResult) String() string {
	if r.consumed < r.total {
		return fmt.Sprintf("%s (%d of %d bytes)", r.value, r.consumed, r.total)
	}
	return fmt.Sprintf("%s (%d bytes)", r.value, r.consumed)
}

// encodeInt encodes a decimal or prefixed integer of any size.
func encodeInt(arg string, signed bool) (res encodeResult, err error) {
	n, err := bigint.Parse(strings.TrimSpace(arg))
	if err != nil {
		return encodeResult{}, err
	}

	err = trap.Catch(func() {
		if signed {
			res.size = leb128.SizeSigned(n)
			res.bytes = leb128.AppendSigned(make([]byte, 0, res.size), n)
		} else {
			res.size = leb128.SizeUnsigned(n)
			res.bytes = leb128.AppendUnsigned(make([]byte, 0, res.size), n)
		}
	})
	return res, err
}

// decodeInt decodes the first integer in a hex string. Spaces are ignored.
func decodeInt(arg string, signed bool) (decodeResult, error) {
	data, err := parseHex(arg)
	if err != nil {
		return decodeResult{}, err
	}

	buf := leb128.NewBuf(data)
	var n leb128.Int
	if signed {
		n, err = leb128.TryDecodeSigned(buf, bigint.Folder{})
	} else {
		n, err = leb128.TryDecodeUnsigned(buf, bigint.Folder{})
	}
	if err != nil {
		return decodeResult{}, err
	}
	return decodeResult{value: n.(bigint.Int), consumed: buf.Pos, total: len(data)}, nil
}

// checkUTF8 describes the validity of b.
func checkUTF8(b []byte) string {
	ok, cursor := utf8valid.Check(b)
	if ok {
		return fmt.Sprintf("valid (%d bytes)", len(b))
	}
	return fmt.Sprintf("invalid at byte %d", cursor)
}

// decodeURL decodes an ic: URL to hex.
func decodeURL(url string) (string, error) {
	payload, err := icurl.Decode(strings.TrimSpace(url))
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(payload)), nil
}

// encodeURL renders a hex payload as an ic: URL.
func encodeURL(arg string) (string, error) {
	payload, err := parseHex(arg)
	if err != nil {
		return "", err
	}
	return icurl.Encode(payload), nil
}

func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return data, nil
}
