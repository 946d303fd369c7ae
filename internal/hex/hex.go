// Package hex provides utilities for encoding and decoding hexadecimal strings
// with the "0x" prefix commonly used in Ethereum JSON-RPC.
package hex

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Encode returns the hexadecimal encoding of src with "0x" prefix.
func Encode(src []byte) string {
	return "0x" + hex.EncodeToString(src)
}

// Decode decodes a hex string (with or without "0x" prefix) into bytes.
// Odd-length input is left-padded with a zero nibble.
func Decode(s string) ([]byte, error) {
	s = trimPrefix(s)
	if len(s)%2 != 0 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

// MustDecode is like Decode but panics on error.
func MustDecode(s string) []byte {
	b, err := Decode(s)
	if err != nil {
		panic(fmt.Sprintf("hex: invalid hex string %q: %v", s, err))
	}
	return b
}

// EncodeUint64 encodes a uint64 as a "0x"-prefixed hex quantity.
func EncodeUint64(n uint64) string {
	return "0x" + strconv.FormatUint(n, 16)
}

// DecodeUint64 parses a "0x"-prefixed hex quantity.
func DecodeUint64(s string) (uint64, error) {
	return strconv.ParseUint(trimPrefix(s), 16, 64)
}

// PadLeft returns b left-padded with zeros to size bytes. Longer input keeps
// its trailing size bytes.
func PadLeft(b []byte, size int) []byte {
	if len(b) >= size {
		return b[len(b)-size:]
	}
	padded := make([]byte, size)
	copy(padded[size-len(b):], b)
	return padded
}

func trimPrefix(s string) string {
	s = strings.TrimPrefix(s, "0x")
	return strings.TrimPrefix(s, "0X")
}
