package event

import (
	"fmt"

	"github.com/hedeqiang/sieve/internal/hex"
)

// HexToAddress converts a "0x"-prefixed hex string to an Address. Shorter
// inputs are left-padded with zeros; longer ones are rejected.
func HexToAddress(s string) (Address, error) {
	b, err := hex.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	var addr Address
	if len(b) > len(addr) {
		return Address{}, fmt.Errorf("invalid address %q: %d bytes, want at most %d", s, len(b), len(addr))
	}
	copy(addr[:], hex.PadLeft(b, len(addr)))
	return addr, nil
}

// MustHexToAddress is like HexToAddress but panics on error.
func MustHexToAddress(s string) Address {
	addr, err := HexToAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// HexToHash converts a "0x"-prefixed hex string to a Hash. Shorter inputs
// are left-padded with zeros; longer ones are rejected.
func HexToHash(s string) (Hash, error) {
	b, err := hex.Decode(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	var h Hash
	if len(b) > len(h) {
		return Hash{}, fmt.Errorf("invalid hash %q: %d bytes, want at most %d", s, len(b), len(h))
	}
	copy(h[:], hex.PadLeft(b, len(h)))
	return h, nil
}

// MustHexToHash is like HexToHash but panics on error.
func MustHexToHash(s string) Hash {
	h, err := HexToHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Hex returns the "0x"-prefixed hex encoding of the address.
func (a Address) Hex() string {
	return hex.Encode(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the "0x"-prefixed hex encoding of the hash.
func (h Hash) Hex() string {
	return hex.Encode(h[:])
}

// String implements fmt.Stringer.
func (h Hash) String() string {
	return h.Hex()
}

// Bytes returns the hash as a byte slice. It is the key used for log bloom
// membership tests.
func (h Hash) Bytes() []byte {
	return h[:]
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}
