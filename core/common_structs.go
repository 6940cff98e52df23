package core

import (
	"encoding/hex"
	"fmt"
)

// Address represents a 20-byte account identifier, shared between the local
// ledger's identifier space and the remote ledger's account space.
type Address [20]byte

// Hash represents a 32-byte cryptographic hash.
type Hash [32]byte

// String renders the address as a 0x-prefixed hex string.
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// Bytes returns a copy of the address's underlying bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, len(a))
	copy(out, a[:])
	return out
}

// String renders the hash as a 0x-prefixed hex string.
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// Bytes returns a copy of the hash's underlying bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, len(h))
	copy(out, h[:])
	return out
}

// ParseAddress decodes a hex-encoded 20-byte address, with or without a 0x
// prefix.
func ParseAddress(s string) (Address, error) {
	s = trimHexPrefix(s)
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 20 {
		return Address{}, fmt.Errorf("invalid address: %s", s)
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// ParseHash decodes a hex-encoded 32-byte hash, with or without a 0x prefix.
func ParseHash(s string) (Hash, error) {
	s = trimHexPrefix(s)
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return Hash{}, fmt.Errorf("invalid hash: %s", s)
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
