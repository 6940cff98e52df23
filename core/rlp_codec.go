package core

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// EncodeRLP canonically encodes v (an integer, []byte, or nested list/struct
// of such) per the remote ledger's recursive-length-prefix rules. Integers
// are encoded big-endian minimal, with zero as the empty string; byte
// strings and lists follow the short/long prefix split at 55 bytes.
//
// The rules themselves are exactly those go-ethereum/rlp implements, which
// is also the reference encoding the remote ledger's own nodes use.
func EncodeRLP(v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := rlp.Encode(buf, v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return buf.Bytes(), nil
}

// DecodeRLP decodes data into out, the inverse of EncodeRLP. Malformed input
// (non-minimal length, truncated payload, non-canonical integers) fails with
// ErrCodec.
func DecodeRLP(data []byte, out interface{}) error {
	if err := rlp.DecodeBytes(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return nil
}

// EncodeTxIndexKey returns the canonical trie key for a receipt at the given
// transaction index: RLP(txIndex), i.e. the integer's minimal big-endian
// encoding, not a hex string. This resolves the "leading zero stripping"
// open question in favor of integer-valued keys.
func EncodeTxIndexKey(txIndex uint64) []byte {
	key, err := EncodeRLP(txIndex)
	if err != nil {
		// EncodeRLP only fails on reflection errors from rlp itself; a
		// uint64 can never produce one.
		panic(err)
	}
	return key
}
