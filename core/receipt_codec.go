package core

import (
	"fmt"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Receipt is the remote-ledger transaction receipt this core verifies
// against: status, cumulative gas used, logs bloom, and logs. We reuse
// go-ethereum's own type rather than re-declare the wire shape, since the
// remote ledger this core interoperates with is an Ethereum-style chain and
// go-ethereum's encoding *is* the canonical form.
type Receipt = gethtypes.Receipt

// Log is a single remote-ledger event log entry.
type Log = gethtypes.Log

// EncodeReceipt returns the canonical encoded form of a receipt:
// RLP([status, cumulative_gas_used, logs_bloom, logs]), with the
// transaction type byte prepended for typed (post-EIP-2718) receipts. This
// is exactly Receipt.MarshalBinary, which already implements both the
// legacy and typed envelope rules named in the open questions.
func EncodeReceipt(r *Receipt) ([]byte, error) {
	data, err := r.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: encode receipt: %v", ErrCodec, err)
	}
	return data, nil
}

// DecodeReceipt is the inverse of EncodeReceipt.
func DecodeReceipt(data []byte) (*Receipt, error) {
	r := new(Receipt)
	if err := r.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: decode receipt: %v", ErrCodec, err)
	}
	return r, nil
}
