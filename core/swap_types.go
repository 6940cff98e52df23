package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SwapID uniquely identifies a swap on both ledgers. It equals the keccak256
// of the ABI-encoded SwapIntent (see ComputeSwapID) and, by construction, the
// hash of the local draft transaction derived from that intent.
type SwapID = common.Hash

// SwapIntent is the immutable agreement between the two parties to a swap.
// It is the sole input to ComputeSwapID (C5) and to the event encoder (C4).
type SwapIntent struct {
	ChainID             *big.Int         `json:"chain_id"`
	ProtocolAddress     common.Address   `json:"protocol_address"`
	Owner               common.Address   `json:"owner"`
	Recipient           common.Address   `json:"recipient"`
	Amount              *big.Int         `json:"amount"`
	TokenID             *big.Int         `json:"token_id"`
	TokenAddress        common.Address   `json:"token_address"`
	SignaturesThreshold uint64           `json:"signatures_threshold"`
	Signers             []common.Address `json:"signers"`
}

// LockState is the local-ledger output that encapsulates a swap. It is
// consumed by exactly one of Unlock or Revert.
type LockState struct {
	SwapID              SwapID  `json:"swap_id"`
	OwnerParty          Address `json:"owner_party"`
	RecipientParty      Address `json:"recipient_party"`
	Notary              Address `json:"notary"`
	ApprovedValidators  []Address `json:"approved_validators"`
	SignaturesThreshold uint64  `json:"signatures_threshold"`
	EventExpectation    ExpectedEvent `json:"event_expectation"`
}

// AssetRef identifies the local-ledger asset being swapped. It mirrors the
// draft-tx service's view of a UTXO input without specifying its internal
// representation, which is an external (local-ledger) concern.
type AssetRef struct {
	OutputID []byte `json:"output_id"`
	Amount   uint64 `json:"amount"`
}

// DraftSwapTx is the unsigned local transaction produced by Draft. It
// consumes AssetInput and produces exactly one LockState output plus one
// asset output payable to Recipient, claimable by exactly one of Unlock
// (to Owner's counterpart) or Revert (back to Owner) depending on which
// remote event is proven.
type DraftSwapTx struct {
	DraftID    SwapID     `json:"draft_id"`
	State      SwapState  `json:"state"`
	Intent     SwapIntent `json:"intent"`
	AssetInput AssetRef   `json:"asset_input"`
	Lock       LockState  `json:"lock"`
	Mode       ProofMode  `json:"mode"`
	Deadline   int64      `json:"deadline"` // unix seconds; caller-supplied "now" gates expiry
}

// SignedDraftSwapTx is a DraftSwapTx carrying the owner's signature. It is
// still unnotarized.
type SignedDraftSwapTx struct {
	DraftSwapTx
	OwnerSig []byte `json:"owner_sig"`
}

// ProofBundle is the evidence assembled during CollectProofs/Unlock: the
// trie witness for the claimed receipt, the signatures over it, and the
// receipt itself.
type ProofBundle struct {
	MerkleProof  map[string][]byte `json:"merkle_proof"`
	Signatures   [][]byte          `json:"signatures"`
	ReceiptsRoot common.Hash       `json:"receipts_root"`
	UnlockReceipt []byte           `json:"unlock_receipt"`
}

// UnlockData is the payload submitted with the local unlock transaction; the
// local contract independently re-verifies the trie proof and checks the
// receipt's logs against the lock state's encoded event.
type UnlockData struct {
	ProofBundle
	BlockNumber uint64 `json:"block_number"`
	TxIndex     uint64 `json:"tx_index"`
}

// RevertData is the counterpart to UnlockData for the revert path: a proof
// bundle for the receipt at TxIndex. Revert does not check that receipt's
// logs against any expected event.
type RevertData struct {
	ProofBundle
	BlockNumber uint64 `json:"block_number"`
	TxIndex     uint64 `json:"tx_index"`
}
