package core

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ClaimOrRevertSignature is the canonical function signature hashed to
// produce the remote event's topic0, per the external interfaces section:
// keccak256("ClaimOrRevert(bytes32,address,address,uint256,uint256,address)").
const ClaimOrRevertSignature = "ClaimOrRevert(bytes32,address,address,uint256,uint256,address)"

// ClaimOrRevertTopic is topic0 for every ClaimOrRevert log; topics[1] is
// always the swap id.
var ClaimOrRevertTopic = crypto.Keccak256Hash([]byte(ClaimOrRevertSignature))

// eventDataArgs packs the non-indexed ClaimOrRevert fields: recipient,
// amount, token_id, token_address. swap_id is indexed (topics[1]) rather
// than packed into data.
var eventDataArgs = mustEventDataArgs()

func mustEventDataArgs() abi.Arguments {
	uint256Ty, _ := abi.NewType("uint256", "", nil)
	addressTy, _ := abi.NewType("address", "", nil)
	return abi.Arguments{
		{Type: addressTy}, // recipient
		{Type: uint256Ty}, // amount
		{Type: uint256Ty}, // token_id
		{Type: addressTy}, // token_address
	}
}

// ExpectedEvent is the event encoder's output: the topic set and
// ABI-encoded data the unlock path compares against a proven receipt's
// logs. swap_id is not known at intent-authoring time, so BuildClaimEvent
// takes it together with the intent once it is known; no curried
// build(swap_id) function is exposed.
type ExpectedEvent struct {
	Address common.Address `json:"address"` // protocol_address expected to emit
	Topics  []common.Hash  `json:"topics"`
	Data    []byte         `json:"data"`
}

// BuildClaimEvent returns the expected ClaimOrRevert event for swapID, given
// the intent it was derived from. Used both to populate a LockState's
// EventExpectation at Draft time and, during Unlock, to compare against the
// proven receipt's logs.
func BuildClaimEvent(swapID SwapID, intent SwapIntent) (ExpectedEvent, error) {
	data, err := eventDataArgs.Pack(intent.Recipient, intent.Amount, intent.TokenID, intent.TokenAddress)
	if err != nil {
		return ExpectedEvent{}, fmt.Errorf("%w: abi.encode event data: %v", ErrCodec, err)
	}
	return ExpectedEvent{
		Address: intent.ProtocolAddress,
		Topics:  []common.Hash{ClaimOrRevertTopic, common.Hash(swapID)},
		Data:    data,
	}, nil
}

// MatchesEvent reports whether a remote-ledger log is the ClaimOrRevert
// event this ExpectedEvent describes.
func (e ExpectedEvent) MatchesEvent(log *Log) bool {
	if log == nil || log.Address != e.Address {
		return false
	}
	if len(log.Topics) != len(e.Topics) {
		return false
	}
	for i, t := range e.Topics {
		if log.Topics[i] != t {
			return false
		}
	}
	return string(log.Data) == string(e.Data)
}

// blockIdentifierHash is keccak(receipts_root || block_number), the
// canonical block identifier oracles sign under the BlockSignatures proof
// strategy.
func blockIdentifierHash(receiptsRoot common.Hash, blockNumber uint64) common.Hash {
	num := new(big.Int).SetUint64(blockNumber).Bytes()
	return crypto.Keccak256Hash(receiptsRoot.Bytes(), num)
}
