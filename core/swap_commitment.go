package core

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// commitmentArgs mirrors the remote contract's commitment tuple:
// (uint256 chain_id, address owner, address recipient, uint256 amount,
//  uint256 token_id, address token_address, uint256 threshold,
//  address[] signers). Declared once at package scope, like eventDataArgs
// in swap_event.go.
var commitmentArgs = mustCommitmentArgs()

func mustCommitmentArgs() abi.Arguments {
	uint256Ty, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	addressTy, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	addressArrTy, err := abi.NewType("address[]", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{
		{Type: uint256Ty}, // chain_id
		{Type: addressTy}, // owner
		{Type: addressTy}, // recipient
		{Type: uint256Ty}, // amount
		{Type: uint256Ty}, // token_id
		{Type: addressTy}, // token_address
		{Type: uint256Ty}, // threshold
		{Type: addressArrTy}, // signers
	}
}

// ComputeSwapID returns keccak256(ABI.encode(intent)), bit-exact with the
// hash the remote contract computes independently over the same tuple. The
// result is the swap's sole identifier on both ledgers and, by
// construction, the local draft transaction's hash.
func ComputeSwapID(intent SwapIntent) (SwapID, error) {
	if err := validateIntent(intent); err != nil {
		return common.Hash{}, err
	}
	threshold := new(big.Int).SetUint64(intent.SignaturesThreshold)
	packed, err := commitmentArgs.Pack(
		intent.ChainID,
		intent.Owner,
		intent.Recipient,
		intent.Amount,
		intent.TokenID,
		intent.TokenAddress,
		threshold,
		intent.Signers,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: abi.encode intent: %v", ErrCodec, err)
	}
	return crypto.Keccak256Hash(packed), nil
}

// validateIntent enforces the static shape invariants of SwapIntent that
// ComputeSwapID and the state machine both rely on: a positive threshold no
// greater than the signer set, a non-empty ordered signer list, and no
// zero-valued party/token addresses (a zero Owner/Recipient/TokenAddress
// can never be a real counterparty and would commit a swap nobody can
// claim or revert).
func validateIntent(intent SwapIntent) error {
	if intent.ChainID == nil || intent.Amount == nil || intent.TokenID == nil {
		return fmt.Errorf("%w: intent has nil big.Int field", ErrMalformedSwap)
	}
	if FromCommon(intent.Owner) == AddressZero || FromCommon(intent.Recipient) == AddressZero || FromCommon(intent.TokenAddress) == AddressZero {
		return fmt.Errorf("%w: intent has a zero-valued owner, recipient, or token address", ErrMalformedSwap)
	}
	if len(intent.Signers) == 0 {
		return fmt.Errorf("%w: intent has no signers", ErrMalformedSwap)
	}
	if intent.SignaturesThreshold == 0 || intent.SignaturesThreshold > uint64(len(intent.Signers)) {
		return fmt.Errorf("%w: threshold %d out of range for %d signers", ErrMalformedSwap, intent.SignaturesThreshold, len(intent.Signers))
	}
	return nil
}
