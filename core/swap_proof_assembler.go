package core

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ProofAssembler is the shared verification interface both proof
// strategies satisfy — a tagged variant rather than an inheritance
// hierarchy, per the polymorphism design note.
type ProofAssembler interface {
	// Collect requests/gathers signatures for the given block and returns
	// the current count of distinct valid signatures against the lock
	// state's approved validators.
	Collect(ctx context.Context, drafts *DraftTxService, lock LockState, blockNumber uint64, receiptsRoot common.Hash) (int, error)
	// Signatures returns the signature set accumulated so far.
	Signatures(drafts *DraftTxService, swapID SwapID, blockNumber uint64) [][]byte
	// Digest returns the message the signatures are expected to be over.
	Digest(swapID SwapID, blockNumber uint64, receiptsRoot common.Hash, draftTxHash common.Hash) common.Hash
}

// BlockSignatureAssembler implements the BlockSignatures strategy: oracles
// sign keccak(receipts_root || block_number); the draft-tx service
// collects these asynchronously and unlock proceeds once threshold is met.
type BlockSignatureAssembler struct {
	// Oracles is the set of oracle signatures already obtained out of band
	// (e.g. via an oracle network RPC) and handed to Collect for
	// bookkeeping/threshold evaluation.
	Oracles [][]byte
}

func (a BlockSignatureAssembler) Digest(_ SwapID, blockNumber uint64, receiptsRoot common.Hash, _ common.Hash) common.Hash {
	return blockIdentifierHash(receiptsRoot, blockNumber)
}

func (a BlockSignatureAssembler) Collect(_ context.Context, drafts *DraftTxService, lock LockState, blockNumber uint64, receiptsRoot common.Hash) (int, error) {
	for _, sig := range a.Oracles {
		if err := drafts.AppendBlockSignature(lock.SwapID, blockNumber, sig); err != nil {
			return 0, err
		}
	}
	digest := a.Digest(lock.SwapID, blockNumber, receiptsRoot, common.Hash{})
	sigs := drafts.BlockSignatures(lock.SwapID, blockNumber)
	count, err := CountDistinctValidSignatures(digest, sigs, toCommonAddresses(lock.ApprovedValidators))
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (a BlockSignatureAssembler) Signatures(drafts *DraftTxService, swapID SwapID, blockNumber uint64) [][]byte {
	return drafts.BlockSignatures(swapID, blockNumber)
}

// NotarySignatureAssembler implements the NotarizationSignatures strategy:
// local notaries sign the draft transaction hash. Collect stores each
// signature exactly as given and counts distinct approved signers; it does
// not pack signatures into a (swap_id, notary_pubkey, signature) layout and
// does not submit them to the remote contract's claim_with_signatures
// entry point.
type NotarySignatureAssembler struct {
	// Notaries is the set of notary signatures over the draft tx hash,
	// obtained out of band from the local notarization service.
	Notaries [][]byte
	DraftTxHash common.Hash
}

func (a NotarySignatureAssembler) Digest(_ SwapID, _ uint64, _ common.Hash, draftTxHash common.Hash) common.Hash {
	return draftTxHash
}

func (a NotarySignatureAssembler) Collect(_ context.Context, drafts *DraftTxService, lock LockState, _ uint64, _ common.Hash) (int, error) {
	for _, sig := range a.Notaries {
		if err := drafts.AppendNotarySignature(lock.SwapID, sig); err != nil {
			return 0, err
		}
	}
	sigs := drafts.NotarySignatures(lock.SwapID)
	count, err := CountDistinctValidSignatures(a.DraftTxHash, sigs, toCommonAddresses(lock.ApprovedValidators))
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (a NotarySignatureAssembler) Signatures(drafts *DraftTxService, swapID SwapID, _ uint64) [][]byte {
	return drafts.NotarySignatures(swapID)
}

// CollectProofs drives Signed/RemoteCommitted->ProofCollected: it gathers
// signatures via the swap's chosen ProofAssembler and requires the
// threshold to be met before advancing the state.
func (m *SwapMachine) CollectProofs(ctx context.Context, draftID SwapID, assembler ProofAssembler, blockNumber uint64, receiptsRoot common.Hash) error {
	lock := m.drafts.SwapLock(draftID)
	lock.Lock()
	defer lock.Unlock()

	draft, err := m.drafts.GetDraft(draftID)
	if err != nil {
		return err
	}
	if draft.State == StateExpired {
		return fmt.Errorf("%w: CollectProofs requires Signed or RemoteCommitted, got %s", ErrExpired, draft.State)
	}
	if draft.State != StateSigned && draft.State != StateRemoteCommitted {
		return fmt.Errorf("%w: CollectProofs requires Signed or RemoteCommitted, got %s", ErrInvalidState, draft.State)
	}
	count, err := assembler.Collect(ctx, m.drafts, draft.Lock, blockNumber, receiptsRoot)
	if err != nil {
		return err
	}
	if uint64(count) < draft.Lock.SignaturesThreshold {
		return fmt.Errorf("%w: have %d of %d required signatures", ErrThreshold, count, draft.Lock.SignaturesThreshold)
	}
	draft.State = StateProofCollected
	return m.drafts.PutDraft(draft)
}

func toCommonAddresses(in []Address) []common.Address {
	out := make([]common.Address, len(in))
	for i, a := range in {
		out[i] = common.Address(a)
	}
	return out
}
