package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// Unlock drives ProofCollected->Unlocked, the core correctness-critical
// path: it independently reconstructs the remote receipts trie, checks it
// against the block header's receipts_root, produces an inclusion proof for
// the claimed transaction, and submits the local unlock transaction.
func (m *SwapMachine) Unlock(ctx context.Context, draftID SwapID, assembler ProofAssembler, blockNumber, txIndex uint64) (UnlockData, error) {
	lock := m.drafts.SwapLock(draftID)
	lock.Lock()
	defer lock.Unlock()

	draft, err := m.drafts.GetDraft(draftID)
	if err != nil {
		return UnlockData{}, err
	}
	if draft.State == StateExpired {
		return UnlockData{}, fmt.Errorf("%w: Unlock requires ProofCollected, got %s", ErrExpired, draft.State)
	}
	if draft.State != StateProofCollected {
		return UnlockData{}, fmt.Errorf("%w: Unlock requires ProofCollected, got %s", ErrInvalidState, draft.State)
	}
	if draft.AssetInput.OutputID == nil {
		return UnlockData{}, fmt.Errorf("%w: draft has no asset input", ErrMalformedSwap)
	}

	// Step 2: block signatures must still meet threshold. Distinctness and
	// validity were already enforced when CollectProofs advanced the swap
	// to ProofCollected; this is a defensive re-check against the raw count.
	sigs := assembler.Signatures(m.drafts, draftID, blockNumber)
	if uint64(len(sigs)) < draft.Lock.SignaturesThreshold {
		return UnlockData{}, fmt.Errorf("%w: have %d signatures, need %d", ErrThreshold, len(sigs), draft.Lock.SignaturesThreshold)
	}

	// Step 3: fetch block header and receipts from the remote ledger.
	header, err := m.remote.GetBlockHeader(ctx, blockNumber)
	if err != nil {
		return UnlockData{}, fmt.Errorf("%w: get block header: %v", ErrRemote, err)
	}
	receipts, err := m.remote.GetBlockReceipts(ctx, blockNumber)
	if err != nil {
		return UnlockData{}, fmt.Errorf("%w: get block receipts: %v", ErrRemote, err)
	}
	if txIndex >= uint64(len(receipts)) {
		return UnlockData{}, fmt.Errorf("%w: tx_index %d out of range for %d receipts", ErrMalformedSwap, txIndex, len(receipts))
	}

	// Step 4: build the receipts trie.
	root, rtrie, err := BuildReceiptsTrie(receipts)
	if err != nil {
		return UnlockData{}, err
	}

	// Step 5: assert the computed root matches the block header's.
	if root != header.ReceiptsRoot {
		return UnlockData{}, fmt.Errorf("%w: computed %s, header has %s", ErrRootMismatch, root.Hex(), header.ReceiptsRoot.Hex())
	}

	// Step 6: produce the inclusion proof for txIndex.
	proof, err := rtrie.Prove(txIndex)
	if err != nil {
		return UnlockData{}, err
	}
	receiptBytes, err := EncodeReceipt(receipts[txIndex])
	if err != nil {
		return UnlockData{}, err
	}

	// The claimed receipt must carry the expected ClaimOrRevert event.
	matched := false
	for _, log := range receipts[txIndex].Logs {
		if draft.Lock.EventExpectation.MatchesEvent(log) {
			matched = true
			break
		}
	}
	if !matched {
		return UnlockData{}, fmt.Errorf("%w: receipt does not contain the expected ClaimOrRevert event", ErrMalformedSwap)
	}

	unlock := UnlockData{
		ProofBundle: ProofBundle{
			MerkleProof:   proof,
			Signatures:    sigs,
			ReceiptsRoot:  root,
			UnlockReceipt: receiptBytes,
		},
		BlockNumber: blockNumber,
		TxIndex:     txIndex,
	}

	// Step 7: submit the local unlock transaction. The local contract
	// independently re-verifies steps 5-6 and the event match. The
	// submission envelope is local-ledger-specific (unlike the receipts
	// themselves, which are RLP because the remote ledger mandates it), so
	// it is JSON here, matching this module's other persisted payloads.
	payload, err := json.Marshal(unlock)
	if err != nil {
		return UnlockData{}, fmt.Errorf("%w: marshal unlock payload: %v", ErrCodec, err)
	}
	if _, err := m.local.FinalizeTx(ctx, payload); err != nil {
		return UnlockData{}, fmt.Errorf("%w: finalize unlock tx: %v", ErrRemote, err)
	}

	draft.State = StateUnlocked
	if err := m.drafts.PutDraft(draft); err != nil {
		return UnlockData{}, err
	}
	return unlock, nil
}

// Revert drives (ProofCollected|Expired)->Reverted. Like Unlock it rebuilds
// the receipts trie, checks its root against the block header, and proves
// the receipt at txIndex. Unlike Unlock it does not match the receipt's logs
// against any expected event and does not re-check the signature threshold.
// Owner recovery after Expired follows the same procedure.
func (m *SwapMachine) Revert(ctx context.Context, draftID SwapID, assembler ProofAssembler, blockNumber, txIndex uint64) (RevertData, error) {
	lock := m.drafts.SwapLock(draftID)
	lock.Lock()
	defer lock.Unlock()

	draft, err := m.drafts.GetDraft(draftID)
	if err != nil {
		return RevertData{}, err
	}
	if draft.State != StateProofCollected && draft.State != StateExpired {
		return RevertData{}, fmt.Errorf("%w: Revert requires ProofCollected or Expired, got %s", ErrInvalidState, draft.State)
	}

	header, err := m.remote.GetBlockHeader(ctx, blockNumber)
	if err != nil {
		return RevertData{}, fmt.Errorf("%w: get block header: %v", ErrRemote, err)
	}
	receipts, err := m.remote.GetBlockReceipts(ctx, blockNumber)
	if err != nil {
		return RevertData{}, fmt.Errorf("%w: get block receipts: %v", ErrRemote, err)
	}
	if txIndex >= uint64(len(receipts)) {
		return RevertData{}, fmt.Errorf("%w: tx_index %d out of range for %d receipts", ErrMalformedSwap, txIndex, len(receipts))
	}

	root, rtrie, err := BuildReceiptsTrie(receipts)
	if err != nil {
		return RevertData{}, err
	}
	if root != header.ReceiptsRoot {
		return RevertData{}, fmt.Errorf("%w: computed %s, header has %s", ErrRootMismatch, root.Hex(), header.ReceiptsRoot.Hex())
	}

	proof, err := rtrie.Prove(txIndex)
	if err != nil {
		return RevertData{}, err
	}
	receiptBytes, err := EncodeReceipt(receipts[txIndex])
	if err != nil {
		return RevertData{}, err
	}

	sigs := assembler.Signatures(m.drafts, draftID, blockNumber)

	revert := RevertData{
		ProofBundle: ProofBundle{
			MerkleProof:   proof,
			Signatures:    sigs,
			ReceiptsRoot:  root,
			UnlockReceipt: receiptBytes,
		},
		BlockNumber: blockNumber,
		TxIndex:     txIndex,
	}

	payload, err := json.Marshal(revert)
	if err != nil {
		return RevertData{}, fmt.Errorf("%w: marshal revert payload: %v", ErrCodec, err)
	}
	if _, err := m.local.FinalizeTx(ctx, payload); err != nil {
		return RevertData{}, fmt.Errorf("%w: finalize revert tx: %v", ErrRemote, err)
	}

	draft.State = StateReverted
	if err := m.drafts.PutDraft(draft); err != nil {
		return RevertData{}, err
	}
	return revert, nil
}
