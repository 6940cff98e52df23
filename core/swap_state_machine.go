package core

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// SwapState is one node of the swap lifecycle:
// Idle -> Drafted -> Signed -> RemoteCommitted -> (ProofCollected | Expired) -> (Unlocked | Reverted).
type SwapState string

const (
	StateIdle            SwapState = "Idle"
	StateDrafted         SwapState = "Drafted"
	StateSigned          SwapState = "Signed"
	StateRemoteCommitted SwapState = "RemoteCommitted"
	StateProofCollected  SwapState = "ProofCollected"
	StateExpired         SwapState = "Expired"
	StateUnlocked        SwapState = "Unlocked"
	StateReverted         SwapState = "Reverted"
)

// ProofMode selects the proof assembler strategy for a swap, a tagged
// variant rather than an interface hierarchy per the "polymorphism over
// signatures" design note.
type ProofMode string

const (
	ModeBlockSigs  ProofMode = "BlockSigs"
	ModeNotarySigs ProofMode = "NotarySigs"
)

// RemoteRPC is the remote-ledger capability this core consumes; its
// implementation (a JSON-RPC client, a mock, ...) lives outside this
// module.
type RemoteRPC interface {
	GetTransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error)
	GetBlockHeader(ctx context.Context, number uint64) (*BlockHeader, error)
	GetBlockReceipts(ctx context.Context, number uint64) ([]*Receipt, error)
	SendTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// BlockHeader is the subset of remote block header fields this core needs.
type BlockHeader struct {
	Number       uint64
	ReceiptsRoot common.Hash
}

// LocalLedger is the local-ledger capability this core consumes: issuing
// assets, building/signing/finalizing the draft swap transaction, and
// querying the owner's vault.
type LocalLedger interface {
	IssueAsset(ctx context.Context, owner Address, amount uint64) (AssetRef, error)
	BuildDraftSwapTx(ctx context.Context, draft DraftSwapTx) ([]byte, error)
	SignTx(ctx context.Context, txBytes []byte, signer Address) ([]byte, error)
	FinalizeTx(ctx context.Context, signedTxBytes []byte) (common.Hash, error)
	VaultQuery(ctx context.Context, owner Address) ([]AssetRef, error)
}

// SwapMachine orchestrates the swap lifecycle. It owns no wall-clock state:
// callers supply "now" to Timeout so the core remains deterministic and
// testable by injecting mock RemoteRPC/LocalLedger/DraftTxService
// implementations, per the cooperative-I/O design note.
type SwapMachine struct {
	drafts *DraftTxService
	remote RemoteRPC
	local  LocalLedger
	log    *zap.SugaredLogger
}

// NewSwapMachine wires a SwapMachine from its three capabilities.
func NewSwapMachine(drafts *DraftTxService, remote RemoteRPC, local LocalLedger) *SwapMachine {
	return &SwapMachine{drafts: drafts, remote: remote, local: local, log: zap.L().Sugar()}
}

// Draft creates a new swap in the Idle->Drafted transition. The caller
// asserts asset ownership externally (the local ledger's job); Draft's own
// guard is that the local proof threshold does not exceed the supplied
// validator set, distinct from (and checked in addition to) the
// threshold-vs-signer-count check ComputeSwapID/validateIntent already
// enforces over the remote commitment tuple.
func (m *SwapMachine) Draft(ctx context.Context, intent SwapIntent, asset AssetRef, recipient, notary Address, validators []Address, threshold uint64, deadline int64) (DraftSwapTx, error) {
	if threshold == 0 || threshold > uint64(len(validators)) {
		return DraftSwapTx{}, fmt.Errorf("%w: threshold %d out of range for %d validators", ErrMalformedSwap, threshold, len(validators))
	}
	swapID, err := ComputeSwapID(intent)
	if err != nil {
		return DraftSwapTx{}, err
	}
	lock := m.drafts.SwapLock(swapID)
	lock.Lock()
	defer lock.Unlock()

	event, err := BuildClaimEvent(swapID, intent)
	if err != nil {
		return DraftSwapTx{}, err
	}
	ownerAddr := FromCommon(intent.Owner)
	draft := DraftSwapTx{
		DraftID:    swapID,
		State:      StateDrafted,
		Intent:     intent,
		AssetInput: asset,
		Mode:       ModeBlockSigs,
		Deadline:   deadline,
		Lock: LockState{
			SwapID:              swapID,
			OwnerParty:          ownerAddr,
			RecipientParty:      recipient,
			Notary:              notary,
			ApprovedValidators:  validators,
			SignaturesThreshold: threshold,
			EventExpectation:    event,
		},
	}
	if _, err := m.local.BuildDraftSwapTx(ctx, draft); err != nil {
		return DraftSwapTx{}, fmt.Errorf("%w: build draft tx: %v", ErrRemote, err)
	}
	if err := m.drafts.PutDraft(draft); err != nil {
		return DraftSwapTx{}, err
	}
	return draft, nil
}

// Sign transitions Drafted->Signed: the owner signs the draft transaction.
func (m *SwapMachine) Sign(ctx context.Context, draftID SwapID, owner Address) (SignedDraftSwapTx, error) {
	lock := m.drafts.SwapLock(draftID)
	lock.Lock()
	defer lock.Unlock()

	draft, err := m.drafts.GetDraft(draftID)
	if err != nil {
		return SignedDraftSwapTx{}, err
	}
	if draft.State == StateExpired {
		return SignedDraftSwapTx{}, fmt.Errorf("%w: Sign requires Drafted, got %s", ErrExpired, draft.State)
	}
	if draft.State != StateDrafted {
		return SignedDraftSwapTx{}, fmt.Errorf("%w: Sign requires Drafted, got %s", ErrInvalidState, draft.State)
	}
	if draft.Lock.OwnerParty != owner {
		return SignedDraftSwapTx{}, fmt.Errorf("%w: signer is not the asset owner", ErrMalformedSwap)
	}
	txBytes, err := m.local.BuildDraftSwapTx(ctx, draft)
	if err != nil {
		return SignedDraftSwapTx{}, fmt.Errorf("%w: build draft tx: %v", ErrRemote, err)
	}
	sig, err := m.local.SignTx(ctx, txBytes, owner)
	if err != nil {
		return SignedDraftSwapTx{}, fmt.Errorf("%w: sign draft tx: %v", ErrRemote, err)
	}
	draft.State = StateSigned
	if err := m.drafts.PutDraft(draft); err != nil {
		return SignedDraftSwapTx{}, err
	}
	return SignedDraftSwapTx{DraftSwapTx: draft, OwnerSig: sig}, nil
}

// ObserveRemoteCommit transitions Signed->RemoteCommitted in response to an
// externally observed remote commit event. The trigger itself is external
// (the RemoteRPC capability, polled or subscribed to outside this core);
// this method only updates local bookkeeping once it has been observed.
func (m *SwapMachine) ObserveRemoteCommit(draftID SwapID) error {
	lock := m.drafts.SwapLock(draftID)
	lock.Lock()
	defer lock.Unlock()

	draft, err := m.drafts.GetDraft(draftID)
	if err != nil {
		return err
	}
	if draft.State == StateExpired {
		return fmt.Errorf("%w: RemoteCommitObserved requires Signed, got %s", ErrExpired, draft.State)
	}
	if draft.State != StateSigned {
		return fmt.Errorf("%w: RemoteCommitObserved requires Signed, got %s", ErrInvalidState, draft.State)
	}
	draft.State = StateRemoteCommitted
	return m.drafts.PutDraft(draft)
}

// Timeout transitions Drafted/Signed->Expired once now has reached the
// draft's deadline (now >= deadline).
func (m *SwapMachine) Timeout(draftID SwapID, now int64) error {
	lock := m.drafts.SwapLock(draftID)
	lock.Lock()
	defer lock.Unlock()

	draft, err := m.drafts.GetDraft(draftID)
	if err != nil {
		return err
	}
	if draft.State == StateExpired {
		return fmt.Errorf("%w: swap already expired", ErrExpired)
	}
	if draft.State != StateDrafted && draft.State != StateSigned {
		return fmt.Errorf("%w: Timeout requires Drafted or Signed, got %s", ErrInvalidState, draft.State)
	}
	if now < draft.Deadline {
		return fmt.Errorf("%w: deadline %d not yet reached (now=%d)", ErrInvalidState, draft.Deadline, now)
	}
	draft.State = StateExpired
	return m.drafts.PutDraft(draft)
}
