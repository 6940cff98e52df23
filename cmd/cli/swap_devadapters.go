package cli

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	core "synnergy-network/core"
)

// cliCtx is the background context CLI invocations run under; swap
// operations don't yet take a CLI-level timeout flag.
func cliCtx() context.Context { return context.Background() }

// cliRemoteRPC and cliLocalLedger are in-memory stand-ins for the
// production RemoteRPC/LocalLedger adapters, out of scope for this module.
// They let the CLI run for local testing without a live remote-chain
// client or local-ledger engine. cliRemoteRPC serves no block headers or
// receipts, so unlock and revert fail with ErrRemote.
type cliRemoteRPC struct{}

func (cliRemoteRPC) GetTransactionReceipt(_ context.Context, _ common.Hash) (*core.Receipt, error) {
	return nil, core.ErrNotFound
}

func (cliRemoteRPC) GetBlockHeader(_ context.Context, _ uint64) (*core.BlockHeader, error) {
	return nil, core.ErrNotFound
}

func (cliRemoteRPC) GetBlockReceipts(_ context.Context, _ uint64) ([]*core.Receipt, error) {
	return nil, core.ErrNotFound
}

func (cliRemoteRPC) SendTransaction(_ context.Context, _ common.Address, data []byte, _ *big.Int) (common.Hash, error) {
	return crypto.Keccak256Hash(data), nil
}

func (cliRemoteRPC) Call(_ context.Context, _ common.Address, _ []byte) ([]byte, error) {
	return nil, nil
}

type cliLocalLedger struct{}

func (cliLocalLedger) IssueAsset(_ context.Context, _ core.Address, amount uint64) (core.AssetRef, error) {
	return core.AssetRef{OutputID: []byte("cli-output"), Amount: amount}, nil
}

func (cliLocalLedger) BuildDraftSwapTx(_ context.Context, draft core.DraftSwapTx) ([]byte, error) {
	return draft.DraftID.Bytes(), nil
}

func (cliLocalLedger) SignTx(_ context.Context, txBytes []byte, _ core.Address) ([]byte, error) {
	return append([]byte("clisig:"), txBytes...), nil
}

func (cliLocalLedger) FinalizeTx(_ context.Context, payload []byte) (common.Hash, error) {
	return crypto.Keccak256Hash(payload), nil
}

func (cliLocalLedger) VaultQuery(_ context.Context, _ core.Address) ([]core.AssetRef, error) {
	return nil, nil
}
