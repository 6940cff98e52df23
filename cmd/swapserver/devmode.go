package main

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	core "synnergy-network/core"
)

// devRemoteRPC and devLocalLedger are in-memory stand-ins for the
// production RemoteRPC/LocalLedger adapters, which are out of scope for
// this module (they belong to whichever remote-chain client and
// local-ledger engine a deployment wires in). They let swapserver start
// and run against a single local process. devRemoteRPC serves only blocks
// registered with PutBlock, and no route calls PutBlock, so Unlock and
// Revert through the HTTP API fail with ErrRemote.
type devRemoteRPC struct {
	mu       sync.Mutex
	headers  map[uint64]*core.BlockHeader
	receipts map[uint64][]*core.Receipt
}

func newDevRemoteRPC() *devRemoteRPC {
	return &devRemoteRPC{
		headers:  make(map[uint64]*core.BlockHeader),
		receipts: make(map[uint64][]*core.Receipt),
	}
}

// PutBlock registers a block's receipts under devmode so Unlock/Revert have
// something to observe. Intended for local testing only.
func (d *devRemoteRPC) PutBlock(number uint64, receipts []*core.Receipt) error {
	root, _, err := core.BuildReceiptsTrie(receipts)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.headers[number] = &core.BlockHeader{Number: number, ReceiptsRoot: root}
	d.receipts[number] = receipts
	return nil
}

func (d *devRemoteRPC) GetTransactionReceipt(_ context.Context, _ common.Hash) (*core.Receipt, error) {
	return nil, core.ErrNotFound
}

func (d *devRemoteRPC) GetBlockHeader(_ context.Context, number uint64) (*core.BlockHeader, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, ok := d.headers[number]
	if !ok {
		return nil, core.ErrNotFound
	}
	return h, nil
}

func (d *devRemoteRPC) GetBlockReceipts(_ context.Context, number uint64) ([]*core.Receipt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.receipts[number]
	if !ok {
		return nil, core.ErrNotFound
	}
	return r, nil
}

func (d *devRemoteRPC) SendTransaction(_ context.Context, _ common.Address, data []byte, _ *big.Int) (common.Hash, error) {
	return crypto.Keccak256Hash(data), nil
}

func (d *devRemoteRPC) Call(_ context.Context, _ common.Address, _ []byte) ([]byte, error) {
	return nil, nil
}

type devLocalLedger struct{}

func (devLocalLedger) IssueAsset(_ context.Context, _ core.Address, amount uint64) (core.AssetRef, error) {
	return core.AssetRef{OutputID: []byte("devmode-output"), Amount: amount}, nil
}

func (devLocalLedger) BuildDraftSwapTx(_ context.Context, draft core.DraftSwapTx) ([]byte, error) {
	return draft.DraftID.Bytes(), nil
}

func (devLocalLedger) SignTx(_ context.Context, txBytes []byte, _ core.Address) ([]byte, error) {
	return append([]byte("devsig:"), txBytes...), nil
}

func (devLocalLedger) FinalizeTx(_ context.Context, payload []byte) (common.Hash, error) {
	return crypto.Keccak256Hash(payload), nil
}

func (devLocalLedger) VaultQuery(_ context.Context, _ core.Address) ([]core.AssetRef, error) {
	return nil, nil
}
