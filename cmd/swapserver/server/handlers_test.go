package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"synnergy-network/cmd/swapserver/server"
	core "synnergy-network/core"
)

// stubRemoteRPC and stubLocalLedger mirror the core package's own test
// mocks, adapted to the handler layer so the router can be exercised
// end-to-end via httptest without a live remote chain or local ledger.
type stubRemoteRPC struct {
	headers  map[uint64]*core.BlockHeader
	receipts map[uint64][]*core.Receipt
}

func newStubRemoteRPC() *stubRemoteRPC {
	return &stubRemoteRPC{headers: map[uint64]*core.BlockHeader{}, receipts: map[uint64][]*core.Receipt{}}
}

func (s *stubRemoteRPC) GetTransactionReceipt(_ context.Context, _ common.Hash) (*core.Receipt, error) {
	return nil, core.ErrNotFound
}

func (s *stubRemoteRPC) GetBlockHeader(_ context.Context, number uint64) (*core.BlockHeader, error) {
	h, ok := s.headers[number]
	if !ok {
		return nil, core.ErrNotFound
	}
	return h, nil
}

func (s *stubRemoteRPC) GetBlockReceipts(_ context.Context, number uint64) ([]*core.Receipt, error) {
	r, ok := s.receipts[number]
	if !ok {
		return nil, core.ErrNotFound
	}
	return r, nil
}

func (s *stubRemoteRPC) SendTransaction(_ context.Context, _ common.Address, data []byte, _ *big.Int) (common.Hash, error) {
	return crypto.Keccak256Hash(data), nil
}

func (s *stubRemoteRPC) Call(_ context.Context, _ common.Address, _ []byte) ([]byte, error) {
	return nil, nil
}

type stubLocalLedger struct{}

func (stubLocalLedger) IssueAsset(_ context.Context, _ core.Address, amount uint64) (core.AssetRef, error) {
	return core.AssetRef{OutputID: []byte("o"), Amount: amount}, nil
}
func (stubLocalLedger) BuildDraftSwapTx(_ context.Context, d core.DraftSwapTx) ([]byte, error) {
	return d.DraftID.Bytes(), nil
}
func (stubLocalLedger) SignTx(_ context.Context, b []byte, _ core.Address) ([]byte, error) {
	return append([]byte("sig:"), b...), nil
}
func (stubLocalLedger) FinalizeTx(_ context.Context, payload []byte) (common.Hash, error) {
	return crypto.Keccak256Hash(payload), nil
}
func (stubLocalLedger) VaultQuery(_ context.Context, _ core.Address) ([]core.AssetRef, error) {
	return nil, nil
}

func newTestHandlers() *server.Handlers {
	drafts := core.NewDraftTxService(core.NewInMemoryStore())
	machine := core.NewSwapMachine(drafts, newStubRemoteRPC(), stubLocalLedger{})
	return &server.Handlers{Machine: machine, Drafts: drafts}
}

func TestDraftAndGetSwapRoundTrip(t *testing.T) {
	h := newTestHandlers()
	router := server.NewRouter(h)

	body := map[string]any{
		"chain_id":             1,
		"protocol_address":     "0x0000000000000000000000000000000000000001",
		"owner":                "0x0000000000000000000000000000000000000002",
		"recipient":            "0x0000000000000000000000000000000000000003",
		"amount":               100,
		"token_id":             0,
		"token_address":        "0x0000000000000000000000000000000000000004",
		"signatures_threshold": 1,
		"signers":              []string{"0x0000000000000000000000000000000000000005"},
		"notary":               "0x0000000000000000000000000000000000000006",
		"validators":           []string{"0x0000000000000000000000000000000000000005"},
		"deadline":             9999999999,
	}
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/swaps", bytes.NewReader(raw))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var draft core.DraftSwapTx
	if err := json.Unmarshal(rr.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.State != core.StateDrafted {
		t.Fatalf("expected StateDrafted, got %s", draft.State)
	}

	getReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/swaps/%s", draft.DraftID.Hex()), nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	if getRR.Code != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d", getRR.Code)
	}
}

func TestGetSwapNotFound(t *testing.T) {
	h := newTestHandlers()
	router := server.NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/swaps/"+common.Hash{}.Hex(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetSwapMalformedID(t *testing.T) {
	h := newTestHandlers()
	router := server.NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/swaps/not-a-hash", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
