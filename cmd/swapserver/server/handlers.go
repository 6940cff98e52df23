package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	core "synnergy-network/core"
)

// Handlers binds the swap coordinator's HTTP surface to a SwapMachine. One
// Handlers serves every swap on the node; per-swap serialization is the
// DraftTxService's job (SwapLock), not this layer's.
type Handlers struct {
	Machine *core.SwapMachine
	Drafts  *core.DraftTxService
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidState), errors.Is(err, core.ErrMalformedSwap), errors.Is(err, core.ErrThreshold), errors.Is(err, core.ErrRootMismatch), errors.Is(err, core.ErrExpired):
		status = http.StatusConflict
	case errors.Is(err, core.ErrCodec):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

// draftRequest is the wire shape for POST /api/swaps.
type draftRequest struct {
	ChainID             int64    `json:"chain_id"`
	ProtocolAddress     string   `json:"protocol_address"`
	Owner               string   `json:"owner"`
	Recipient           string   `json:"recipient"`
	Amount              int64    `json:"amount"`
	TokenID             int64    `json:"token_id"`
	TokenAddress        string   `json:"token_address"`
	SignaturesThreshold uint64   `json:"signatures_threshold"`
	Signers             []string `json:"signers"`

	AssetOutputID []byte   `json:"asset_output_id"`
	AssetAmount   uint64   `json:"asset_amount"`
	Notary        string   `json:"notary"`
	Validators    []string `json:"validators"`
	Deadline      int64    `json:"deadline"`
}

// Draft handles POST /api/swaps: it builds a SwapIntent from the request and
// advances it through the Idle->Drafted transition.
func (h *Handlers) Draft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	validators := make([]core.Address, len(req.Validators))
	for i, v := range req.Validators {
		addr, err := core.ParseAddress(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		validators[i] = addr
	}
	recipient, err := core.ParseAddress(req.Recipient)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	notary, err := core.ParseAddress(req.Notary)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	intent := core.SwapIntent{
		ChainID:             big.NewInt(req.ChainID),
		ProtocolAddress:     common.HexToAddress(req.ProtocolAddress),
		Owner:               common.HexToAddress(req.Owner),
		Recipient:           common.HexToAddress(req.Recipient),
		Amount:              big.NewInt(req.Amount),
		TokenID:             big.NewInt(req.TokenID),
		TokenAddress:        common.HexToAddress(req.TokenAddress),
		SignaturesThreshold: req.SignaturesThreshold,
		Signers:             toCommonAddressSlice(req.Signers),
	}
	asset := core.AssetRef{OutputID: req.AssetOutputID, Amount: req.AssetAmount}

	draft, err := h.Machine.Draft(r.Context(), intent, asset, recipient, notary, validators, req.SignaturesThreshold, req.Deadline)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, draft)
}

// GetSwap handles GET /api/swaps/{id}.
func (h *Handlers) GetSwap(w http.ResponseWriter, r *http.Request) {
	id, err := pathSwapID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	draft, err := h.Drafts.GetDraft(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, draft)
}

// Sign handles POST /api/swaps/{id}/sign.
func (h *Handlers) Sign(w http.ResponseWriter, r *http.Request) {
	id, err := pathSwapID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Owner string `json:"owner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	owner, err := core.ParseAddress(req.Owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	signed, err := h.Machine.Sign(r.Context(), id, owner)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, signed)
}

// ObserveRemoteCommit handles POST /api/swaps/{id}/observe-commit.
func (h *Handlers) ObserveRemoteCommit(w http.ResponseWriter, r *http.Request) {
	id, err := pathSwapID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Machine.ObserveRemoteCommit(id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Timeout handles POST /api/swaps/{id}/timeout.
func (h *Handlers) Timeout(w http.ResponseWriter, r *http.Request) {
	id, err := pathSwapID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Now int64 `json:"now"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Machine.Timeout(id, req.Now); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// proofRequest is shared by collect-proofs, unlock and revert: it carries
// which ProofAssembler strategy to use and the signatures gathered for it
// out of band.
type proofRequest struct {
	Mode         string   `json:"mode"`
	BlockNumber  uint64   `json:"block_number"`
	TxIndex      uint64   `json:"tx_index"`
	ReceiptsRoot string   `json:"receipts_root"`
	Signatures   [][]byte `json:"signatures"`
	DraftTxHash  string   `json:"draft_tx_hash"`
}

func (req proofRequest) assembler() core.ProofAssembler {
	switch core.ProofMode(req.Mode) {
	case core.ModeNotarySigs:
		return core.NotarySignatureAssembler{Notaries: req.Signatures, DraftTxHash: common.HexToHash(req.DraftTxHash)}
	default:
		return core.BlockSignatureAssembler{Oracles: req.Signatures}
	}
}

// CollectProofs handles POST /api/swaps/{id}/collect-proofs.
func (h *Handlers) CollectProofs(w http.ResponseWriter, r *http.Request) {
	id, err := pathSwapID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req proofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	root := common.HexToHash(req.ReceiptsRoot)
	if err := h.Machine.CollectProofs(r.Context(), id, req.assembler(), req.BlockNumber, root); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unlock handles POST /api/swaps/{id}/unlock.
func (h *Handlers) Unlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathSwapID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req proofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := h.Machine.Unlock(r.Context(), id, req.assembler(), req.BlockNumber, req.TxIndex)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, data)
}

// Revert handles POST /api/swaps/{id}/revert.
func (h *Handlers) Revert(w http.ResponseWriter, r *http.Request) {
	id, err := pathSwapID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req proofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := h.Machine.Revert(r.Context(), id, req.assembler(), req.BlockNumber, req.TxIndex)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, data)
}

func pathSwapID(r *http.Request) (core.SwapID, error) {
	s := mux.Vars(r)["id"]
	trimmed := strings.TrimPrefix(s, "0x")
	if len(trimmed) != 64 {
		return core.SwapID{}, fmt.Errorf("%w: swap id must be a 32-byte hex hash", core.ErrMalformedSwap)
	}
	return common.HexToHash(s), nil
}

func toCommonAddressSlice(in []string) []common.Address {
	out := make([]common.Address, len(in))
	for i, s := range in {
		out[i] = common.HexToAddress(s)
	}
	return out
}
