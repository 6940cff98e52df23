package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter configures the HTTP routes for the swap coordinator's API.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(JSONHeaders)

	r.HandleFunc("/api/swaps", h.Draft).Methods(http.MethodPost)
	r.HandleFunc("/api/swaps/{id}", h.GetSwap).Methods(http.MethodGet)
	r.HandleFunc("/api/swaps/{id}/sign", h.Sign).Methods(http.MethodPost)
	r.HandleFunc("/api/swaps/{id}/observe-commit", h.ObserveRemoteCommit).Methods(http.MethodPost)
	r.HandleFunc("/api/swaps/{id}/collect-proofs", h.CollectProofs).Methods(http.MethodPost)
	r.HandleFunc("/api/swaps/{id}/unlock", h.Unlock).Methods(http.MethodPost)
	r.HandleFunc("/api/swaps/{id}/revert", h.Revert).Methods(http.MethodPost)
	r.HandleFunc("/api/swaps/{id}/timeout", h.Timeout).Methods(http.MethodPost)

	return r
}
