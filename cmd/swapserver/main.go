package main

import (
	"log"
	"net/http"
	"os"

	"synnergy-network/cmd/swapserver/server"
	core "synnergy-network/core"
	"synnergy-network/pkg/config"
)

func main() {
	if _, err := config.LoadFromEnv(); err != nil {
		log.Printf("config: using defaults (%v)", err)
	}

	addr := config.AppConfig.Network.APIListenAddr
	if addr == "" {
		addr = os.Getenv("SWAP_API_ADDR")
	}
	if addr == "" {
		addr = ":8090"
	}

	storeDir := config.AppConfig.Storage.DraftStoreDir
	var store core.KVStore
	if storeDir != "" {
		if err := os.MkdirAll(storeDir, 0o700); err != nil {
			log.Fatalf("create draft store dir: %v", err)
		}
		store = core.NewFileStore(storeDir)
	} else {
		store = core.NewInMemoryStore()
	}

	drafts := core.NewDraftTxService(store)
	machine := core.NewSwapMachine(drafts, newDevRemoteRPC(), devLocalLedger{})

	h := &server.Handlers{Machine: machine, Drafts: drafts}
	r := server.NewRouter(h)

	log.Printf("swap coordinator listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
