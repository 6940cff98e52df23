package core_test

import (
	"testing"

	"synnergy-network/internal/testutil"

	. "synnergy-network/core"
)

func TestFileStoreDraftTxServicePersistsAcrossInstances(t *testing.T) {
	sandbox, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}
	defer sandbox.Cleanup()

	intent := sampleIntent()
	swapID, err := ComputeSwapID(intent)
	if err != nil {
		t.Fatalf("ComputeSwapID: %v", err)
	}
	draft := DraftSwapTx{DraftID: swapID, State: StateDrafted, Intent: intent}

	svc1 := NewDraftTxService(NewFileStore(sandbox.Root))
	if err := svc1.PutDraft(draft); err != nil {
		t.Fatalf("PutDraft: %v", err)
	}
	if err := svc1.AppendBlockSignature(swapID, 1, []byte("sig-a")); err != nil {
		t.Fatalf("AppendBlockSignature: %v", err)
	}

	// A fresh DraftTxService over the same directory must see the same
	// state: the store, not the service, owns durability.
	svc2 := NewDraftTxService(NewFileStore(sandbox.Root))
	got, err := svc2.GetDraft(swapID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got.State != StateDrafted {
		t.Fatalf("expected StateDrafted, got %s", got.State)
	}
	sigs := svc2.BlockSignatures(swapID, 1)
	if len(sigs) != 1 || string(sigs[0]) != "sig-a" {
		t.Fatalf("expected persisted signature, got %v", sigs)
	}
}
