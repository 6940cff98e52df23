package core_test

import (
	"testing"

	. "synnergy-network/core"
)

func TestInMemoryStoreGetSetDelete(t *testing.T) {
	st := NewInMemoryStore()
	if err := st.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := st.Get([]byte("k"))
	if err != nil || string(got) != "v" {
		t.Fatalf("Get: got %q, err %v", got, err)
	}
	if err := st.Delete([]byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get([]byte("k")); err == nil {
		t.Fatal("expected ErrNotFound after delete")
	}
}

func TestDraftTxServiceSignatureAccumulationIsAdditive(t *testing.T) {
	svc := NewDraftTxService(NewInMemoryStore())
	intent := sampleIntent()
	swapID, err := ComputeSwapID(intent)
	if err != nil {
		t.Fatalf("ComputeSwapID: %v", err)
	}

	if got := svc.BlockSignatures(swapID, 1); len(got) != 0 {
		t.Fatalf("expected no signatures yet, got %d", len(got))
	}
	if err := svc.AppendBlockSignature(swapID, 1, []byte("sig-a")); err != nil {
		t.Fatalf("AppendBlockSignature: %v", err)
	}
	if err := svc.AppendBlockSignature(swapID, 1, []byte("sig-b")); err != nil {
		t.Fatalf("AppendBlockSignature: %v", err)
	}
	sigs := svc.BlockSignatures(swapID, 1)
	if len(sigs) != 2 {
		t.Fatalf("expected 2 accumulated signatures, got %d", len(sigs))
	}

	// A different block number for the same swap is a distinct bucket.
	if got := svc.BlockSignatures(swapID, 2); len(got) != 0 {
		t.Fatalf("signatures must be scoped per (swap_id, block_number), got %d", len(got))
	}
}

func TestDraftTxServicePutGetDraft(t *testing.T) {
	svc := NewDraftTxService(NewInMemoryStore())
	intent := sampleIntent()
	swapID, err := ComputeSwapID(intent)
	if err != nil {
		t.Fatalf("ComputeSwapID: %v", err)
	}
	draft := DraftSwapTx{DraftID: swapID, State: StateDrafted, Intent: intent}
	if err := svc.PutDraft(draft); err != nil {
		t.Fatalf("PutDraft: %v", err)
	}
	got, err := svc.GetDraft(swapID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got.State != StateDrafted {
		t.Fatalf("expected StateDrafted, got %s", got.State)
	}
}

func TestDraftTxServiceSwapLockIsStablePerSwap(t *testing.T) {
	svc := NewDraftTxService(NewInMemoryStore())
	intent := sampleIntent()
	swapID, _ := ComputeSwapID(intent)

	l1 := svc.SwapLock(swapID)
	l2 := svc.SwapLock(swapID)
	if l1 != l2 {
		t.Fatal("SwapLock must return the same mutex for the same swap id")
	}
}
