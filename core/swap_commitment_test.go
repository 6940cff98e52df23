package core_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	. "synnergy-network/core"
)

func sampleIntent() SwapIntent {
	return SwapIntent{
		ChainID:             big.NewInt(1337),
		ProtocolAddress:     common.HexToAddress("0xD00D00000000000000000000000000000D00D0"),
		Owner:               common.HexToAddress("0xA0000000000000000000000000000000000001"),
		Recipient:           common.HexToAddress("0xB0000000000000000000000000000000000002"),
		Amount:              big.NewInt(1),
		TokenID:             big.NewInt(0),
		TokenAddress:        common.HexToAddress("0xC0000000000000000000000000000000000003"),
		SignaturesThreshold: 1,
		Signers:             []common.Address{common.HexToAddress("0xC0000000000000000000000000000000000099")},
	}
}

// S1 - Commitment hash determinism: identical intents collide, distinct
// intents don't, and the computation is pure (no hidden state).
func TestComputeSwapIDDeterministic(t *testing.T) {
	intent := sampleIntent()
	id1, err := ComputeSwapID(intent)
	if err != nil {
		t.Fatalf("ComputeSwapID: %v", err)
	}
	id2, err := ComputeSwapID(intent)
	if err != nil {
		t.Fatalf("ComputeSwapID: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("identical intents produced different swap ids: %s != %s", id1.Hex(), id2.Hex())
	}

	other := sampleIntent()
	other.Amount = big.NewInt(2)
	id3, err := ComputeSwapID(other)
	if err != nil {
		t.Fatalf("ComputeSwapID: %v", err)
	}
	if id1 == id3 {
		t.Fatal("distinct intents must not collide")
	}
}

func TestComputeSwapIDRejectsInvalidThreshold(t *testing.T) {
	intent := sampleIntent()
	intent.SignaturesThreshold = 2 // exceeds len(Signers) == 1
	if _, err := ComputeSwapID(intent); err == nil {
		t.Fatal("expected error for threshold exceeding signer count")
	}
}

func TestComputeSwapIDRejectsZeroAddresses(t *testing.T) {
	cases := []func(*SwapIntent){
		func(i *SwapIntent) { i.Owner = common.Address{} },
		func(i *SwapIntent) { i.Recipient = common.Address{} },
		func(i *SwapIntent) { i.TokenAddress = common.Address{} },
	}
	for _, mutate := range cases {
		intent := sampleIntent()
		mutate(&intent)
		if _, err := ComputeSwapID(intent); err == nil {
			t.Fatal("expected error for a zero-valued owner/recipient/token address")
		}
	}
}

func TestBuildClaimEventMatchesExpectedLog(t *testing.T) {
	intent := sampleIntent()
	swapID, err := ComputeSwapID(intent)
	if err != nil {
		t.Fatalf("ComputeSwapID: %v", err)
	}
	event, err := BuildClaimEvent(swapID, intent)
	if err != nil {
		t.Fatalf("BuildClaimEvent: %v", err)
	}
	log := &Log{
		Address: intent.ProtocolAddress,
		Topics:  event.Topics,
		Data:    event.Data,
	}
	if !event.MatchesEvent(log) {
		t.Fatal("expected event to match its own constructed log")
	}

	tampered := &Log{Address: intent.ProtocolAddress, Topics: event.Topics, Data: append([]byte{0x01}, event.Data...)}
	if event.MatchesEvent(tampered) {
		t.Fatal("expected tampered data to not match")
	}
}
