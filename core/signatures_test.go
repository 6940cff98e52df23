package core_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	. "synnergy-network/core"
)

func TestCountDistinctValidSignaturesDedupesSameSigner(t *testing.T) {
	key, addr := newOracleKey(t)
	digest := crypto.Keccak256Hash([]byte("some receipts root || block number"))
	sig := signDigest(t, key, digest)

	count, err := CountDistinctValidSignatures(digest, [][]byte{sig, sig}, []common.Address{addr})
	if err != nil {
		t.Fatalf("CountDistinctValidSignatures: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate signatures from the same signer must count once, got %d", count)
	}
}

func TestCountDistinctValidSignaturesIgnoresUnapproved(t *testing.T) {
	key, _ := newOracleKey(t)
	digest := crypto.Keccak256Hash([]byte("digest"))
	sig := signDigest(t, key, digest)

	_, strangerAddr := newOracleKey(t)
	count, err := CountDistinctValidSignatures(digest, [][]byte{sig}, []common.Address{strangerAddr})
	if err != nil {
		t.Fatalf("CountDistinctValidSignatures: %v", err)
	}
	if count != 0 {
		t.Fatalf("signature from a non-approved signer must not count, got %d", count)
	}
}

func TestMeetsThreshold(t *testing.T) {
	k1, a1 := newOracleKey(t)
	k2, a2 := newOracleKey(t)
	digest := crypto.Keccak256Hash([]byte("digest"))

	ok, err := MeetsThreshold(digest, [][]byte{signDigest(t, k1, digest)}, []common.Address{a1, a2}, 2)
	if err != nil {
		t.Fatalf("MeetsThreshold: %v", err)
	}
	if ok {
		t.Fatal("one signature must not satisfy a threshold of two")
	}

	ok, err = MeetsThreshold(digest, [][]byte{signDigest(t, k1, digest), signDigest(t, k2, digest)}, []common.Address{a1, a2}, 2)
	if err != nil {
		t.Fatalf("MeetsThreshold: %v", err)
	}
	if !ok {
		t.Fatal("two distinct signatures must satisfy a threshold of two")
	}
}
