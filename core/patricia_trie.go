package core

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"
)

// ReceiptsTrie is a Merkle-Patricia trie over a single remote block's
// receipts, keyed by EncodeTxIndexKey(tx_index) and valued by
// EncodeReceipt(receipt) — matching the remote ledger's own receipts-root
// construction.
//
// It is built once per unlock attempt and then either proved against or
// discarded; nodes are not shared across unlocks (see Design Note on trie
// ownership).
type ReceiptsTrie struct {
	tr *trie.Trie
}

// receiptList adapts []*Receipt to gethtypes.DerivableList so that the root
// hash can be derived with the exact algorithm the remote ledger's own
// block header uses (types.DeriveSha), rather than a hand-rolled reduction.
type receiptList []*Receipt

func (l receiptList) Len() int { return len(l) }

func (l receiptList) EncodeIndex(i int, w *bytes.Buffer) {
	data, err := EncodeReceipt(l[i])
	if err != nil {
		// Receipts reaching this point have already round-tripped through
		// EncodeReceipt once during ingestion; a failure here means the
		// caller handed us a receipt it never validated.
		panic(err)
	}
	w.Write(data)
}

// BuildReceiptsTrie inserts (EncodeTxIndexKey(i), EncodeReceipt(receipts[i]))
// for every receipt and returns both the derived root hash — computed via
// gethtypes.DeriveSha over a trie.StackTrie, identical to how the remote
// ledger computes block_header.receipts_root — and a provable trie that can
// produce inclusion witnesses for any tx_index.
func BuildReceiptsTrie(receipts []*Receipt) (common.Hash, *ReceiptsTrie, error) {
	root := gethtypes.DeriveSha(receiptList(receipts), trie.NewStackTrie(nil))

	db := trie.NewDatabase(memorydb.New(), nil)
	tr := trie.NewEmpty(db)
	for i, r := range receipts {
		key := EncodeTxIndexKey(uint64(i))
		value, err := EncodeReceipt(r)
		if err != nil {
			return common.Hash{}, nil, err
		}
		if err := tr.Update(key, value); err != nil {
			return common.Hash{}, nil, fmt.Errorf("%w: trie update: %v", ErrCodec, err)
		}
	}
	if got := tr.Hash(); got != root {
		// The two derivations (StackTrie vs. incremental Trie) must agree;
		// disagreement means the receipt set itself is not trie-representable.
		return common.Hash{}, nil, fmt.Errorf("%w: stack/incremental root mismatch", ErrRootMismatch)
	}
	return root, &ReceiptsTrie{tr: tr}, nil
}

// Prove returns the self-contained witness for txIndex: a mapping from each
// visited node's reference (hash or inline bytes, as a string key) to its
// encoded RLP bytes, sufficient to verify inclusion against the trie's root
// without the rest of the trie.
func (rt *ReceiptsTrie) Prove(txIndex uint64) (map[string][]byte, error) {
	key := EncodeTxIndexKey(txIndex)
	proofDB := memorydb.New()
	if err := rt.tr.Prove(key, proofDB); err != nil {
		return nil, fmt.Errorf("%w: prove tx_index %d: %v", ErrProof, txIndex, err)
	}
	return drainMemoryDB(proofDB), nil
}

// Root returns the trie's current root hash.
func (rt *ReceiptsTrie) Root() common.Hash { return rt.tr.Hash() }

// VerifyReceiptProof reports whether proof is a valid witness that the
// receipt at txIndex, with encoded bytes receiptBytes, is included in the
// trie with the given root. It fails with ErrProof on a missing node,
// reference mismatch, or path divergence.
func VerifyReceiptProof(root common.Hash, txIndex uint64, receiptBytes []byte, proof map[string][]byte) (bool, error) {
	key := EncodeTxIndexKey(txIndex)
	proofDB := fillMemoryDB(proof)
	value, err := trie.VerifyProof(root, key, proofDB)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrProof, err)
	}
	if string(value) != string(receiptBytes) {
		return false, fmt.Errorf("%w: leaf value mismatch for tx_index %d", ErrProof, txIndex)
	}
	return true, nil
}

// drainMemoryDB copies every key/value pair out of a memorydb.Database into
// a plain map, giving callers a serializable, dependency-free witness.
func drainMemoryDB(db *memorydb.Database) map[string][]byte {
	out := make(map[string][]byte)
	it := db.NewIterator(nil, nil)
	defer it.Release()
	for it.Next() {
		key := append([]byte(nil), it.Key()...)
		val := append([]byte(nil), it.Value()...)
		out[string(key)] = val
	}
	return out
}

// fillMemoryDB rehydrates a witness map into a memorydb.Database so it can
// be consumed by trie.VerifyProof, which expects an ethdb.KeyValueReader.
func fillMemoryDB(proof map[string][]byte) *memorydb.Database {
	db := memorydb.New()
	for k, v := range proof {
		_ = db.Put([]byte(k), v)
	}
	return db
}
