package core

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// KVStore is the minimal persistence capability the draft-tx service needs.
// Kept identical in shape to the cross-chain bridge module's own KVStore so
// the same in-memory and on-disk backends can serve either.
type KVStore interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Iterator(prefix []byte) Iterator
}

// Iterator walks a KVStore's key space in lexicographic order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// InMemoryStore is a process-local KVStore backed by a map, used by tests
// and single-node deployments. Matches the cross-chain module's
// InMemoryStore.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemoryStore returns an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string][]byte)}
}

func (s *InMemoryStore) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[string(key)] = cp
	return nil
}

func (s *InMemoryStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (s *InMemoryStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
	return nil
}

func (s *InMemoryStore) Iterator(prefix []byte) Iterator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{store: s, keys: keys, idx: -1}
}

type memIterator struct {
	store *InMemoryStore
	keys  []string
	idx   int
}

func (it *memIterator) Next() bool {
	it.idx++
	return it.idx < len(it.keys)
}

func (it *memIterator) Key() []byte { return []byte(it.keys[it.idx]) }

func (it *memIterator) Value() []byte {
	it.store.mu.RLock()
	defer it.store.mu.RUnlock()
	return it.store.data[it.keys[it.idx]]
}

func (it *memIterator) Error() error { return nil }
func (it *memIterator) Close() error { return nil }

// DraftTxService is the per-process store of swap-related state named in
// the external interfaces section: draft transactions, block signatures
// keyed by (swap_id, block_number), and notary signatures keyed by
// swap_id. It is a capability passed explicitly into a SwapMachine, never a
// package-level singleton, per the "global state" design note.
type DraftTxService struct {
	store KVStore
	log   *zap.SugaredLogger

	mu    sync.Mutex
	locks map[SwapID]*sync.Mutex
}

// NewDraftTxService wraps store with the namespacing and per-swap
// serialization the state machine relies on.
func NewDraftTxService(store KVStore) *DraftTxService {
	return &DraftTxService{
		store: store,
		log:   zap.L().Sugar(),
		locks: make(map[SwapID]*sync.Mutex),
	}
}

// SwapLock returns the mutex serializing all tasks for swapID, creating one
// on first use. Every SwapMachine transition for a given swap holds this
// lock for its duration.
func (s *DraftTxService) SwapLock(swapID SwapID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[swapID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[swapID] = l
	}
	return l
}

func draftKey(swapID SwapID) []byte {
	return []byte(fmt.Sprintf("draft/%s", common.Hash(swapID).Hex()))
}

func blockSigKey(swapID SwapID, blockNumber uint64) []byte {
	return []byte(fmt.Sprintf("blocksig/%s/%d", common.Hash(swapID).Hex(), blockNumber))
}

func notarySigKey(swapID SwapID) []byte {
	return []byte(fmt.Sprintf("notarysig/%s", common.Hash(swapID).Hex()))
}

// PutDraft persists a draft transaction.
func (s *DraftTxService) PutDraft(draft DraftSwapTx) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%w: marshal draft: %v", ErrCodec, err)
	}
	if err := s.store.Set(draftKey(draft.DraftID), raw); err != nil {
		return err
	}
	s.log.Debugw("draft persisted", "swap_id", draft.DraftID.Hex())
	return nil
}

// GetDraft loads a previously persisted draft transaction.
func (s *DraftTxService) GetDraft(swapID SwapID) (DraftSwapTx, error) {
	raw, err := s.store.Get(draftKey(swapID))
	if err != nil {
		return DraftSwapTx{}, ErrNotFound
	}
	var draft DraftSwapTx
	if err := json.Unmarshal(raw, &draft); err != nil {
		return DraftSwapTx{}, fmt.Errorf("%w: unmarshal draft: %v", ErrCodec, err)
	}
	return draft, nil
}

// AppendBlockSignature appends an oracle signature over a given block to
// the swap's accumulated set. Appends are additive; readers tolerate
// partial sets.
func (s *DraftTxService) AppendBlockSignature(swapID SwapID, blockNumber uint64, sig []byte) error {
	key := blockSigKey(swapID, blockNumber)
	sigs, _ := s.loadSigs(key)
	sigs = append(sigs, sig)
	return s.storeSigs(key, sigs)
}

// BlockSignatures returns the signatures collected so far for
// (swapID, blockNumber).
func (s *DraftTxService) BlockSignatures(swapID SwapID, blockNumber uint64) [][]byte {
	sigs, _ := s.loadSigs(blockSigKey(swapID, blockNumber))
	return sigs
}

// AppendNotarySignature appends a notary signature over the local draft
// transaction to the swap's accumulated set.
func (s *DraftTxService) AppendNotarySignature(swapID SwapID, sig []byte) error {
	key := notarySigKey(swapID)
	sigs, _ := s.loadSigs(key)
	sigs = append(sigs, sig)
	return s.storeSigs(key, sigs)
}

// NotarySignatures returns the notary signatures collected so far for swapID.
func (s *DraftTxService) NotarySignatures(swapID SwapID) [][]byte {
	sigs, _ := s.loadSigs(notarySigKey(swapID))
	return sigs
}

func (s *DraftTxService) loadSigs(key []byte) ([][]byte, error) {
	raw, err := s.store.Get(key)
	if err != nil {
		return nil, nil
	}
	var sigs [][]byte
	if err := json.Unmarshal(raw, &sigs); err != nil {
		return nil, fmt.Errorf("%w: unmarshal signatures: %v", ErrCodec, err)
	}
	return sigs, nil
}

func (s *DraftTxService) storeSigs(key []byte, sigs [][]byte) error {
	raw, err := json.Marshal(sigs)
	if err != nil {
		return fmt.Errorf("%w: marshal signatures: %v", ErrCodec, err)
	}
	return s.store.Set(key, raw)
}

// FileStore is a KVStore backed by a directory of hex-named files, for
// node deployments that need the draft-tx service's state to survive a
// restart. Keys are hex-encoded to make every key a valid filename
// regardless of the '/' separators draftKey/blockSigKey/notarySigKey use.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir, which must already exist.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) pathFor(key []byte) string {
	return filepath.Join(f.dir, hex.EncodeToString(key))
}

func (f *FileStore) Set(key, value []byte) error {
	return os.WriteFile(f.pathFor(key), value, 0o600)
}

func (f *FileStore) Get(key []byte) ([]byte, error) {
	data, err := os.ReadFile(f.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (f *FileStore) Delete(key []byte) error {
	err := os.Remove(f.pathFor(key))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Iterator walks every file in the store directory whose decoded key has
// the given prefix.
func (f *FileStore) Iterator(prefix []byte) Iterator {
	entries, _ := os.ReadDir(f.dir)
	var keys [][]byte
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, err := hex.DecodeString(e.Name())
		if err != nil {
			continue
		}
		if len(key) >= len(prefix) && string(key[:len(prefix)]) == string(prefix) {
			keys = append(keys, key)
		}
	}
	return &fileIterator{store: f, keys: keys, idx: -1}
}

type fileIterator struct {
	store *FileStore
	keys  [][]byte
	idx   int
}

func (it *fileIterator) Next() bool {
	it.idx++
	return it.idx < len(it.keys)
}

func (it *fileIterator) Key() []byte { return it.keys[it.idx] }

func (it *fileIterator) Value() []byte {
	v, _ := it.store.Get(it.keys[it.idx])
	return v
}

func (it *fileIterator) Error() error { return nil }
func (it *fileIterator) Close() error { return nil }
