package core

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverSigner recovers the address that produced sig over digest. sig must
// be the 65-byte [R || S || V] form crypto.Sign returns. This is the same
// recovery path the local transaction pool's threshold-signature check
// uses: SigToPub followed by VerifySignature against the recovered key.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("%w: signature must be 65 bytes, got %d", ErrCodec, len(sig))
	}
	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: recover pubkey: %v", ErrCodec, err)
	}
	if !crypto.VerifySignature(crypto.FromECDSAPub(pub), digest.Bytes(), sig[:64]) {
		return common.Address{}, fmt.Errorf("%w: signature verification failed", ErrCodec)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// CountDistinctValidSignatures recovers the signer of each signature over
// digest, keeps only those belonging to an approved signer, and returns the
// count of distinct approved signers. Signature ordering is irrelevant;
// duplicate signatures from the same signer count once, matching the
// threshold tie-break rule.
func CountDistinctValidSignatures(digest common.Hash, sigs [][]byte, approved []common.Address) (int, error) {
	allowed := make(map[common.Address]bool, len(approved))
	for _, a := range approved {
		allowed[a] = true
	}
	seen := make(map[common.Address]bool)
	for _, sig := range sigs {
		signer, err := RecoverSigner(digest, sig)
		if err != nil {
			// A malformed signature is dropped rather than failing the
			// whole batch — the caller still gets to count the rest.
			continue
		}
		if allowed[signer] {
			seen[signer] = true
		}
	}
	return len(seen), nil
}

// MeetsThreshold reports whether sigs contains at least threshold distinct
// valid signatures over digest from members of approved.
func MeetsThreshold(digest common.Hash, sigs [][]byte, approved []common.Address, threshold uint64) (bool, error) {
	count, err := CountDistinctValidSignatures(digest, sigs, approved)
	if err != nil {
		return false, err
	}
	return uint64(count) >= threshold, nil
}
