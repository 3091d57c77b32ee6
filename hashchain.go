package phicrypt

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 digest of content as a hex string. Used by the
// audit log for the per-record payload hash.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ChainHash returns the SHA-256 digest of previousHash + ":" + content as a
// hex string. Because each record's chain hash folds in the previous one,
// every entry is a function of all prior entries: mutating any historical
// record invalidates the chain from that point on.
func ChainHash(content string, previousHash string) string {
	sum := sha256.Sum256([]byte(previousHash + ":" + content))
	return hex.EncodeToString(sum[:])
}

// ChainEntry is one record as seen by the verifier: the serialized payload
// and the chain hash that was stored alongside it.
type ChainEntry struct {
	Content   string
	ChainHash string
}

// ChainVerification reports the result of walking a hash chain. FirstBreak is
// the 1-indexed position of the first record whose stored chain hash does not
// match the recomputation, or 0 when the chain is intact. Verification stops
// at the break; later records are unchecked because their expected hashes
// depend on the broken one.
type ChainVerification struct {
	Valid          bool `json:"valid"`
	CheckedRecords int  `json:"checkedRecords"`
	TotalRecords   int  `json:"totalRecords"`
	FirstBreak     int  `json:"firstBreak"`
}

// VerifyChain recomputes the chain over entries starting from genesisHash
// (the chain hash preceding the first entry, "" for a chain verified from its
// beginning) and compares each recomputed hash to the stored one.
func VerifyChain(entries []ChainEntry, genesisHash string) ChainVerification {
	previous := genesisHash
	for i, entry := range entries {
		if ChainHash(entry.Content, previous) != entry.ChainHash {
			return ChainVerification{
				Valid:          false,
				CheckedRecords: i + 1,
				TotalRecords:   len(entries),
				FirstBreak:     i + 1,
			}
		}
		previous = entry.ChainHash
	}
	return ChainVerification{
		Valid:          true,
		CheckedRecords: len(entries),
		TotalRecords:   len(entries),
	}
}
