package phicrypt

import (
	"fmt"
)

// KeyRotationCoordinator makes key rotation transparent to data consumers.
// During a rotation window some stored envelopes are sealed under the current
// key and some under the previous one; the coordinator tries an explicit
// ordered list of key candidates rather than guessing from the envelope's
// (unauthenticated) version stamp.
type KeyRotationCoordinator struct {
	keys   *KeyManager
	cipher *EnvelopeCipher
}

// NewKeyRotationCoordinator wires the coordinator to the process key material
// and the cipher it delegates to.
func NewKeyRotationCoordinator(keys *KeyManager, cipher *EnvelopeCipher) *KeyRotationCoordinator {
	return &KeyRotationCoordinator{keys: keys, cipher: cipher}
}

type keySlot string

const (
	slotCurrent  keySlot = "current"
	slotPrevious keySlot = "previous"
)

type keyCandidate struct {
	slot keySlot
	key  Key
}

// candidates returns the keys to try, in order. The current key goes first:
// outside a rotation window it is the only entry, and mid-migration most
// records have already been re-encrypted under it.
func (r *KeyRotationCoordinator) candidates() []keyCandidate {
	out := []keyCandidate{{slot: slotCurrent, key: r.keys.CurrentKey()}}
	if prev, ok := r.keys.PreviousKey(); ok {
		out = append(out, keyCandidate{slot: slotPrevious, key: prev})
	}
	return out
}

// DecryptWithFallback attempts decryption with the current key, then with the
// previous key if one is configured. A tag failure on the current key is the
// normal signal during a rotation window, not an error, so it is absorbed
// here; only the terminal outcome surfaces.
//
// When every candidate fails the result is ErrKeyExhausted. When there is no
// previous key configured the message tells the operator which configuration
// slot to set, since that is the usual fix for data written before the last
// rotation.
func (r *KeyRotationCoordinator) DecryptWithFallback(env Envelope) (string, error) {
	cands := r.candidates()
	for _, cand := range cands {
		plaintext, err := r.cipher.Decrypt(env, cand.key)
		if err == nil {
			return plaintext, nil
		}
		if !IsAuthenticationError(err) {
			// Malformed envelope or cipher setup failure: trying another
			// key cannot help.
			return "", fmt.Errorf("%s key: %w", cand.slot, err)
		}
	}

	if len(cands) == 1 {
		return "", fmt.Errorf("%w: decryption failed with the current key and no previous key is configured; set %s if this data was encrypted before the last rotation",
			ErrKeyExhausted, EnvEncryptionKeyPrevious)
	}
	return "", fmt.Errorf("%w: decryption failed with both current and previous keys; data may have been encrypted under an unknown key",
		ErrKeyExhausted)
}

// ReEncrypt decrypts the envelope with whichever configured key opens it and
// seals the recovered plaintext under the current key, producing a new
// envelope stamped with the current version. The input envelope is never
// mutated; the caller (typically the batch migration job) overwrites the
// stored copy with the returned one.
func (r *KeyRotationCoordinator) ReEncrypt(env Envelope) (Envelope, error) {
	plaintext, err := r.DecryptWithFallback(env)
	if err != nil {
		return Envelope{}, err
	}
	return r.cipher.Encrypt(plaintext)
}
