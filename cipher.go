package phicrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// EnvelopeCipher performs authenticated encryption and decryption of field
// values using AES-256-GCM with 128-bit nonces and 128-bit tags. It holds no
// mutable state: every call draws its own nonce, so concurrent Encrypt and
// Decrypt calls need no coordination.
type EnvelopeCipher struct {
	keys *KeyManager
	rand io.Reader
}

// NewEnvelopeCipher creates a cipher bound to the process key material.
func NewEnvelopeCipher(keys *KeyManager, opts ...CipherOption) *EnvelopeCipher {
	c := &EnvelopeCipher{
		keys: keys,
		rand: rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encrypt seals plaintext under the current key with a fresh random nonce and
// stamps the envelope with the current key version. The same plaintext
// encrypted twice yields different nonces and different ciphertexts.
func (c *EnvelopeCipher) Encrypt(plaintext string) (Envelope, error) {
	aead, err := newAEAD(c.keys.CurrentKey())
	if err != nil {
		return Envelope{}, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return Envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the tag to the ciphertext; the envelope carries them as
	// separate fields, matching what the storage layer already holds.
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(sealed) - TagSize

	return Envelope{
		Ciphertext: hex.EncodeToString(sealed[:split]),
		IV:         hex.EncodeToString(nonce),
		Tag:        hex.EncodeToString(sealed[split:]),
		KeyVersion: c.keys.CurrentVersion(),
	}, nil
}

// Decrypt opens the envelope under the given key, verifying the tag before
// releasing any plaintext. A failed verification returns
// ErrAuthenticationFailed whether the cause is a wrong key, corrupted
// ciphertext or tampering; callers other than the rotation coordinator must
// not branch on the distinction.
func (c *EnvelopeCipher) Decrypt(env Envelope, key Key) (string, error) {
	ciphertext, iv, tag, err := env.decode()
	if err != nil {
		return "", err
	}

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w (key version %d on envelope)", ErrAuthenticationFailed, env.KeyVersion)
	}
	return string(plaintext), nil
}

func newAEAD(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
