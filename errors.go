package phicrypt

import (
	"errors"
)

var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid encryption configuration")

	// Crypto errors
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")
	ErrKeyExhausted         = errors.New("no configured key can decrypt this envelope")
	ErrInvalidEnvelope      = errors.New("invalid envelope encoding")

	// Password hashing errors
	ErrInvalidPasswordHash = errors.New("invalid password hash encoding")
)

// IsConfigurationError returns true if the error represents a configuration problem.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsAuthenticationError returns true if the error represents an AEAD tag
// verification failure for a single key. Wrong key, corrupted ciphertext and
// deliberate tampering are indistinguishable here; the rotation coordinator
// is the only caller that should branch on this.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}

// IsKeyExhaustionError returns true if the error means every configured key
// was tried and none could decrypt the envelope. This is terminal: retrying
// with the same inputs cannot change the outcome.
func IsKeyExhaustionError(err error) bool {
	return errors.Is(err, ErrKeyExhausted)
}
