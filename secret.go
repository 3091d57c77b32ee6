package phicrypt

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/careward/phicrypt/internal/security"
)

// KeySecret is an opaque wrapper around raw secret material. Secrets are kept
// as bytes, never exposed through String, GoString or JSON marshaling, and
// can be wiped with Zero. Code outside this package cannot read the value at
// all; it can only hand the secret to the key derivation function.
type KeySecret struct {
	value []byte
}

// NewKeySecret wraps a secret string. An empty string yields the zero
// KeySecret, which IsZero reports as absent.
func NewKeySecret(s string) KeySecret {
	if s == "" {
		return KeySecret{}
	}
	return KeySecret{value: []byte(s)}
}

// IsZero reports whether no secret is configured.
func (s KeySecret) IsZero() bool {
	return len(s.value) == 0
}

// Len returns the length of the underlying secret in bytes.
func (s KeySecret) Len() int {
	return len(s.value)
}

// Equal compares two secrets in constant time.
func (s KeySecret) Equal(other KeySecret) bool {
	return subtle.ConstantTimeCompare(s.value, other.value) == 1
}

// Zero wipes the underlying secret bytes. The KeySecret is unusable
// afterwards.
func (s *KeySecret) Zero() {
	security.ZeroBytes(s.value)
	s.value = nil
}

// String implements fmt.Stringer and always redacts.
func (s KeySecret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer so %#v does not leak either.
func (s KeySecret) GoString() string {
	return "phicrypt.KeySecret{[REDACTED]}"
}

// MarshalJSON redacts the secret. Accidentally serializing a config struct
// that embeds a KeySecret must never write key material.
func (s KeySecret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// reveal hands the raw bytes to package-internal consumers (the KDF and the
// config validator). Deliberately unexported.
func (s KeySecret) reveal() []byte {
	return s.value
}

// matchesPlaceholder reports whether the secret equals or starts with the
// given placeholder value, case-insensitively.
func (s KeySecret) matchesPlaceholder(placeholder string) bool {
	v := strings.ToLower(string(s.value))
	p := strings.ToLower(placeholder)
	return v == p || strings.HasPrefix(v, p)
}

// GenerateKeySecret returns a fresh random secret as a 64-character hex
// string, suitable for the ENCRYPTION_KEY configuration slot.
func GenerateKeySecret() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}
