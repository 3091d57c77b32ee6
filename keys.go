package phicrypt

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/careward/phicrypt/internal/security"
)

// Key is a derived 256-bit symmetric key.
type Key [KeySize]byte

// DeriveKey turns a secret into a fixed-length AES-256 key using Argon2id
// with the fixed application-wide salt. Derivation is deterministic: the same
// secret always yields the same key, which is what keeps stored ciphertexts
// decryptable across restarts and deployments.
//
// Argon2id is deliberately expensive. Call this once at startup (NewKeyManager
// does) and hold on to the result; never derive per request.
func DeriveKey(secret KeySecret) Key {
	raw := argon2.IDKey(secret.reveal(), kdfSalt, kdfIterations, kdfMemory, kdfParallelism, KeySize)
	var key Key
	copy(key[:], raw)
	security.ZeroBytes(raw)
	return key
}

// KeyManager holds the derived key material for the process lifetime. It is
// constructed once from configuration, is immutable afterwards, and is
// injected into EnvelopeCipher and KeyRotationCoordinator. Picking up new
// key material requires a process restart; there is no runtime mutation, so
// concurrent readers need no locking.
type KeyManager struct {
	current     Key
	previous    Key
	hasPrevious bool
	version     int
}

// NewKeyManager derives and caches the current key, the optional previous
// key, and the key version from cfg. It fails with ErrInvalidConfiguration
// when the required current secret is absent.
func NewKeyManager(cfg Config) (*KeyManager, error) {
	if cfg.CurrentSecret.IsZero() {
		return nil, fmt.Errorf("%w: %s is not set", ErrInvalidConfiguration, EnvEncryptionKey)
	}

	m := &KeyManager{
		current: DeriveKey(cfg.CurrentSecret),
		version: ParseKeyVersion(cfg.Version),
	}
	if !cfg.PreviousSecret.IsZero() {
		m.previous = DeriveKey(cfg.PreviousSecret)
		m.hasPrevious = true
	}
	return m, nil
}

// CurrentKey returns the key every new envelope is encrypted under.
func (m *KeyManager) CurrentKey() Key {
	return m.current
}

// PreviousKey returns the retiring key and whether one is configured. It is
// only populated during a rotation window.
func (m *KeyManager) PreviousKey() (Key, bool) {
	return m.previous, m.hasPrevious
}

// CurrentVersion returns the version number stamped on new envelopes.
func (m *KeyManager) CurrentVersion() int {
	return m.version
}

// HasPreviousKey reports whether a rotation window is open.
func (m *KeyManager) HasPreviousKey() bool {
	return m.hasPrevious
}

// Zero wipes the cached key material. Call at process shutdown; the manager
// is unusable afterwards.
func (m *KeyManager) Zero() {
	security.ZeroBytes(m.current[:])
	security.ZeroBytes(m.previous[:])
	m.hasPrevious = false
}

// ParseKeyVersion parses the raw ENCRYPTION_KEY_VERSION value, falling back
// to DefaultKeyVersion when it is unset or not a positive integer. The config
// validator surfaces the warning for the fallback case; this function stays
// silent so it can be called on every startup path.
func ParseKeyVersion(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultKeyVersion
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return DefaultKeyVersion
	}
	return v
}
