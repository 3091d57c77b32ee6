package phicrypt

// Environment variable names
const (
	// EnvEncryptionKey is the environment variable holding the current
	// encryption secret. Required for any encrypt or decrypt operation.
	EnvEncryptionKey = "ENCRYPTION_KEY"

	// EnvEncryptionKeyVersion is the environment variable holding the
	// version number stamped on new envelopes. Optional, defaults to 1.
	EnvEncryptionKeyVersion = "ENCRYPTION_KEY_VERSION"

	// EnvEncryptionKeyPrevious is the environment variable holding the
	// retiring secret. Set only during a rotation window so envelopes
	// written under the old key stay readable while they are migrated.
	EnvEncryptionKeyPrevious = "ENCRYPTION_KEY_PREVIOUS"
)

// Cipher geometry
const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// NonceSize is the GCM nonce length in bytes. 128-bit nonces match the
	// envelopes written by earlier deployments, so this cannot change
	// without breaking decryption of stored data.
	NonceSize = 16

	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

const (
	// MinSecretLength is the minimum secret length below which the config
	// validator emits a warning.
	MinSecretLength = 32

	// DefaultKeyVersion is used when ENCRYPTION_KEY_VERSION is unset or
	// not a positive integer.
	DefaultKeyVersion = 1
)

// kdfSalt is the fixed application-wide KDF salt. It is shared by every
// derived key on purpose: the same secret must always derive the same key or
// stored ciphertexts become unreadable. Changing this value is equivalent to
// rotating every key at once. See DESIGN.md for the trade-off discussion.
var kdfSalt = []byte("phicrypt/kdf/v1")

// KDF cost parameters. These are frozen independently of Argon2Params:
// changing any of them changes every derived key, so they may only move as
// part of a coordinated rotation.
const (
	kdfIterations  = 3
	kdfMemory      = 64 * 1024 // KiB
	kdfParallelism = 2
)

// defaultPlaceholderSecrets are example values that ship in documentation and
// sample .env files. The config validator warns when the configured secret
// matches one of these, case-insensitively, exactly or as a prefix.
var defaultPlaceholderSecrets = []string{
	"change-me",
	"changeme",
	"your-encryption-key",
	"your-secret-key",
	"example",
	"secret",
	"password",
	"dev-key",
	"test-key",
	"placeholder",
}
