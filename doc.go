// Package phicrypt is the cryptographic protection layer for field-level
// health data: versioned envelope encryption, online key rotation, startup
// configuration validation, hash-chain primitives for tamper-evident audit
// logging, and password hashing for the authentication flow.
//
// # Envelope encryption
//
// Values are sealed with AES-256-GCM and carried in a versioned envelope of
// hex-encoded ciphertext, nonce and tag plus the producing key's version:
//
//	cfg := phicrypt.LoadConfigFromEnvironment()
//	keys, err := phicrypt.NewKeyManager(cfg)
//	cipher := phicrypt.NewEnvelopeCipher(keys)
//
//	env, err := cipher.Encrypt("123-45-6789")
//
// Keys are derived once at startup from the configured secrets
// (ENCRYPTION_KEY, optionally ENCRYPTION_KEY_PREVIOUS and
// ENCRYPTION_KEY_VERSION) through a deterministic Argon2id KDF and held in an
// immutable KeyManager for the process lifetime.
//
// # Key rotation
//
// Rotation is a restart, not a runtime mutation: the operator moves the
// current secret into the previous slot, installs a new secret, bumps the
// version and restarts. During the window the coordinator decrypts with
// either key and the migration job moves stored envelopes to the new one:
//
//	coordinator := phicrypt.NewKeyRotationCoordinator(keys, cipher)
//	plaintext, err := coordinator.DecryptWithFallback(env)
//	fresh, err := coordinator.ReEncrypt(env)
//
// Once every envelope is re-encrypted the previous slot is removed and the
// window closes.
//
// # Tamper-evident logging
//
// Hash and ChainHash are the building blocks of an append-only audit ledger:
// each record's chain hash folds in its predecessor's, so rewriting history
// is detectable. The audit subpackage provides a complete SQLite-backed
// ledger and verifier built on these primitives.
//
// # Startup validation
//
// ConfigValidator reports misconfiguration as data, never as a thrown error,
// so each environment can pick its own fail-open or fail-closed policy.
package phicrypt
