package phicrypt

import (
	"context"
	"fmt"
	"os"
)

// Config holds the raw encryption configuration for one process. It contains
// only data: load it from the environment, from a SecretSource, or construct
// it directly in tests, then pass it to NewKeyManager and ValidateConfig.
//
// Version is kept as the raw string so the validator can warn about
// non-numeric values while KeyManager still falls back to the default.
type Config struct {
	// CurrentSecret is the required active secret (ENCRYPTION_KEY).
	CurrentSecret KeySecret

	// PreviousSecret is the optional retiring secret
	// (ENCRYPTION_KEY_PREVIOUS), set only during a rotation window.
	PreviousSecret KeySecret

	// Version is the raw ENCRYPTION_KEY_VERSION value.
	Version string
}

// Zero wipes both secrets.
func (c *Config) Zero() {
	c.CurrentSecret.Zero()
	c.PreviousSecret.Zero()
}

// LoadConfigFromEnvironment reads the three encryption variables from the
// process environment. It never fails: a missing current secret is reported
// by ValidateConfig and by NewKeyManager, so the caller can decide between
// log-and-continue and abort.
func LoadConfigFromEnvironment() Config {
	return Config{
		CurrentSecret:  NewKeySecret(os.Getenv(EnvEncryptionKey)),
		PreviousSecret: NewKeySecret(os.Getenv(EnvEncryptionKeyPrevious)),
		Version:        os.Getenv(EnvEncryptionKeyVersion),
	}
}

// SecretSource abstracts where the provisioned secrets live: plain
// environment variables, a .env file, or a Vault KV mount. Implementations
// return the zero KeySecret (not an error) for names that are simply not
// configured, since the previous-key slot is legitimately absent outside
// rotation windows.
type SecretSource interface {
	// GetSecret fetches the named secret.
	GetSecret(ctx context.Context, name string) (KeySecret, error)
	// GetValue fetches a non-secret configuration value by name.
	GetValue(ctx context.Context, name string) (string, error)
}

// LoadConfig assembles a Config from a SecretSource using the standard
// configuration names.
func LoadConfig(ctx context.Context, source SecretSource) (Config, error) {
	current, err := source.GetSecret(ctx, EnvEncryptionKey)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", EnvEncryptionKey, err)
	}
	previous, err := source.GetSecret(ctx, EnvEncryptionKeyPrevious)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", EnvEncryptionKeyPrevious, err)
	}
	version, err := source.GetValue(ctx, EnvEncryptionKeyVersion)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", EnvEncryptionKeyVersion, err)
	}
	return Config{
		CurrentSecret:  current,
		PreviousSecret: previous,
		Version:        version,
	}, nil
}
