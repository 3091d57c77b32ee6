package phicrypt_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careward/phicrypt"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv(phicrypt.EnvEncryptionKey, "current-from-env")
	t.Setenv(phicrypt.EnvEncryptionKeyPrevious, "previous-from-env")
	t.Setenv(phicrypt.EnvEncryptionKeyVersion, "3")

	cfg := phicrypt.LoadConfigFromEnvironment()
	assert.False(t, cfg.CurrentSecret.IsZero())
	assert.False(t, cfg.PreviousSecret.IsZero())
	assert.Equal(t, "3", cfg.Version)
}

func TestLoadConfigFromEnvironmentUnset(t *testing.T) {
	os.Unsetenv(phicrypt.EnvEncryptionKey)
	os.Unsetenv(phicrypt.EnvEncryptionKeyPrevious)
	os.Unsetenv(phicrypt.EnvEncryptionKeyVersion)

	cfg := phicrypt.LoadConfigFromEnvironment()
	assert.True(t, cfg.CurrentSecret.IsZero())
	assert.True(t, cfg.PreviousSecret.IsZero())
	assert.Empty(t, cfg.Version)
}

// stubSource is a SecretSource over a fixed map.
type stubSource struct {
	values map[string]string
	err    error
}

func (s *stubSource) GetSecret(_ context.Context, name string) (phicrypt.KeySecret, error) {
	if s.err != nil {
		return phicrypt.KeySecret{}, s.err
	}
	return phicrypt.NewKeySecret(s.values[name]), nil
}

func (s *stubSource) GetValue(_ context.Context, name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[name], nil
}

func TestLoadConfigFromSource(t *testing.T) {
	source := &stubSource{values: map[string]string{
		phicrypt.EnvEncryptionKey:        "vault-held-current",
		phicrypt.EnvEncryptionKeyVersion: "5",
	}}

	cfg, err := phicrypt.LoadConfig(context.Background(), source)
	require.NoError(t, err)
	assert.False(t, cfg.CurrentSecret.IsZero())
	assert.True(t, cfg.PreviousSecret.IsZero())
	assert.Equal(t, "5", cfg.Version)

	keys, err := phicrypt.NewKeyManager(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, keys.CurrentVersion())
}

func TestLoadConfigSourceFailure(t *testing.T) {
	source := &stubSource{err: errors.New("vault sealed")}
	_, err := phicrypt.LoadConfig(context.Background(), source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault sealed")
}

func TestConfigZero(t *testing.T) {
	cfg := phicrypt.Config{
		CurrentSecret:  phicrypt.NewKeySecret("a"),
		PreviousSecret: phicrypt.NewKeySecret("b"),
	}
	cfg.Zero()
	assert.True(t, cfg.CurrentSecret.IsZero())
	assert.True(t, cfg.PreviousSecret.IsZero())
}
