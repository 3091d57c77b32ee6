package phicrypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careward/phicrypt"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	secret := phicrypt.NewKeySecret("the-same-secret-every-time")

	k1 := phicrypt.DeriveKey(secret)
	k2 := phicrypt.DeriveKey(secret)
	assert.Equal(t, k1, k2, "the same secret must always derive the same key")
}

func TestDeriveKeyDistinctSecrets(t *testing.T) {
	k1 := phicrypt.DeriveKey(phicrypt.NewKeySecret("secret-one"))
	k2 := phicrypt.DeriveKey(phicrypt.NewKeySecret("secret-two"))
	assert.NotEqual(t, k1, k2)
}

func TestNewKeyManagerRequiresCurrentSecret(t *testing.T) {
	_, err := phicrypt.NewKeyManager(phicrypt.Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, phicrypt.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), phicrypt.EnvEncryptionKey)
}

func TestKeyManagerVersionDefaults(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    int
	}{
		{name: "unset", version: "", want: 1},
		{name: "valid", version: "7", want: 7},
		{name: "non-numeric", version: "banana", want: 1},
		{name: "zero", version: "0", want: 1},
		{name: "negative", version: "-2", want: 1},
		{name: "whitespace", version: "  4  ", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := phicrypt.NewKeyManager(phicrypt.Config{
				CurrentSecret: phicrypt.NewKeySecret("some-test-secret"),
				Version:       tt.version,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys.CurrentVersion())
		})
	}
}

func TestKeyManagerPreviousKey(t *testing.T) {
	withPrevious, err := phicrypt.NewKeyManager(phicrypt.Config{
		CurrentSecret:  phicrypt.NewKeySecret("current-secret"),
		PreviousSecret: phicrypt.NewKeySecret("previous-secret"),
	})
	require.NoError(t, err)
	prev, ok := withPrevious.PreviousKey()
	assert.True(t, ok)
	assert.True(t, withPrevious.HasPreviousKey())
	assert.NotEqual(t, withPrevious.CurrentKey(), prev)

	withoutPrevious, err := phicrypt.NewKeyManager(phicrypt.Config{
		CurrentSecret: phicrypt.NewKeySecret("current-secret"),
	})
	require.NoError(t, err)
	_, ok = withoutPrevious.PreviousKey()
	assert.False(t, ok)
	assert.False(t, withoutPrevious.HasPreviousKey())
}

func TestKeyManagerZero(t *testing.T) {
	keys, err := phicrypt.NewKeyManager(phicrypt.Config{
		CurrentSecret:  phicrypt.NewKeySecret("current-secret"),
		PreviousSecret: phicrypt.NewKeySecret("previous-secret"),
	})
	require.NoError(t, err)

	keys.Zero()
	assert.Equal(t, phicrypt.Key{}, keys.CurrentKey())
	assert.False(t, keys.HasPreviousKey())
}

func TestParseKeyVersion(t *testing.T) {
	assert.Equal(t, 1, phicrypt.ParseKeyVersion(""))
	assert.Equal(t, 1, phicrypt.ParseKeyVersion("not-a-number"))
	assert.Equal(t, 1, phicrypt.ParseKeyVersion("0"))
	assert.Equal(t, 12, phicrypt.ParseKeyVersion("12"))
}
