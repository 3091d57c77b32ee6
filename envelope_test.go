package phicrypt_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careward/phicrypt"
)

func TestEnvelopeJSONRoundTrip(t *testing.T) {
	_, cipher := newTestCipher(t, "unit-test-secret-with-enough-length", "2")

	env, err := cipher.Encrypt("round trip me")
	require.NoError(t, err)

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"keyVersion":2`)

	parsed, err := phicrypt.ParseEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, env, parsed)
}

func TestParseLegacyEnvelope(t *testing.T) {
	// Pre-rotation rows used "encrypted" for the ciphertext and carried no
	// key version.
	keys, cipher := newTestCipher(t, "unit-test-secret-with-enough-length", "1")
	env, err := cipher.Encrypt("written by the old code")
	require.NoError(t, err)

	legacy := []byte(`{"encrypted":"` + env.Ciphertext + `","iv":"` + env.IV + `","tag":"` + env.Tag + `"}`)
	parsed, err := phicrypt.ParseEnvelope(legacy)
	require.NoError(t, err)

	assert.True(t, parsed.IsLegacy())
	assert.Equal(t, phicrypt.LegacyKeyVersion, parsed.KeyVersion)

	got, err := cipher.Decrypt(parsed, keys.CurrentKey())
	require.NoError(t, err)
	assert.Equal(t, "written by the old code", got)
}

func TestParseEnvelopeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "not json at all"},
		{name: "bad ciphertext hex", data: `{"ciphertext":"zz","iv":"` + strings.Repeat("00", 16) + `","tag":"` + strings.Repeat("00", 16) + `"}`},
		{name: "wrong iv length", data: `{"ciphertext":"ab","iv":"0011","tag":"` + strings.Repeat("00", 16) + `"}`},
		{name: "wrong tag length", data: `{"ciphertext":"ab","iv":"` + strings.Repeat("00", 16) + `","tag":"0011"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := phicrypt.ParseEnvelope([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestVersionedEnvelopeIsNotLegacy(t *testing.T) {
	_, cipher := newTestCipher(t, "unit-test-secret-with-enough-length", "1")
	env, err := cipher.Encrypt("x")
	require.NoError(t, err)
	assert.False(t, env.IsLegacy())
}
