package phicrypt

import (
	"io"
)

// CipherOption configures an EnvelopeCipher.
type CipherOption func(*EnvelopeCipher)

// WithRandReader overrides the nonce source. Tests use this to make nonce
// handling observable; production code should leave the default
// (crypto/rand) alone.
func WithRandReader(r io.Reader) CipherOption {
	return func(c *EnvelopeCipher) {
		if r != nil {
			c.rand = r
		}
	}
}

// HasherOption configures a PasswordHasher.
type HasherOption func(*PasswordHasher)

// WithArgon2Params overrides the password hashing cost parameters. Existing
// hashes remain verifiable because the parameters travel inside the encoded
// hash string.
func WithArgon2Params(params *Argon2Params) HasherOption {
	return func(h *PasswordHasher) {
		if params != nil {
			h.params = params
		}
	}
}

// ValidatorOption configures a ConfigValidator.
type ValidatorOption func(*ConfigValidator)

// WithPlaceholderSecrets replaces the built-in list of example secrets the
// validator warns about.
func WithPlaceholderSecrets(placeholders []string) ValidatorOption {
	return func(v *ConfigValidator) {
		if len(placeholders) > 0 {
			v.placeholders = placeholders
		}
	}
}
