package phicrypt

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationResult reports the outcome of startup configuration validation.
// It is data, never a thrown error: the embedding application decides whether
// warnings abort startup (production) or just get logged (development).
type ValidationResult struct {
	Valid          bool     `json:"valid"`
	Warnings       []string `json:"warnings"`
	Errors         []string `json:"errors"`
	KeyVersion     int      `json:"keyVersion"`
	HasPreviousKey bool     `json:"hasPreviousKey"`
}

// ConfigValidator checks encryption configuration at process startup.
// Validation never returns a Go error; every finding lands in the result.
type ConfigValidator struct {
	placeholders []string
}

// NewConfigValidator creates a validator with the built-in placeholder list.
func NewConfigValidator(opts ...ValidatorOption) *ConfigValidator {
	v := &ConfigValidator{placeholders: defaultPlaceholderSecrets}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate applies the startup rules to cfg. The only condition that makes
// the result invalid is a missing current secret; that case short-circuits,
// so the result carries exactly one error and no warnings. Everything else is
// a warning on an otherwise valid configuration.
func (v *ConfigValidator) Validate(cfg Config) ValidationResult {
	result := ValidationResult{
		Valid:    true,
		Warnings: []string{},
		Errors:   []string{},
	}

	if cfg.CurrentSecret.IsZero() {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s is not set; encryption and decryption are impossible", EnvEncryptionKey))
		return result
	}

	if cfg.CurrentSecret.Len() < MinSecretLength {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s is shorter than %d characters; use a longer random secret", EnvEncryptionKey, MinSecretLength))
	}

	for _, placeholder := range v.placeholders {
		if cfg.CurrentSecret.matchesPlaceholder(placeholder) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s looks like a default or example value (%q); replace it before handling real data", EnvEncryptionKey, placeholder))
			break
		}
	}

	result.KeyVersion = DefaultKeyVersion
	if raw := strings.TrimSpace(cfg.Version); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s is not a positive integer; defaulting to %d", EnvEncryptionKeyVersion, DefaultKeyVersion))
		} else {
			result.KeyVersion = parsed
		}
	}

	if !cfg.PreviousSecret.IsZero() {
		result.HasPreviousKey = true
		if cfg.PreviousSecret.Equal(cfg.CurrentSecret) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s equals %s and has no effect; remove it once rotation is complete", EnvEncryptionKeyPrevious, EnvEncryptionKey))
		}
	}

	return result
}
