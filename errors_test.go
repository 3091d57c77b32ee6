package phicrypt_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careward/phicrypt"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		isConf bool
		isAuth bool
		isExh  bool
	}{
		{
			name:   "configuration",
			err:    fmt.Errorf("%w: ENCRYPTION_KEY is not set", phicrypt.ErrInvalidConfiguration),
			isConf: true,
		},
		{
			name:   "authentication",
			err:    fmt.Errorf("%w (key version 2 on envelope)", phicrypt.ErrAuthenticationFailed),
			isAuth: true,
		},
		{
			name:  "exhaustion",
			err:   fmt.Errorf("%w: both keys failed", phicrypt.ErrKeyExhausted),
			isExh: true,
		},
		{
			name: "unrelated",
			err:  errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConf, phicrypt.IsConfigurationError(tt.err))
			assert.Equal(t, tt.isAuth, phicrypt.IsAuthenticationError(tt.err))
			assert.Equal(t, tt.isExh, phicrypt.IsKeyExhaustionError(tt.err))
		})
	}
}

func TestExhaustionIsNotAuthentication(t *testing.T) {
	// The coordinator absorbs per-key authentication failures and surfaces
	// only exhaustion; the two must stay distinct for callers.
	err := fmt.Errorf("%w: both keys failed", phicrypt.ErrKeyExhausted)
	assert.False(t, phicrypt.IsAuthenticationError(err))
}
