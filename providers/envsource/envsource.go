// Package envsource provides the default SecretSource: plain process
// environment variables, optionally seeded from .env files for local
// development.
package envsource

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/careward/phicrypt"
)

// Source reads secrets and values from the process environment.
type Source struct{}

// New creates an environment source. Any given .env files are loaded first;
// variables already present in the environment win, matching godotenv's
// default behavior.
func New(envFiles ...string) (*Source, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}
	return &Source{}, nil
}

// GetSecret returns the named variable as a KeySecret. Unset variables yield
// the zero KeySecret.
func (s *Source) GetSecret(_ context.Context, name string) (phicrypt.KeySecret, error) {
	return phicrypt.NewKeySecret(os.Getenv(name)), nil
}

// GetValue returns the named variable as a plain string.
func (s *Source) GetValue(_ context.Context, name string) (string, error) {
	return os.Getenv(name), nil
}
