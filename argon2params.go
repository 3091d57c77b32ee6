package phicrypt

import (
	"fmt"

	"github.com/hengadev/errsx"
)

// Argon2Params defines the cost parameters for Argon2id password hashing.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the documented default cost for password
// hashing. The parameters travel inside every encoded hash, so raising the
// cost later does not invalidate existing hashes.
func DefaultArgon2Params() *Argon2Params {
	return &Argon2Params{
		Memory:      64 * 1024, // 64MB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Validate checks that the parameters are within acceptable ranges.
func (a *Argon2Params) Validate() error {
	errs := errsx.Map{}

	if a.Memory < 8192 {
		errs.Set("memory", fmt.Errorf("memory must be at least 8192 KiB, got %d", a.Memory))
	}
	if a.Iterations < 2 {
		errs.Set("iterations", fmt.Errorf("iterations must be at least 2, got %d", a.Iterations))
	}
	if a.Parallelism < 1 {
		errs.Set("parallelism", fmt.Errorf("parallelism must be at least 1, got %d", a.Parallelism))
	}
	if a.SaltLength < 16 {
		errs.Set("saltLength", fmt.Errorf("salt length must be at least 16 bytes, got %d", a.SaltLength))
	}
	if a.KeyLength < 32 {
		errs.Set("keyLength", fmt.Errorf("key length must be at least 32 bytes, got %d", a.KeyLength))
	}

	return errs.AsError()
}
