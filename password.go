package phicrypt

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// PasswordHasher provides one-way, adaptively-costly password storage for the
// authentication flow. It is independent of the envelope key material: no
// KeyManager is involved, and each hash carries its own random salt.
type PasswordHasher struct {
	params *Argon2Params
}

// NewPasswordHasher creates a hasher with the default cost parameters.
func NewPasswordHasher(opts ...HasherOption) *PasswordHasher {
	h := &PasswordHasher{params: DefaultArgon2Params()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash derives an Argon2id hash of password with a fresh random salt and
// encodes parameters, salt and digest into a single string:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
//
// Two calls on the same password produce different outputs (different salts)
// that both verify.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// Verify recomputes the hash of password using the parameters and salt
// embedded in encoded and compares digests in constant time. It returns an
// error only for malformed encodings; a wrong password is (false, nil).
func (h *PasswordHasher) Verify(password string, encoded string) (bool, error) {
	params, salt, digest, err := decodePasswordHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(
		[]byte(password),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		uint32(len(digest)),
	)
	return subtle.ConstantTimeCompare(candidate, digest) == 1, nil
}

func decodePasswordHash(encoded string) (*Argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf("%w: expected $argon2id$v=...$m=...,t=...,p=...$salt$hash", ErrInvalidPasswordHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad version segment", ErrInvalidPasswordHash)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrInvalidPasswordHash, version)
	}

	params := &Argon2Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad parameter segment", ErrInvalidPasswordHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad salt encoding", ErrInvalidPasswordHash)
	}
	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad hash encoding", ErrInvalidPasswordHash)
	}
	return params, salt, digest, nil
}
