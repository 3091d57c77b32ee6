package phicrypt

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Envelope is the versioned wire shape of one encrypted value: ciphertext,
// nonce and authentication tag as hex strings, plus the version of the key
// that produced it. The storage layer persists these fields verbatim and must
// hand the exact stored values back on read.
//
// KeyVersion is metadata: it identifies which key wrote the envelope but is
// not itself authenticated by the cipher. The rotation coordinator treats it
// as a hint only and relies on tag verification for the real answer.
type Envelope struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	Tag        string `json:"tag"`
	KeyVersion int    `json:"keyVersion"`
}

// LegacyKeyVersion marks envelopes parsed from the pre-rotation wire shape
// {encrypted, iv, tag}, which carried no explicit version. They decrypt
// through the normal fallback path and are re-stamped on re-encryption.
const LegacyKeyVersion = 0

// envelopeJSON accepts both the current and the legacy field layout.
type envelopeJSON struct {
	Ciphertext string `json:"ciphertext"`
	Encrypted  string `json:"encrypted"` // legacy name for ciphertext
	IV         string `json:"iv"`
	Tag        string `json:"tag"`
	KeyVersion int    `json:"keyVersion"`
}

// UnmarshalJSON parses an envelope, accepting the legacy unversioned shape
// {encrypted, iv, tag} alongside the current one. Legacy envelopes get
// KeyVersion set to LegacyKeyVersion.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw envelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	ciphertext := raw.Ciphertext
	if ciphertext == "" && raw.Encrypted != "" {
		ciphertext = raw.Encrypted
	}
	e.Ciphertext = ciphertext
	e.IV = raw.IV
	e.Tag = raw.Tag
	e.KeyVersion = raw.KeyVersion
	return nil
}

// ParseEnvelope decodes a serialized envelope in either wire shape and
// validates its field encodings.
func ParseEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, err
	}
	if _, _, _, err := e.decode(); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// IsLegacy reports whether the envelope came from the unversioned wire shape.
func (e Envelope) IsLegacy() bool {
	return e.KeyVersion == LegacyKeyVersion
}

// decode hex-decodes the envelope fields and checks their lengths.
func (e Envelope) decode() (ciphertext, iv, tag []byte, err error) {
	ciphertext, err = hex.DecodeString(e.Ciphertext)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: ciphertext is not valid hex", ErrInvalidEnvelope)
	}
	iv, err = hex.DecodeString(e.IV)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: iv is not valid hex", ErrInvalidEnvelope)
	}
	if len(iv) != NonceSize {
		return nil, nil, nil, fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidEnvelope, NonceSize, len(iv))
	}
	tag, err = hex.DecodeString(e.Tag)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: tag is not valid hex", ErrInvalidEnvelope)
	}
	if len(tag) != TagSize {
		return nil, nil, nil, fmt.Errorf("%w: tag must be %d bytes, got %d", ErrInvalidEnvelope, TagSize, len(tag))
	}
	return ciphertext, iv, tag, nil
}
