package phicrypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careward/phicrypt"
)

func TestHash(t *testing.T) {
	h1 := phicrypt.Hash("record one")
	h2 := phicrypt.Hash("record one")
	h3 := phicrypt.Hash("record two")

	assert.Len(t, h1, 64, "sha256 hex digest")
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestChainHashDependsOnPrevious(t *testing.T) {
	a := phicrypt.ChainHash("same content", "")
	b := phicrypt.ChainHash("same content", a)
	assert.NotEqual(t, a, b, "chain hash must fold in the previous hash")
	assert.NotEqual(t, phicrypt.Hash("same content"), a,
		"chain hash differs from plain content hash even at genesis")
}

func TestVerifyChainIntact(t *testing.T) {
	d1, d2, d3 := "admit patient", "amend allergy list", "discharge patient"
	h1 := phicrypt.ChainHash(d1, "")
	h2 := phicrypt.ChainHash(d2, h1)
	h3 := phicrypt.ChainHash(d3, h2)

	result := phicrypt.VerifyChain([]phicrypt.ChainEntry{
		{Content: d1, ChainHash: h1},
		{Content: d2, ChainHash: h2},
		{Content: d3, ChainHash: h3},
	}, "")

	assert.True(t, result.Valid)
	assert.Equal(t, 3, result.CheckedRecords)
	assert.Equal(t, 3, result.TotalRecords)
	assert.Zero(t, result.FirstBreak)
}

func TestVerifyChainDetectsMutation(t *testing.T) {
	d1, d2, d3 := "admit patient", "amend allergy list", "discharge patient"
	h1 := phicrypt.ChainHash(d1, "")
	h2 := phicrypt.ChainHash(d2, h1)
	h3 := phicrypt.ChainHash(d3, h2)

	// Record 2 is rewritten after the fact; its stored hash no longer
	// matches, and record 1 still checks out.
	result := phicrypt.VerifyChain([]phicrypt.ChainEntry{
		{Content: d1, ChainHash: h1},
		{Content: "amend allergy list (doctored)", ChainHash: h2},
		{Content: d3, ChainHash: h3},
	}, "")

	assert.False(t, result.Valid)
	assert.Equal(t, 2, result.FirstBreak)
	assert.Equal(t, 2, result.CheckedRecords, "verification stops at the break")
	assert.Equal(t, 3, result.TotalRecords)
}

func TestVerifyChainDetectsRewrittenHash(t *testing.T) {
	result := phicrypt.VerifyChain([]phicrypt.ChainEntry{
		{Content: "admit patient", ChainHash: phicrypt.Hash("forged")},
	}, "")

	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.FirstBreak)
}

func TestVerifyChainEmpty(t *testing.T) {
	result := phicrypt.VerifyChain(nil, "")
	assert.True(t, result.Valid)
	assert.Zero(t, result.CheckedRecords)
	assert.Zero(t, result.FirstBreak)
}

func TestVerifyChainMidStream(t *testing.T) {
	// Verification can start from any known-good hash, not just genesis.
	d1, d2 := "first", "second"
	h1 := phicrypt.ChainHash(d1, "")
	h2 := phicrypt.ChainHash(d2, h1)

	result := phicrypt.VerifyChain([]phicrypt.ChainEntry{
		{Content: d2, ChainHash: h2},
	}, h1)
	assert.True(t, result.Valid)
}
