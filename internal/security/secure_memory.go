// Package security provides memory hygiene helpers for key material.
//
// Key material is held as []byte or fixed arrays, never string: Go strings
// are immutable and cannot be wiped. Call ZeroBytes on every buffer that held
// a secret before letting it go out of scope.
package security

import (
	"crypto/subtle"
	"runtime"
)

// ZeroBytes overwrites data so secret material does not linger in memory.
// Multiple passes with alternating patterns, then a final zero pass.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}

	patterns := []byte{0x00, 0xFF, 0xAA, 0x55}
	for _, pattern := range patterns {
		for i := range data {
			data[i] = pattern
		}
		// Compiler barrier to keep the writes from being optimized away.
		runtime.KeepAlive(data)
	}

	for i := range data {
		data[i] = 0
	}
	runtime.KeepAlive(data)
}

// ConstantTimeEq compares two byte slices in constant time.
func ConstantTimeEq(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
