// Package random generates short random strings for one-time values
// such as OAuth state tokens.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"time"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func init() {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		mrand.Seed(time.Now().UnixNano())
		return
	}
	mrand.Seed(int64(binary.LittleEndian.Uint64(seed[:])))
}

// String returns n characters drawn from a letters-and-digits alphabet.
// It prefers the system entropy source and falls back to the seeded
// math/rand generator if that source fails.
func String(n int) string {
	b := make([]byte, n)
	if _, err := crand.Read(b); err != nil {
		for i := range b {
			b[i] = alphabet[mrand.Intn(len(alphabet))]
		}
		return string(b)
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}
