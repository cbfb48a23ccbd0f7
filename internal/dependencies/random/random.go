package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Between returns a random int64 in [min, max]
	Between(min, max int64) int64
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.int63n(int64(n)))
}

// Between returns a cryptographically random int64 in [min, max]
func (r *CryptoRandom) Between(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + r.int63n(max-min+1)
}

func (r *CryptoRandom) int63n(n int64) int64 {
	result, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		// Fall back to 0 on error (should never happen with crypto/rand)
		return 0
	}
	return result.Int64()
}
