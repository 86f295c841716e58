package verify

import "lukechampine.com/frand"

// Source supplies uniform random integers in [0, n). Build never calls
// Intn with n <= 0.
//
// *math/rand.Rand satisfies Source, which lets tests replay a seed.
type Source interface {
	Intn(n int) int
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	return frand.Intn(n)
}

// NewCryptoSource returns a Source backed by a CSPRNG.
func NewCryptoSource() Source {
	return cryptoSource{}
}
