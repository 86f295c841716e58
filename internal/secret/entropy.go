package secret

import (
	"crypto/rand"
	"io"
)

// Reader is the cryptographically secure random number generator.
// Tests may swap it for a deterministic reader; production code must not.
//
//nolint:gochecknoglobals // Package-level RNG is required for testability
var Reader io.Reader = rand.Reader

// SecureRandomBytes generates random bytes directly into locked memory.
func SecureRandomBytes(n int) (*SecureBytes, error) {
	sb := NewSecureBytes(n)
	if _, err := io.ReadFull(Reader, sb.Bytes()); err != nil {
		sb.Destroy()
		return nil, err
	}
	return sb, nil
}
