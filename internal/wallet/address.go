package wallet

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// IsValidAddress checks for a 0x-prefixed 40 hex character address.
// It does not validate the checksum.
func IsValidAddress(address string) bool {
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return false
	}
	return isHexString(address[2:])
}

// ToChecksumAddress converts an address to EIP-55 mixed-case form.
// Invalid input is returned unchanged.
func ToChecksumAddress(address string) string {
	if !IsValidAddress(address) {
		return address
	}

	addr := strings.ToLower(address[2:])

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(addr))
	hash := hex.EncodeToString(hasher.Sum(nil))

	result := make([]byte, 42)
	result[0] = '0'
	result[1] = 'x'

	for i := 0; i < 40; i++ {
		c := addr[i]
		if hash[i] >= '8' && c >= 'a' && c <= 'f' {
			result[i+2] = c - 32
		} else {
			result[i+2] = c
		}
	}

	return string(result)
}

// ValidateChecksumAddress accepts all-lowercase and all-uppercase addresses;
// mixed case must carry a correct EIP-55 checksum.
func ValidateChecksumAddress(address string) error {
	if !IsValidAddress(address) {
		return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"address": address,
		})
	}

	body := address[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}

	if expected := ToChecksumAddress(address); address != expected {
		return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"reason":   "checksum mismatch",
			"expected": expected,
		})
	}

	return nil
}

// isHexString checks if a string contains only hex characters.
func isHexString(s string) bool {
	for _, c := range s {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
	}
	return true
}
