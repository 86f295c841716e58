package wallet

import "strings"

// InputFormat represents the detected format of import input.
type InputFormat int

const (
	// FormatUnknown indicates the input format could not be determined.
	FormatUnknown InputFormat = iota
	// FormatMnemonic indicates a BIP39 recovery phrase.
	FormatMnemonic
	// FormatPrivateKey indicates a hex-encoded private key.
	FormatPrivateKey
)

// String returns the string representation of the input format.
func (f InputFormat) String() string {
	switch f {
	case FormatMnemonic:
		return "mnemonic"
	case FormatPrivateKey:
		return "private-key"
	case FormatUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// MinImportWords is the shortest phrase the import screen accepts.
const MinImportWords = 12

// DetectInputFormat guesses whether import input is a phrase or a key so
// the user can paste either into the same prompt.
func DetectInputFormat(input string) InputFormat {
	input = strings.TrimSpace(input)
	if input == "" {
		return FormatUnknown
	}

	if privateKeyRegex.MatchString(input) {
		return FormatPrivateKey
	}

	words := ParsePhrase(input)
	if len(words) < MinImportWords {
		return FormatUnknown
	}

	// Most words being BIP39 words is enough; typos are reported later
	valid := 0
	for _, word := range words {
		if IsValidWord(word) {
			valid++
		}
	}
	if valid >= len(words)/2 {
		return FormatMnemonic
	}

	return FormatUnknown
}
