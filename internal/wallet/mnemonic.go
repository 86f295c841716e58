// Package wallet provides the key material behind cwallet: BIP39 recovery
// phrase generation and validation, and deterministic derivation of EVM
// keys and addresses from a phrase or a raw private key.
//
// All cryptography is delegated to go-bip39, go-bip32 and go-ethereum.
package wallet

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"

	"github.com/mrz1836/cwallet/internal/secret"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// DefaultWordCount is the recovery phrase length used by the create flow.
const DefaultWordCount = 12

// MaxTypoDistance is the maximum Levenshtein distance to consider a suggestion.
const MaxTypoDistance = 2

var (
	// ErrInvalidWordCount indicates an unsupported phrase length was requested.
	ErrInvalidWordCount = walleterr.WithSuggestion(walleterr.ErrInvalidInput, "word count must be 12, 15, 18, 21 or 24")

	// whitespaceRegex matches one or more whitespace characters.
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// numberedListRegex matches numbered list prefixes like "1." "2)" "3:"
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)

	// bulletListRegex matches bullet prefixes like "- " "* " "• "
	bulletListRegex = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// entropyBits maps a supported word count to its BIP39 entropy size.
func entropyBits(wordCount int) (int, bool) {
	switch wordCount {
	case 12, 15, 18, 21, 24:
		return wordCount / 3 * 32, true
	default:
		return 0, false
	}
}

// RecoveryPhrase is an ordered sequence of BIP39 words. Order encodes the
// seed, so nothing in cwallet reorders or deduplicates it.
type RecoveryPhrase []string

// String joins the words with single spaces.
func (p RecoveryPhrase) String() string {
	return strings.Join(p, " ")
}

// Len returns the number of words.
func (p RecoveryPhrase) Len() int {
	return len(p)
}

// GenerateMnemonic creates a new BIP39 phrase with entropy drawn from the
// CSPRNG in package secret.
func GenerateMnemonic(wordCount int) (RecoveryPhrase, error) {
	bits, ok := entropyBits(wordCount)
	if !ok {
		return nil, ErrInvalidWordCount
	}

	entropy, err := secret.SecureRandomBytes(bits / 8)
	if err != nil {
		return nil, walleterr.Wrap(err, "reading entropy")
	}
	defer entropy.Destroy()

	mnemonic, err := bip39.NewMnemonic(entropy.Bytes())
	if err != nil {
		return nil, walleterr.Wrap(err, "encoding mnemonic")
	}

	return strings.Fields(mnemonic), nil
}

// ParsePhrase normalizes user input and splits it into words. It does not
// validate the checksum; use ValidateMnemonic for that.
func ParsePhrase(input string) RecoveryPhrase {
	return strings.Fields(NormalizeMnemonicInput(input))
}

// ValidateMnemonic checks word count, word validity and checksum.
func ValidateMnemonic(mnemonic string) error {
	normalized := NormalizeMnemonicInput(mnemonic)
	if normalized == "" {
		return walleterr.ErrInvalidPhrase
	}

	words := strings.Fields(normalized)
	if _, ok := entropyBits(len(words)); !ok {
		return walleterr.WithDetails(walleterr.ErrInvalidPhrase, map[string]string{
			"words": strconv.Itoa(len(words)),
		})
	}

	// MnemonicToByteArray validates word validity AND checksum
	if _, err := bip39.MnemonicToByteArray(normalized); err != nil {
		return walleterr.ErrInvalidPhrase
	}

	return nil
}

// NormalizeMnemonicInput cleans and normalizes mnemonic input by:
// - Converting to lowercase
// - Removing numbered list prefixes (1. 2) 3: etc.)
// - Removing bullet prefixes (- * •)
// - Replacing commas with spaces
// - Collapsing whitespace and trimming
func NormalizeMnemonicInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// MnemonicToSeed converts a BIP39 phrase to a 64-byte seed held in locked
// memory. The caller must Destroy the result.
func MnemonicToSeed(mnemonic, passphrase string) (*secret.SecureBytes, error) {
	normalized := NormalizeMnemonicInput(mnemonic)

	seed, err := bip39.NewSeedWithErrorChecking(normalized, passphrase)
	if err != nil {
		return nil, walleterr.ErrInvalidPhrase
	}

	return secret.FromSlice(seed), nil
}

// IsValidWord checks if a word is in the BIP39 word list.
func IsValidWord(word string) bool {
	_, ok := bip39.GetWordIndex(strings.ToLower(word))
	return ok
}

// TypoInfo describes a word that is not in the BIP39 list.
type TypoInfo struct {
	// Index is the word position in the phrase (0-based).
	Index int
	// Word is the original (possibly misspelled) word.
	Word string
	// Suggestion is the closest BIP39 word, or empty if none found.
	Suggestion string
	// Distance is the Levenshtein distance to the suggestion.
	Distance int
}

// SuggestWord finds the closest BIP39 word using Levenshtein distance.
// Returns empty string if nothing is within MaxTypoDistance.
func SuggestWord(input string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string

	for _, word := range bip39.GetWordList() {
		dist := levenshtein.ComputeDistance(input, word)
		if dist == 0 {
			return word
		}
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos returns every word of the phrase that is not a BIP39 word.
func DetectTypos(mnemonic string) []TypoInfo {
	var typos []TypoInfo

	for i, word := range ParsePhrase(mnemonic) {
		if IsValidWord(word) {
			continue
		}
		suggestion := SuggestWord(word)
		distance := 0
		if suggestion != "" {
			distance = levenshtein.ComputeDistance(word, suggestion)
		}
		typos = append(typos, TypoInfo{
			Index:      i,
			Word:       word,
			Suggestion: suggestion,
			Distance:   distance,
		})
	}

	return typos
}

// FormatTypoSuggestions renders typo information for the terminal.
// Positions are 1-indexed.
func FormatTypoSuggestions(typos []TypoInfo) string {
	var b strings.Builder
	for i, typo := range typos {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Word ")
		b.WriteString(strconv.Itoa(typo.Index + 1))
		b.WriteString(": '")
		b.WriteString(typo.Word)
		b.WriteByte('\'')
		if typo.Suggestion != "" {
			b.WriteString(" - did you mean '")
			b.WriteString(typo.Suggestion)
			b.WriteString("'?")
		} else {
			b.WriteString(" is not a valid BIP39 word")
		}
	}
	return b.String()
}
