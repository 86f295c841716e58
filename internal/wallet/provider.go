package wallet

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	"github.com/mrz1836/cwallet/internal/secret"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// redacted replaces secret material in any rendering of wallet values.
const redacted = "[REDACTED]"

// privateKeyRegex accepts exactly 64 hex characters with an optional 0x prefix.
var privateKeyRegex = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)

// KeyPair is an address with the private key that controls it.
type KeyPair struct {
	Address    string `json:"address"`
	PrivateKey string `json:"-"`
}

// String never prints the private key.
func (k KeyPair) String() string {
	return fmt.Sprintf("KeyPair{Address: %s, PrivateKey: %s}", k.Address, redacted)
}

// GoString keeps %#v from dumping the private key.
func (k KeyPair) GoString() string {
	return k.String()
}

// MarshalZerologObject logs the address only.
func (k KeyPair) MarshalZerologObject(e *zerolog.Event) {
	e.Str("address", k.Address)
}

// DerivedWallet is the result of a successful create or phrase import. It is
// handed to the display layer and never persisted.
type DerivedWallet struct {
	Address    string         `json:"address"`
	PrivateKey string         `json:"-"`
	Mnemonic   RecoveryPhrase `json:"-"`
	Path       DerivationPath `json:"-"`
}

// KeyPair drops the mnemonic.
func (w DerivedWallet) KeyPair() KeyPair {
	return KeyPair{Address: w.Address, PrivateKey: w.PrivateKey}
}

// String never prints the private key or the mnemonic.
func (w DerivedWallet) String() string {
	return fmt.Sprintf("DerivedWallet{Address: %s, Path: %s, PrivateKey: %s, Mnemonic: %s}",
		w.Address, w.Path, redacted, redacted)
}

// GoString keeps %#v from dumping secrets.
func (w DerivedWallet) GoString() string {
	return w.String()
}

// MarshalZerologObject logs the address and path only.
func (w DerivedWallet) MarshalZerologObject(e *zerolog.Event) {
	e.Str("address", w.Address).Str("path", w.Path.String())
}

// KeyMaterialProvider generates recovery phrases and derives keys from them.
type KeyMaterialProvider interface {
	Generate() (RecoveryPhrase, error)
	DeriveFromPhrase(phrase RecoveryPhrase) (*DerivedWallet, error)
	DeriveFromPrivateKey(key string) (KeyPair, error)
}

// Option configures a Provider.
type Option func(*Provider)

// WithPath selects the BIP44 account and index used for phrase derivation.
func WithPath(path DerivationPath) Option {
	return func(p *Provider) {
		p.path = path
	}
}

// WithPassphrase sets an optional BIP39 passphrase.
func WithPassphrase(passphrase string) Option {
	return func(p *Provider) {
		p.passphrase = passphrase
	}
}

// WithWordCount changes the generated phrase length.
func WithWordCount(n int) Option {
	return func(p *Provider) {
		p.wordCount = n
	}
}

// Provider is the default KeyMaterialProvider.
type Provider struct {
	path       DerivationPath
	passphrase string
	wordCount  int
}

// NewProvider creates a provider using DefaultPath and 12-word phrases
// unless overridden.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		path:      DefaultPath(),
		wordCount: DefaultWordCount,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns the derivation path in use.
func (p *Provider) Path() DerivationPath {
	return p.path
}

// Generate returns a fresh recovery phrase.
func (p *Provider) Generate() (RecoveryPhrase, error) {
	return GenerateMnemonic(p.wordCount)
}

// DeriveFromPhrase derives the wallet at the provider's path. The same
// phrase always yields the same address and key.
func (p *Provider) DeriveFromPhrase(phrase RecoveryPhrase) (*DerivedWallet, error) {
	normalized := ParsePhrase(phrase.String())

	pair, err := deriveKeyPair(normalized.String(), p.passphrase, p.path)
	if err != nil {
		return nil, err
	}

	return &DerivedWallet{
		Address:    pair.Address,
		PrivateKey: pair.PrivateKey,
		Mnemonic:   normalized,
		Path:       p.path,
	}, nil
}

// DeriveFromPrivateKey validates the hex format before deriving the address.
func (p *Provider) DeriveFromPrivateKey(key string) (KeyPair, error) {
	return DeriveFromPrivateKey(key)
}

// ValidatePrivateKey checks for 64 hex characters with an optional 0x prefix.
func ValidatePrivateKey(key string) error {
	key = strings.TrimSpace(key)
	if !privateKeyRegex.MatchString(key) {
		return walleterr.WithSuggestion(
			walleterr.WithDetails(walleterr.ErrInvalidKey, map[string]string{
				"length": strconv.Itoa(len(strings.TrimPrefix(key, "0x"))),
			}),
			"a private key is 64 hexadecimal characters, optionally prefixed with 0x",
		)
	}
	return nil
}

// DeriveFromPrivateKey derives the address for a raw hex private key.
func DeriveFromPrivateKey(key string) (KeyPair, error) {
	if err := ValidatePrivateKey(key); err != nil {
		return KeyPair{}, err
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(key), "0x"))
	if err != nil {
		return KeyPair{}, walleterr.ErrInvalidKey
	}
	sb := secret.FromSlice(raw)
	defer sb.Destroy()

	// Zero and values >= the curve order pass the format check but are not keys
	ecdsaKey, err := crypto.ToECDSA(sb.Bytes())
	if err != nil {
		return KeyPair{}, walleterr.WithSuggestion(walleterr.ErrInvalidKey, "the value is not a valid secp256k1 private key")
	}

	return keyPairFromECDSA(ecdsaKey), nil
}
