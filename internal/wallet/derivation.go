package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"

	"github.com/mrz1836/cwallet/internal/secret"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// CoinTypeETH is the SLIP-44 coin type shared by EVM chains, including the
// Avalanche C-Chain.
const CoinTypeETH uint32 = 60

// MaxDerivationIndex keeps account and index values below the hardened range.
const MaxDerivationIndex = bip32.FirstHardenedChild - 1

// DerivationPath identifies a BIP44 key: m/44'/60'/account'/0/index.
type DerivationPath struct {
	Account uint32
	Index   uint32
}

// DefaultPath is the first external address of the first account, the
// path every mainstream EVM wallet uses for a fresh phrase.
func DefaultPath() DerivationPath {
	return DerivationPath{}
}

// String renders the path in BIP32 notation.
func (p DerivationPath) String() string {
	return fmt.Sprintf("m/44'/%d'/%d'/0/%d", CoinTypeETH, p.Account, p.Index)
}

// Validate rejects components that would overflow into the hardened range.
func (p DerivationPath) Validate() error {
	if p.Account > MaxDerivationIndex || p.Index > MaxDerivationIndex {
		return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"path": p.String(),
		})
	}
	return nil
}

// DerivePrivateKey walks the BIP44 path from a BIP39 seed and returns the
// raw 32-byte private key in locked memory. The caller must Destroy it.
func DerivePrivateKey(seed []byte, path DerivationPath) (*secret.SecureBytes, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}

	// m/44'/60'/account'/0/index
	steps := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + CoinTypeETH,
		bip32.FirstHardenedChild + path.Account,
		0,
		path.Index,
	}

	key := master
	for _, step := range steps {
		if key, err = descend(key, step); err != nil {
			return nil, fmt.Errorf("deriving child %d: %w", step, err)
		}
	}
	defer secret.ZeroBytes(key.ChainCode)

	return secret.FromSlice(key.Key), nil
}

// descend derives one child and wipes the parent's key material, whether or
// not the derivation succeeded.
func descend(parent *bip32.Key, index uint32) (*bip32.Key, error) {
	defer wipeKey(parent)
	return parent.NewChildKey(index)
}

func wipeKey(k *bip32.Key) {
	if k == nil {
		return
	}
	secret.ZeroBytes(k.Key)
	secret.ZeroBytes(k.ChainCode)
}

// keyPairFromECDSA renders a secp256k1 key as checksummed address plus
// 0x-prefixed lowercase hex private key.
func keyPairFromECDSA(key *ecdsa.PrivateKey) KeyPair {
	raw := crypto.FromECDSA(key)
	defer secret.ZeroBytes(raw)

	return KeyPair{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(raw),
	}
}

// deriveKeyPair turns a phrase into the key pair at path.
func deriveKeyPair(phrase, passphrase string, path DerivationPath) (KeyPair, error) {
	if err := ValidateMnemonic(phrase); err != nil {
		return KeyPair{}, err
	}

	seed, err := MnemonicToSeed(phrase, passphrase)
	if err != nil {
		return KeyPair{}, err
	}
	defer seed.Destroy()

	raw, err := DerivePrivateKey(seed.Bytes(), path)
	if err != nil {
		return KeyPair{}, err
	}
	defer raw.Destroy()

	key, err := crypto.ToECDSA(raw.Bytes())
	if err != nil {
		return KeyPair{}, walleterr.Wrap(err, "converting derived key")
	}

	return keyPairFromECDSA(key), nil
}
