package cli

import (
	"fmt"
	"io"

	"github.com/mrz1836/cwallet/internal/output"
	"github.com/mrz1836/cwallet/internal/wallet"
)

const banner = "═══════════════════════════════════════════════════════════════"

// phraseColumns is how many phrase words are shown per row.
const phraseColumns = 3

// clearScreen wipes the terminal so the phrase is gone before the
// challenge is shown. Non-terminal writers get a separator instead.
//
//nolint:gochecknoglobals // swappable for tests
var clearScreen = func(w io.Writer) {
	if output.IsTerminal(w) {
		out(w, "\033[H\033[2J")
		return
	}
	outln(w)
}

// displayPhrase shows the recovery phrase with formatting.
func displayPhrase(w io.Writer, phrase wallet.RecoveryPhrase) {
	outln(w)
	outln(w, banner)
	outln(w, "                    RECOVERY PHRASE")
	outln(w, banner)
	outln(w)
	outln(w, "Write down these words in order and store them securely.")
	outln(w, "This is the ONLY way to recover your wallet.")
	outln(w)
	_ = output.WordGrid(phrase, phraseColumns).Render(w)
	outln(w)
	outln(w, banner)
	outln(w)
}

// walletView is what create and import print. PrivateKey and Mnemonic are
// only set when the user asked for secrets to be revealed.
type walletView struct {
	Address    string   `json:"address"`
	Path       string   `json:"derivation_path,omitempty"`
	Network    string   `json:"network"`
	ChainID    int      `json:"chain_id"`
	Symbol     string   `json:"symbol"`
	Source     string   `json:"source"`
	Mnemonic   []string `json:"mnemonic,omitempty"`
	PrivateKey string   `json:"private_key,omitempty"`

	maskedKey    string
	maskedPhrase []string
}

// newWalletView builds the view for a derived key pair. path is empty for
// private key imports, and so is phrase.
func (c *CommandContext) newWalletView(pair wallet.KeyPair, phrase wallet.RecoveryPhrase, path string, source wallet.InputFormat, reveal bool) walletView {
	v := walletView{
		Address:   pair.Address,
		Path:      path,
		Network:   c.Cfg.Network.Name,
		ChainID:   c.Cfg.Network.ChainID,
		Symbol:    c.Cfg.Network.Symbol,
		Source:    source.String(),
		maskedKey: output.MaskSecret(pair.PrivateKey, reveal),
	}
	if len(phrase) > 0 {
		v.maskedPhrase = output.MaskWords(phrase, reveal)
	}
	if reveal {
		v.PrivateKey = pair.PrivateKey
		if len(phrase) > 0 {
			v.Mnemonic = append([]string(nil), phrase...)
		}
	}
	return v
}

// String keeps the view safe to pass to fmt.
func (v walletView) String() string {
	return fmt.Sprintf("%s on %s", v.Address, v.Network)
}

// renderWallet prints the view and, on a terminal, the address QR code.
func (c *CommandContext) renderWallet(v walletView, showQR bool) error {
	return c.Fmt.Result(v, func(w io.Writer) error {
		outln(w)
		out(w, "Network:      %s (chain %d, %s)\n", v.Network, v.ChainID, v.Symbol)
		out(w, "Address:      %s\n", v.Address)
		if v.Path != "" {
			out(w, "Path:         %s\n", v.Path)
		}
		if len(v.maskedPhrase) > 0 {
			outln(w, "Recovery phrase:")
			_ = output.WordGrid(v.maskedPhrase, phraseColumns).Render(w)
		}
		out(w, "Private key:  %s\n", v.maskedKey)
		if v.PrivateKey == "" {
			outln(w, "              (use --reveal to show secrets)")
		}
		outln(w)

		if showQR {
			return output.RenderAddressQR(w, v.Address, output.DefaultQRConfig())
		}
		return nil
	})
}
