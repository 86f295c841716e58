package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cwallet/internal/flow"
	"github.com/mrz1836/cwallet/internal/secret"
	"github.com/mrz1836/cwallet/internal/wallet"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	importMnemonic   string
	importPrivateKey string
	importReveal     bool
	importNoQR       bool
)

// importCmd imports an existing wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a wallet from a recovery phrase or private key",
	Long: `Import a wallet from a BIP39 recovery phrase (at least 12 words) or a
hex private key (64 hex characters, optional 0x prefix).

Without flags you are prompted with hidden input and the format is
detected automatically. Misspelled phrase words are reported with the
closest BIP39 word.

Example:
  cwallet import
  cwallet import --private-key 0x4c0883a6...`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	importCmd.Flags().StringVar(&importMnemonic, "mnemonic", "", "recovery phrase (prefer the hidden prompt)")
	importCmd.Flags().StringVar(&importPrivateKey, "private-key", "", "hex private key (prefer the hidden prompt)")
	importCmd.Flags().BoolVar(&importReveal, "reveal", false, "show the private key and recovery phrase in the summary")
	importCmd.Flags().BoolVar(&importNoQR, "no-qr", false, "do not draw the address QR code")
	importCmd.MarkFlagsMutuallyExclusive("mnemonic", "private-key")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	input, format := importMnemonic, wallet.FormatMnemonic
	if importPrivateKey != "" {
		input, format = importPrivateKey, wallet.FormatPrivateKey
	}
	if input != "" {
		cc.Msg.Warnf("Secrets passed as flags can end up in your shell history.")
	} else {
		raw, err := promptSecretFn(cc.UI, "Enter your recovery phrase or private key: ")
		if err != nil {
			return err
		}
		input = string(raw)
		secret.ZeroBytes(raw)
		format = classifyImport(input)
	}

	ctrl := cc.Controller(cc.Provider())
	return importWallet(cc, ctrl, input, format, createOptions{
		reveal: importReveal,
		showQR: cc.Cfg.Output.ShowQR && !importNoQR,
	})
}

// classifyImport picks the import path for prompted input. Input that is
// neither is routed to whichever path gives the more useful error: several
// words read as a phrase, a single token as a key.
func classifyImport(input string) wallet.InputFormat {
	if f := wallet.DetectInputFormat(input); f != wallet.FormatUnknown {
		return f
	}
	if len(strings.Fields(input)) > 1 {
		return wallet.FormatMnemonic
	}
	return wallet.FormatPrivateKey
}

// importWallet drives ctrl from login through import to home.
func importWallet(cc *CommandContext, ctrl *flow.Controller, input string, format wallet.InputFormat, opts createOptions) error {
	if err := ctrl.GoImport(); err != nil {
		return err
	}

	var view walletView
	switch format {
	case wallet.FormatMnemonic:
		if err := checkTypos(cc, input); err != nil {
			return err
		}
		derived, err := ctrl.ImportMnemonic(input)
		if err != nil {
			return err
		}
		view = cc.newWalletView(derived.KeyPair(), derived.Mnemonic, derived.Path.String(), format, opts.reveal)
	default:
		pair, err := ctrl.ImportPrivateKey(input)
		if err != nil {
			return err
		}
		view = cc.newWalletView(pair, nil, "", wallet.FormatPrivateKey, opts.reveal)
	}

	cc.Msg.Successf("Wallet imported")
	if err := cc.renderWallet(view, opts.showQR); err != nil {
		return err
	}
	cc.Log.Info().Stringer("screen", ctrl.Screen()).Str("source", view.Source).Msg("wallet imported")
	return nil
}

// checkTypos reports words outside the BIP39 list before any derivation
// is attempted.
func checkTypos(cc *CommandContext, phrase string) error {
	typos := wallet.DetectTypos(phrase)
	if len(typos) == 0 {
		return nil
	}

	outln(cc.UI, "\nPossible typos detected:")
	for _, line := range strings.Split(wallet.FormatTypoSuggestions(typos), "\n") {
		outln(cc.UI, "  "+line)
	}
	outln(cc.UI)

	return walleterr.WithSuggestion(
		walleterr.WithDetails(walleterr.ErrInvalidPhrase, map[string]string{
			"unknown_words": strconv.Itoa(len(typos)),
		}),
		"correct the words listed above and try again",
	)
}
