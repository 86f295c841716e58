package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cwallet/internal/metrics"
	"github.com/mrz1836/cwallet/internal/secret"
	"github.com/mrz1836/cwallet/internal/verify"
	"github.com/mrz1836/cwallet/internal/wallet"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// verifyCmd checks that the user can still answer a challenge for a phrase.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Practice the recovery phrase challenge",
	Long: `Read a recovery phrase from a hidden prompt and ask for three of its
words by position, picked from a shuffled list. Exits with code 3 when
the answer is wrong.

Example:
  cwallet verify`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(verifyCmd)
}

// verifyResult is the verify command output.
type verifyResult struct {
	Verified     bool `json:"verified"`
	WordsChecked int  `json:"words_checked"`
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	raw, err := promptSecretFn(cc.UI, "Enter the recovery phrase to practice with: ")
	if err != nil {
		return err
	}
	phrase := wallet.ParsePhrase(string(raw))
	secret.ZeroBytes(raw)

	return verifyPhrase(cc, phrase, verify.NewCryptoSource(), metrics.Global)
}

// verifyPhrase runs one challenge for phrase. Only a valid BIP39 phrase is
// accepted so typos surface here rather than as a failed challenge.
func verifyPhrase(cc *CommandContext, phrase wallet.RecoveryPhrase, src verify.Source, m *metrics.Metrics) error {
	if err := wallet.ValidateMnemonic(phrase.String()); err != nil {
		if typoErr := checkTypos(cc, phrase.String()); typoErr != nil {
			return typoErr
		}
		return err
	}

	ch, err := cc.Generator(src).Build(phrase)
	if err != nil {
		return err
	}
	m.RecordChallenge()
	clearScreen(cc.UI)

	b := newAnswerBoard(ch)
	if err = fillBoard(cc.UI, b); err != nil {
		return err
	}

	ok, err := b.check()
	if err != nil {
		return err
	}
	m.RecordVerification(ok)
	cc.Log.Info().Bool("passed", ok).Int("slots", ch.Slots()).Msg("practice challenge checked")

	if !ok {
		return walleterr.WithSuggestion(walleterr.ErrVerificationFailed,
			"compare your written copy with the phrase and try again")
	}

	result := verifyResult{Verified: true, WordsChecked: ch.Slots()}
	return cc.Fmt.Result(result, func(w io.Writer) error {
		outln(w, "Recovery phrase verified.")
		return nil
	})
}
