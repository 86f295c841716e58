package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cwallet/internal/flow"
	"github.com/mrz1836/cwallet/internal/wallet"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// createReveal prints the private key in the summary.
	createReveal bool
	// createNoQR suppresses the address QR code.
	createNoQR bool

	// sleepFn waits out the attempt limiter; tests replace it.
	sleepFn = sleepContext
)

// createCmd creates a new wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wallet with a new recovery phrase",
	Long: `Create a wallet with a new 12-word recovery phrase.

The phrase is displayed once. After you confirm you have written it
down it is cleared from the screen and you are asked to pick three of
its words, by position, from a shuffled list. A wrong answer produces a
new challenge. The wallet is only shown once the check passes.

Nothing is saved to disk.

Example:
  cwallet create
  cwallet create --reveal
  cwallet create -o json`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

// createOptions controls the summary screen.
type createOptions struct {
	reveal bool
	showQR bool
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	createCmd.Flags().BoolVar(&createReveal, "reveal", false, "show the private key and recovery phrase in the summary")
	createCmd.Flags().BoolVar(&createNoQR, "no-qr", false, "do not draw the address QR code")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	ctrl := cc.Controller(cc.Provider())
	return createWallet(commandContext(cmd), cc, ctrl, createOptions{
		reveal: createReveal,
		showQR: cc.Cfg.Output.ShowQR && !createNoQR,
	})
}

// createWallet walks ctrl from login to home: generate, confirm, verify,
// summary.
func createWallet(ctx context.Context, cc *CommandContext, ctrl *flow.Controller, opts createOptions) error {
	if err := ctrl.GoCreate(); err != nil {
		return err
	}

	phrase, err := ctrl.GeneratePhrase()
	if err != nil {
		return err
	}
	if err = confirmWrittenDown(cc, ctrl, phrase); err != nil {
		return err
	}
	clearScreen(cc.UI)

	if _, err = ctrl.ContinueToVerify(); err != nil {
		return err
	}
	if err = runVerification(ctx, cc, ctrl); err != nil {
		return err
	}

	derived := ctrl.Wallet()
	view := cc.newWalletView(derived.KeyPair(), derived.Mnemonic, derived.Path.String(), wallet.FormatMnemonic, opts.reveal)
	cc.Msg.Successf("Recovery phrase verified")
	if err = cc.renderWallet(view, opts.showQR); err != nil {
		return err
	}

	if err = ctrl.ContinueHome(); err != nil {
		return err
	}
	cc.Log.Info().Stringer("screen", ctrl.Screen()).Int("attempts", ctrl.Attempts()).Msg("wallet created")
	cc.Msg.Infof("Nothing was written to disk. Your recovery phrase is the only backup.")
	return nil
}

// confirmWrittenDown shows the phrase until the user confirms it is
// written down. Asking for a new phrase replaces it.
func confirmWrittenDown(cc *CommandContext, ctrl *flow.Controller, phrase wallet.RecoveryPhrase) error {
	for {
		displayPhrase(cc.UI, phrase)
		answer, err := promptLineFn(cc.UI, "Have you written down every word? [y]es, [n]ew phrase, [q]uit: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return nil
		case "n", "new":
			if phrase, err = ctrl.GeneratePhrase(); err != nil {
				return err
			}
		case "q", "quit":
			return errCanceled
		default:
			outln(cc.UI, "  Please answer y, n or q.")
		}
	}
}

// runVerification loops over challenges until one passes. Throttled
// submissions wait for the limiter and resubmit the same answers.
func runVerification(ctx context.Context, cc *CommandContext, ctrl *flow.Controller) error {
	for {
		if err := fillBoard(cc.UI, ctrl); err != nil {
			return err
		}

		ok, err := ctrl.Submit()
		switch {
		case walleterr.Is(err, walleterr.ErrTooManyAttempts):
			wait := ctrl.RetryAfter().Round(time.Second)
			cc.Msg.Warnf("Too many attempts. Waiting %s before checking again.", wait)
			if err = sleepFn(ctx, ctrl.RetryAfter()); err != nil {
				return err
			}
		case err != nil:
			return err
		case ok:
			return nil
		default:
			cc.Msg.Warnf("Those words do not match your recovery phrase. Here is a new challenge.")
		}
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
