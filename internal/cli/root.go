// Package cli implements the cwallet command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/cwallet/internal/config"
	"github.com/mrz1836/cwallet/internal/metrics"
	"github.com/mrz1836/cwallet/internal/output"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cmdCtx    *CommandContext
	logCloser io.Closer
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cwallet",
	Short: "A terminal wallet for EVM chains",
	Long: `cwallet creates and imports wallets for EVM-compatible chains
(Avalanche C-Chain by default).

A new recovery phrase is shown once and must be confirmed by picking
words from a shuffled list before the wallet is revealed. Nothing is
stored on disk except the configuration file.

Example:
  cwallet create
  cwallet import
  cwallet verify
  cwallet checksum 0x9858effd232b4033e47d90003d41ec34ecaeda94`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cc, err := initGlobals(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		cmdCtx = cc
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command and prints any error in the active format.
// Canceling ctx interrupts waits inside interactive flows.
func Execute(ctx context.Context) error {
	enrichHelp()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		format := output.FormatText
		if cmdCtx != nil {
			format = cmdCtx.Fmt.Format()
		}
		_ = output.FormatError(os.Stderr, err, format)
		cleanup()
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return walleterr.ExitCode(err)
}

// loadConfig resolves configuration in order: defaults, config file,
// environment, flags.
func loadConfig() (*config.Config, error) {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}
	home, err := config.ExpandPath(home)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.Path(home))
	if err != nil {
		if !walleterr.Is(err, walleterr.ErrConfigNotFound) {
			return nil, err
		}
		cfg = config.Defaults()
	}
	cfg.Home = home

	config.ApplyEnvironment(cfg)

	if homeDir != "" {
		cfg.Home = home
	}
	if verbose {
		cfg.Logging.Level = config.LogLevelDebug
	}
	if outputFormat != "" && outputFormat != string(output.FormatAuto) {
		cfg.Output.DefaultFormat = outputFormat
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initGlobals builds the command context shared by every subcommand.
func initGlobals(stdout, stderr io.Writer) (*CommandContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	base, closer, err := config.NewLogger(cfg.Logging, stderr)
	if err != nil {
		// A broken log file must not block the wallet
		base, closer = zerolog.Nop(), nil
		_, _ = io.WriteString(stderr, "warning: logging disabled: "+err.Error()+"\n")
	}
	logCloser = closer

	return NewCommandContext(cfg, base, stdout, stderr), nil
}

// cleanup logs the session metrics and releases the log file.
func cleanup() {
	if cmdCtx != nil {
		m := metrics.Global
		ev := cmdCtx.Log.Debug().Object("metrics", m.Snapshot())
		if m.ChallengesIssued() > 0 {
			ev = ev.Float64("pass_rate", m.PassRate())
		}
		ev.Float64("derivation_avg_ms", m.DerivationLatencyAvgMs()).Msg("session finished")
	}
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "cwallet data directory (default: ~/.cwallet)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
