package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/cwallet/internal/config"
	"github.com/mrz1836/cwallet/internal/flow"
	"github.com/mrz1836/cwallet/internal/metrics"
	"github.com/mrz1836/cwallet/internal/output"
	"github.com/mrz1836/cwallet/internal/verify"
	"github.com/mrz1836/cwallet/internal/wallet"
)

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Cfg *config.Config
	// Base is the root logger; components derive their own from it.
	Base zerolog.Logger
	// Log is Base with component=cli.
	Log zerolog.Logger
	Fmt *output.Formatter
	Msg *output.Messenger
	// UI receives prompts and interactive screens. It is stdout for text
	// output and stderr for JSON so the result document stays clean.
	UI io.Writer
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(cfg *config.Config, base zerolog.Logger, stdout, stderr io.Writer) *CommandContext {
	format := output.NewFormatter(output.ParseFormat(cfg.Output.DefaultFormat), stdout)
	ui := stdout
	if format.IsJSON() {
		ui = stderr
	}
	plain := cfg.Output.Color == "never"

	return &CommandContext{
		Cfg:  cfg,
		Base: base,
		Log:  base.With().Str("component", "cli").Logger(),
		Fmt:  format,
		Msg:  output.NewMessenger(ui, stderr, false, plain),
		UI:   ui,
	}
}

// GetCmdContext returns the context built by the root command. Commands run
// directly in tests fall back to defaults writing to the command's streams.
func GetCmdContext(cmd *cobra.Command) *CommandContext {
	if cmdCtx != nil {
		return cmdCtx
	}
	return NewCommandContext(config.Defaults(), zerolog.Nop(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// Provider returns the key material provider for the configured path.
func (c *CommandContext) Provider() *wallet.Provider {
	return wallet.NewProvider(wallet.WithPath(c.DerivationPath()))
}

// DerivationPath returns the configured BIP44 path.
func (c *CommandContext) DerivationPath() wallet.DerivationPath {
	return wallet.DerivationPath{
		Account: c.Cfg.Derivation.Account,
		Index:   c.Cfg.Derivation.Index,
	}
}

// Generator returns a challenge generator sized from configuration.
func (c *CommandContext) Generator(src verify.Source) *verify.Generator {
	return verify.NewGenerator(src,
		verify.WithWordsToVerify(c.Cfg.Verification.WordsToVerify),
		verify.WithPoolSize(c.Cfg.Verification.PoolSize),
	)
}

// Controller starts a wallet session wired to configuration, logging and
// metrics.
func (c *CommandContext) Controller(provider wallet.KeyMaterialProvider, opts ...flow.Option) *flow.Controller {
	base := []flow.Option{
		flow.WithLogger(c.Base),
		flow.WithMetrics(metrics.Global),
		flow.WithGenerator(c.Generator(verify.NewCryptoSource())),
		flow.WithLimiter(flow.NewAttemptLimiter(c.Cfg.Verification.MaxAttemptsPerMinute)),
	}
	return flow.NewController(provider, append(base, opts...)...)
}
