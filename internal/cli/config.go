package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cwallet/internal/config"
	"github.com/mrz1836/cwallet/internal/output"
	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify cwallet configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.cwallet/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  cwallet config init
  cwallet config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd shows the effective configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration: file values with environment
variables and flags applied.

Example:
  cwallet config show
  cwallet config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its dotted key.

Examples:
  cwallet config get verification.pool_size
  cwallet config get derivation.index`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value by its dotted key and save the file.

The new value is validated before anything is written.

Examples:
  cwallet config set verification.max_attempts_per_minute 3
  cwallet config set derivation.index 1
  cwallet config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

// configEntry is one key in config show and config get output.
type configEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	path, err := initConfigFile(cc.Cfg.Home, configForce)
	if err != nil {
		return err
	}
	return output.FormatSuccess(cc.Fmt.Writer(), "Configuration initialized at "+path, cc.Fmt.Format())
}

// initConfigFile writes the defaults to home/config.yaml.
func initConfigFile(home string, force bool) (string, error) {
	path := config.Path(home)
	if _, err := os.Stat(path); err == nil && !force {
		return "", walleterr.WithSuggestion(
			walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"path": path}),
			"configuration already exists. Use --force to overwrite.",
		)
	}

	defaults := config.Defaults()
	defaults.Home = home
	if err := config.Save(defaults, path); err != nil {
		return "", walleterr.Wrap(err, "writing config file")
	}
	return path, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	return showConfig(cc.Fmt, cc.Cfg)
}

// showConfig prints every key of cfg.
func showConfig(f *output.Formatter, cfg *config.Config) error {
	keys := config.Keys()
	entries := make([]configEntry, 0, len(keys))
	for _, key := range keys {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		entries = append(entries, configEntry{Key: key, Value: value})
	}

	return f.Result(entries, func(w io.Writer) error {
		t := output.NewTable("KEY", "VALUE")
		for _, e := range entries {
			t.AddRow(e.Key, e.Value)
		}
		return t.Render(w)
	})
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)
	value, err := cc.Cfg.Get(args[0])
	if err != nil {
		return err
	}
	return cc.Fmt.Result(configEntry{Key: args[0], Value: value}, func(w io.Writer) error {
		outln(w, value)
		return nil
	})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)
	if err := setConfigValue(cc.Cfg.Home, args[0], args[1]); err != nil {
		return err
	}
	return output.FormatSuccess(cc.Fmt.Writer(), "Set "+args[0]+" = "+args[1], cc.Fmt.Format())
}

// setConfigValue updates one key in the file under home. Environment
// overrides are not written back: the file is loaded on its own.
func setConfigValue(home, key, value string) error {
	path := config.Path(home)
	fileCfg, err := config.Load(path)
	if err != nil {
		if !walleterr.Is(err, walleterr.ErrConfigNotFound) {
			return err
		}
		fileCfg = config.Defaults()
		fileCfg.Home = home
	}

	if err = fileCfg.Set(key, value); err != nil {
		return err
	}
	if err = config.Save(fileCfg, path); err != nil {
		return walleterr.Wrap(err, "saving config")
	}
	return nil
}
