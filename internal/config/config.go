// Package config provides configuration management for cwallet.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version      int                `yaml:"version"`
	Home         string             `yaml:"home"`
	Network      NetworkConfig      `yaml:"network"`
	Derivation   DerivationConfig   `yaml:"derivation"`
	Verification VerificationConfig `yaml:"verification"`
	Output       OutputConfig       `yaml:"output"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// NetworkConfig names the EVM network shown next to addresses. It is display
// only; cwallet never contacts the network.
type NetworkConfig struct {
	Name    string `yaml:"name"`
	ChainID int    `yaml:"chain_id"`
	Symbol  string `yaml:"symbol"`
}

// DerivationConfig selects the BIP44 path m/44'/60'/account'/0/index.
type DerivationConfig struct {
	Account uint32 `yaml:"account"`
	Index   uint32 `yaml:"index"`
}

// VerificationConfig defines the recovery phrase challenge.
type VerificationConfig struct {
	WordsToVerify        int `yaml:"words_to_verify"`
	PoolSize             int `yaml:"pool_size"`
	MaxAttemptsPerMinute int `yaml:"max_attempts_per_minute"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	ShowQR        bool   `yaml:"show_qr"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

// Load reads configuration from the specified file over Defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, walleterr.WithDetails(walleterr.ErrConfigNotFound, map[string]string{
				"path": path,
			})
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, walleterr.Wrap(walleterr.ErrConfigInvalid, "parsing %s: %v", path, err)
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return writeFile(path, data, 0o600)
}

// Path returns the config file path inside home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// DefaultHome returns the default cwallet home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cwallet"
	}
	return filepath.Join(home, ".cwallet")
}

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}

// Validate rejects values the wallet flow cannot run with.
func (c *Config) Validate() error {
	invalid := func(key, value string) error {
		return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{
			"key":   key,
			"value": value,
		})
	}

	v := c.Verification
	if v.WordsToVerify < 1 || v.WordsToVerify > 12 {
		return invalid("verification.words_to_verify", strconv.Itoa(v.WordsToVerify))
	}
	if v.PoolSize < v.WordsToVerify || v.PoolSize > 24 {
		return invalid("verification.pool_size", strconv.Itoa(v.PoolSize))
	}
	if v.MaxAttemptsPerMinute < 0 {
		return invalid("verification.max_attempts_per_minute", strconv.Itoa(v.MaxAttemptsPerMinute))
	}

	if c.Derivation.Account >= maxDerivationComponent {
		return invalid("derivation.account", strconv.FormatUint(uint64(c.Derivation.Account), 10))
	}
	if c.Derivation.Index >= maxDerivationComponent {
		return invalid("derivation.index", strconv.FormatUint(uint64(c.Derivation.Index), 10))
	}

	if c.Network.ChainID < 0 {
		return invalid("network.chain_id", strconv.Itoa(c.Network.ChainID))
	}

	switch c.Output.DefaultFormat {
	case "auto", "text", "json":
	default:
		return invalid("output.default_format", c.Output.DefaultFormat)
	}

	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return invalid("output.color", c.Output.Color)
	}

	if _, ok := parseLevel(c.Logging.Level); !ok {
		return invalid("logging.level", c.Logging.Level)
	}

	return nil
}
