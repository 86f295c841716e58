package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "CWALLET_HOME"
	EnvOutputFormat = "CWALLET_OUTPUT_FORMAT"
	EnvLogLevel     = "CWALLET_LOG_LEVEL"
	EnvLogFile      = "CWALLET_LOG_FILE"
	EnvLogJSON      = "CWALLET_LOG_JSON"
	EnvAccount      = "CWALLET_ACCOUNT"
	EnvAddressIndex = "CWALLET_ADDRESS_INDEX"
	EnvShowQR       = "CWALLET_SHOW_QR"
	EnvNoColor      = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
// Unparseable numeric values are ignored.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}

	if v := os.Getenv(EnvLogJSON); v != "" {
		cfg.Logging.JSON = parseBool(v)
	}

	if v := os.Getenv(EnvAccount); v != "" {
		if n, ok := parseComponent(v); ok {
			cfg.Derivation.Account = n
		}
	}

	if v := os.Getenv(EnvAddressIndex); v != "" {
		if n, ok := parseComponent(v); ok {
			cfg.Derivation.Index = n
		}
	}

	if v := os.Getenv(EnvShowQR); v != "" {
		cfg.Output.ShowQR = parseBool(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// parseComponent parses a non-hardened BIP32 path component.
func parseComponent(s string) (uint32, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n >= maxDerivationComponent {
		return 0, false
	}
	return uint32(n), true
}
