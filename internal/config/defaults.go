package config

// Avalanche C-Chain mainnet.
const (
	DefaultNetworkName = "avalanche-c-chain"
	DefaultChainID     = 43114
	DefaultSymbol      = "AVAX"
)

// maxDerivationComponent is the first hardened BIP32 index. Account and
// index stay below it because the path hardens them itself.
const maxDerivationComponent = 1 << 31

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.cwallet",
		Network: NetworkConfig{
			Name:    DefaultNetworkName,
			ChainID: DefaultChainID,
			Symbol:  DefaultSymbol,
		},
		Derivation: DerivationConfig{
			Account: 0,
			Index:   0,
		},
		Verification: VerificationConfig{
			WordsToVerify:        3,
			PoolSize:             9,
			MaxAttemptsPerMinute: 5,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			ShowQR:        true,
		},
		Logging: LoggingConfig{
			Level: "off",
			File:  "",
			JSON:  false,
		},
	}
}
