package config

import (
	"sort"
	"strconv"
	"strings"

	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// field binds a dotted config key to its accessors.
type field struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}

func intField(ptr func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, value string) error {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return err
			}
			*ptr(c) = n
			return nil
		},
	}
}

func componentField(ptr func(c *Config) *uint32) field {
	return field{
		get: func(c *Config) string { return strconv.FormatUint(uint64(*ptr(c)), 10) },
		set: func(c *Config, value string) error {
			n, ok := parseComponent(value)
			if !ok {
				return walleterr.ErrConfigInvalid
			}
			*ptr(c) = n
			return nil
		},
	}
}

func boolField(ptr func(c *Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, value string) error {
			*ptr(c) = parseBool(value)
			return nil
		},
	}
}

func stringField(ptr func(c *Config) *string, lower bool) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, value string) error {
			value = strings.TrimSpace(value)
			if lower {
				value = strings.ToLower(value)
			}
			*ptr(c) = value
			return nil
		},
	}
}

//nolint:gochecknoglobals // Static key registry
var fields = map[string]field{
	"home":                                 stringField(func(c *Config) *string { return &c.Home }, false),
	"network.name":                         stringField(func(c *Config) *string { return &c.Network.Name }, false),
	"network.chain_id":                     intField(func(c *Config) *int { return &c.Network.ChainID }),
	"network.symbol":                       stringField(func(c *Config) *string { return &c.Network.Symbol }, false),
	"derivation.account":                   componentField(func(c *Config) *uint32 { return &c.Derivation.Account }),
	"derivation.index":                     componentField(func(c *Config) *uint32 { return &c.Derivation.Index }),
	"verification.words_to_verify":         intField(func(c *Config) *int { return &c.Verification.WordsToVerify }),
	"verification.pool_size":               intField(func(c *Config) *int { return &c.Verification.PoolSize }),
	"verification.max_attempts_per_minute": intField(func(c *Config) *int { return &c.Verification.MaxAttemptsPerMinute }),
	"output.default_format":                stringField(func(c *Config) *string { return &c.Output.DefaultFormat }, true),
	"output.color":                         stringField(func(c *Config) *string { return &c.Output.Color }, true),
	"output.show_qr":                       boolField(func(c *Config) *bool { return &c.Output.ShowQR }),
	"logging.level":                        stringField(func(c *Config) *string { return &c.Logging.Level }, true),
	"logging.file":                         stringField(func(c *Config) *string { return &c.Logging.File }, false),
	"logging.json":                         boolField(func(c *Config) *bool { return &c.Logging.JSON }),
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value at a dotted key such as "logging.level".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", unknownKey(key)
	}
	return f.get(c), nil
}

// Set parses value into the dotted key. The config is left unchanged when
// the value does not parse or the result fails Validate.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return unknownKey(key)
	}

	next := *c
	if err := f.set(&next, value); err != nil {
		return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{
			"key":   key,
			"value": value,
		})
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*c = next
	return nil
}

func unknownKey(key string) error {
	return walleterr.WithSuggestion(
		walleterr.WithDetails(walleterr.ErrUnknownConfigKey, map[string]string{"key": key}),
		"valid keys: "+strings.Join(Keys(), ", "),
	)
}
