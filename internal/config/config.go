// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

// Package config loads permkit configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/permkit/permkit/internal/auth"
)

// Config holds the runtime configuration.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string, the storage location
	// of the credential store. Falls back to the DATABASE_URL environment
	// variable when unset.
	DatabaseURL string `koanf:"database_url"`

	// BcryptCost is the password hashing work factor.
	BcryptCost int `koanf:"bcrypt_cost"`

	// LogFormat selects the slog handler: "json" or "text".
	LogFormat string `koanf:"log_format"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		BcryptCost: auth.DefaultBcryptCost,
		LogFormat:  "json",
	}
}

// Load builds the configuration. path may be empty (no file); flags may be
// nil. Flag names use dashes and are mapped onto the underscore config keys.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	_ = k.Set("bcrypt_cost", defaults.BcryptCost)
	_ = k.Set("log_format", defaults.LogFormat)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "merge flags").
				Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, oops.Code("CONFIG_INVALID").
			With("log_format", cfg.LogFormat).
			Errorf("log_format must be \"json\" or \"text\"")
	}

	return &cfg, nil
}
