// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads extxyzctl's configuration by layering an optional
// YAML file under command-line flags, the same precedence order the
// teacher's cobra commands apply manually flag-by-flag, but expressed as
// a single koanf.Koanf merge so every subcommand shares one loader.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds extxyzctl's runtime defaults. Flags always win over the
// config file, and the config file always wins over Defaults().
type Config struct {
	// DefaultProperties is used when a record's comment line has no
	// Properties key (spec.md §4.4 default).
	DefaultProperties string `koanf:"default-properties"`
	// ToleratedMarkerKeys is loaded from the "tolerate-marker-keys"
	// setting but no command reads it: a header line that mentions a
	// marker key (Lattice/Cell/Properties) and fails to parse is always
	// an error, whatever this field says.
	ToleratedMarkerKeys bool `koanf:"tolerate-marker-keys"`
	// ArrayWidth is loaded from the "array-width" setting but the writer
	// does not read it; elements are written without padding.
	ArrayWidth int `koanf:"array-width"`
	// MetricsAddr is the observability server's listen address; empty
	// disables it.
	MetricsAddr string `koanf:"metrics-addr"`
}

// Defaults returns extxyzctl's built-in configuration, used before any
// file or flag overlay is applied.
func Defaults() Config {
	return Config{
		DefaultProperties:   "species:S:1:pos:R:3",
		ToleratedMarkerKeys: false,
		ArrayWidth:          0,
		MetricsAddr:         "",
	}
}

// Load builds a Config by layering, in increasing precedence: built-in
// defaults, an optional YAML file at configPath (skipped silently if
// configPath is empty or the file does not exist), and flags already
// bound to fs.
func Load(configPath string, fs *pflag.FlagSet) (Config, error) {
	cfg := Defaults()
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return Config{}, oops.In("config").With("path", configPath).Hint("failed to load config file").Wrap(err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, oops.In("config").With("path", configPath).Hint("failed to stat config file").Wrap(err)
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Config{}, oops.In("config").Hint("failed to load flag overlay").Wrap(err)
		}
	}

	if k.Len() > 0 {
		if err := k.Unmarshal("", &cfg); err != nil {
			return Config{}, oops.In("config").Hint("failed to unmarshal config").Wrap(err)
		}
	}
	return cfg, nil
}
