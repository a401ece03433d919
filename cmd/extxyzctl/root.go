// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/extxyz/internal/config"
)

// Global flags available to all subcommands.
var (
	configFile        string
	defaultProperties string
)

// NewRootCmd creates the root command for the extxyz batch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extxyzctl",
		Short: "extxyzctl - batch reader/writer for extxyz configuration files",
		Long: `extxyzctl reads extxyz trajectory files (one or more atomic
configurations per file) and can print, convert, validate, export, or
Lua-filter the records they contain.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	cmd.PersistentFlags().StringVar(&defaultProperties, "default-properties", "",
		"Properties schema assumed when a record's comment line has none (overrides the config file)")

	cmd.AddCommand(newCatCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newFilterCmd())

	return cmd
}

// loadCfg layers the optional config file under a subcommand's own flags.
func loadCfg(cmd *cobra.Command) (config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}
