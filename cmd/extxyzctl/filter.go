// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/extxyz/internal/luafilter"
	"github.com/holomush/extxyz/pkg/extxyz"
)

// filterConfig holds configuration for the filter command.
type filterConfig struct {
	path     string
	script   string
	manifest string
}

func newFilterCmd() *cobra.Command {
	cfg := &filterConfig{}

	cmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "Run a Lua script over every record, writing the kept ones to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.path = args[0]
			return runFilter(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.script, "lua", "", "path to the Lua filter script (required)")
	cmd.Flags().StringVar(&cfg.manifest, "manifest", "", "path to the filter's manifest YAML (default: derived from --lua)")

	return cmd
}

func runFilter(cmd *cobra.Command, cfg *filterConfig) error {
	if cfg.script == "" {
		return oops.In("extxyzctl").New("--lua is required")
	}

	manifest, err := loadFilterManifest(cfg)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(cfg.script)
	if err != nil {
		return oops.In("extxyzctl").With("path", cfg.script).Hint("failed to read Lua script").Wrap(err)
	}

	filter, err := luafilter.Load(cmd.Context(), manifest, source)
	if err != nil {
		return err
	}

	in, err := os.Open(cfg.path)
	if err != nil {
		return oops.In("extxyzctl").With("path", cfg.path).Hint("failed to open file").Wrap(err)
	}
	defer func() { _ = in.Close() }()

	loaded, err := loadCfg(cmd)
	if err != nil {
		return err
	}

	g, err := extxyz.CompileGrammar()
	if err != nil {
		return oops.In("extxyzctl").Hint("failed to compile header grammar").Wrap(err)
	}
	g = g.WithDefaultProperties(loaded.DefaultProperties)

	out := cmd.OutOrStdout()
	r := bufio.NewReader(in)
	index, kept := 0, 0
	for {
		rec, err := extxyz.ReadRecord(g, r)
		if err != nil {
			return oops.In("extxyzctl").With("path", cfg.path).With("index", index).Wrap(err)
		}
		if rec == nil {
			break
		}

		keep, err := filter.Apply(cmd.Context(), rec)
		if err != nil {
			return oops.In("extxyzctl").With("path", cfg.path).With("index", index).Wrap(err)
		}
		if keep {
			if err := extxyz.WriteRecord(out, rec); err != nil {
				return oops.In("extxyzctl").With("path", cfg.path).With("index", index).Hint("failed to write record").Wrap(err)
			}
			kept++
		}
		index++
	}

	cmd.Printf("kept %d of %d records\n", kept, index)
	return nil
}

func loadFilterManifest(cfg *filterConfig) (*luafilter.Manifest, error) {
	path := cfg.manifest
	if path == "" {
		path = deriveManifestPath(cfg.script)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if cfg.manifest == "" && os.IsNotExist(err) {
			// No manifest alongside the script: fall back to an
			// anonymous, unversioned filter rather than requiring
			// every ad-hoc script to carry metadata.
			return &luafilter.Manifest{Name: "ad-hoc", Version: "0.0.0", Entry: cfg.script}, nil
		}
		return nil, oops.In("extxyzctl").With("path", path).Hint("failed to read filter manifest").Wrap(err)
	}
	return luafilter.ParseManifest(data)
}

func deriveManifestPath(scriptPath string) string {
	return scriptPath + ".manifest.yaml"
}
