// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/extxyz/internal/schema"
	"github.com/holomush/extxyz/pkg/extxyz"
)

// exportConfig holds configuration for the export command.
type exportConfig struct {
	path       string
	jsonSchema bool
}

func newExportCmd() *cobra.Command {
	cfg := &exportConfig{}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export every record in a file as a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.path = args[0]
			return runExport(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonSchema, "json-schema", false, "print the JSON Schema for exported records instead of exporting")

	return cmd
}

func runExport(cmd *cobra.Command, cfg *exportConfig) error {
	if cfg.jsonSchema {
		doc, err := schema.GenerateSchema()
		if err != nil {
			return oops.In("extxyzctl").Hint("failed to generate schema").Wrap(err)
		}
		cmd.Println(string(doc))
		return nil
	}

	f, err := os.Open(cfg.path)
	if err != nil {
		return oops.In("extxyzctl").With("path", cfg.path).Hint("failed to open file").Wrap(err)
	}
	defer func() { _ = f.Close() }()

	loaded, err := loadCfg(cmd)
	if err != nil {
		return err
	}

	g, err := extxyz.CompileGrammar()
	if err != nil {
		return oops.In("extxyzctl").Hint("failed to compile header grammar").Wrap(err)
	}
	g = g.WithDefaultProperties(loaded.DefaultProperties)

	var exported []*schema.ExportedRecord
	r := bufio.NewReader(f)
	index := 0
	for {
		rec, err := extxyz.ReadRecord(g, r)
		if err != nil {
			return oops.In("extxyzctl").With("path", cfg.path).With("index", index).Wrap(err)
		}
		if rec == nil {
			break
		}
		exported = append(exported, schema.FromRecord(rec))
		index++
	}

	data, err := json.MarshalIndent(exported, "", "  ")
	if err != nil {
		return oops.In("extxyzctl").Hint("failed to marshal exported records").Wrap(err)
	}
	cmd.Println(string(data))
	return nil
}
