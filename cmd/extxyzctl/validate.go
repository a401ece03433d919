// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/extxyz/internal/schema"
	"github.com/holomush/extxyz/pkg/extxyz"
)

// validateConfig holds configuration for the validate command.
type validateConfig struct {
	path            string
	requireVersion  string
	checkJSONSchema bool
}

func newValidateCmd() *cobra.Command {
	cfg := &validateConfig{}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse every record in a file, reporting the first failure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.path = args[0]
			return runValidate(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.requireVersion, "require-version", "", `semver constraint (e.g. ">=1.0.0") the file's ExtxyzVersion info key must satisfy`)
	cmd.Flags().BoolVar(&cfg.checkJSONSchema, "json-schema", false, "additionally validate each record's JSON export against the generated schema")

	return cmd
}

func runValidate(cmd *cobra.Command, cfg *validateConfig) error {
	var constraint *semver.Constraints
	if cfg.requireVersion != "" {
		c, err := semver.NewConstraint(cfg.requireVersion)
		if err != nil {
			return oops.In("extxyzctl").With("constraint", cfg.requireVersion).Hint("invalid --require-version constraint").Wrap(err)
		}
		constraint = c
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

		if constraint != nil {
			if err := checkVersion(rec, constraint); err != nil {
				return oops.In("extxyzctl").With("path", cfg.path).With("index", index).Wrap(err)
			}
		}

		if cfg.checkJSONSchema {
			if err := checkJSONSchema(rec); err != nil {
				return oops.In("extxyzctl").With("path", cfg.path).With("index", index).Wrap(err)
			}
		}

		index++
	}

	cmd.Printf("ok: %d records valid\n", index)
	return nil
}

func checkVersion(rec *extxyz.Record, constraint *semver.Constraints) error {
	entry, ok := rec.Info.Get("ExtxyzVersion")
	if !ok || entry.Tag != extxyz.TagString || !entry.Shape.IsScalar() {
		return oops.In("extxyzctl").New("record has no string-scalar ExtxyzVersion info key")
	}
	v, err := semver.NewVersion(entry.Strings[0])
	if err != nil {
		return oops.In("extxyzctl").With("version", entry.Strings[0]).Hint("ExtxyzVersion is not valid semver").Wrap(err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("ExtxyzVersion %s does not satisfy constraint", v)
	}
	return nil
}

func checkJSONSchema(rec *extxyz.Record) error {
	data, err := json.Marshal(schema.FromRecord(rec))
	if err != nil {
		return oops.In("extxyzctl").Hint("failed to marshal record for schema check").Wrap(err)
	}
	return schema.ValidateJSON(data)
}
