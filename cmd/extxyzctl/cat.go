// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/extxyz/pkg/extxyz"
)

// catConfig holds configuration for the cat command.
type catConfig struct {
	path string
}

func newCatCmd() *cobra.Command {
	cfg := &catConfig{}

	cmd := &cobra.Command{
		Use:   "cat <file>",
		Short: "Print a one-line summary of every record in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.path = args[0]
			return runCat(cmd, cfg)
		},
	}

	return cmd
}

func runCat(cmd *cobra.Command, cfg *catConfig) error {
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

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAT\tLATTICE\tPBC\tCOMMENT")

	r := bufio.NewReader(f)
	index := 0
	for {
		rec, err := extxyz.ReadRecord(g, r)
		if err != nil {
			_ = w.Flush()
			return oops.In("extxyzctl").With("path", cfg.path).With("index", index).Wrap(err)
		}
		if rec == nil {
			break
		}
		fmt.Fprintln(w, summaryRow(index, rec))
		index++
	}

	return w.Flush()
}

func summaryRow(index int, rec *extxyz.Record) string {
	lattice := "-"
	if _, ok := rec.Lattice(); ok {
		lattice = "yes"
	}

	pbc := "-"
	if flags, ok := rec.PBC(); ok {
		pbc = fmt.Sprintf("%v %v %v", flags[0], flags[1], flags[2])
	}

	comment := rec.Comment
	if !rec.PlainXYZ {
		comment = "(key/value header)"
	}

	return fmt.Sprintf("%d\t%d\t%s\t%s\t%s", index, rec.Nat, lattice, pbc, comment)
}
