// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/holomush/extxyz/internal/observability"
	"github.com/holomush/extxyz/pkg/errutil"
	"github.com/holomush/extxyz/pkg/extxyz"
)

var tracer = otel.Tracer("extxyzctl")

// convertConfig holds configuration for the convert command.
type convertConfig struct {
	dir         string
	pattern     string
	out         string
	metricsAddr string
}

// Validate checks that the configuration is valid.
func (cfg *convertConfig) Validate() error {
	if cfg.dir == "" {
		return fmt.Errorf("a source directory is required")
	}
	if cfg.pattern == "" {
		return fmt.Errorf("--pattern is required")
	}
	if cfg.out == "" {
		return fmt.Errorf("--out is required")
	}
	return nil
}

func newConvertCmd() *cobra.Command {
	cfg := &convertConfig{}

	cmd := &cobra.Command{
		Use:   "convert <dir>",
		Short: "Concatenate every matching file in a directory into one extxyz stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.dir = args[0]
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runConvert(cmd.Context(), cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.pattern, "pattern", "*.extxyz", "glob pattern (supports **) matched against file names")
	cmd.Flags().StringVar(&cfg.out, "out", "", "output file path")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", "", "metrics/health HTTP address (empty = disabled)")

	return cmd
}

func runConvert(ctx context.Context, cmd *cobra.Command, cfg *convertConfig) error {
	loaded, err := loadCfg(cmd)
	if err != nil {
		return err
	}
	if cfg.metricsAddr == "" {
		cfg.metricsAddr = loaded.MetricsAddr
	}

	matches, err := matchFiles(cfg.dir, cfg.pattern)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return oops.In("extxyzctl").With("dir", cfg.dir).With("pattern", cfg.pattern).New("no files matched")
	}

	var obs *observability.Server
	if cfg.metricsAddr != "" {
		obs = observability.NewServer(cfg.metricsAddr, func() bool { return true })
		if err := obs.Start(); err != nil {
			return oops.In("extxyzctl").Hint("failed to start metrics server").Wrap(err)
		}
		defer func() { _ = obs.Stop(context.Background()) }()
	}

	out, err := os.Create(filepath.Clean(cfg.out))
	if err != nil {
		return oops.In("extxyzctl").With("path", cfg.out).Hint("failed to create output file").Wrap(err)
	}
	defer func() { _ = out.Close() }()

	g, err := extxyz.CompileGrammar()
	if err != nil {
		return oops.In("extxyzctl").Hint("failed to compile header grammar").Wrap(err)
	}
	g = g.WithDefaultProperties(loaded.DefaultProperties)

	batchID := ulid.Make()
	slog.Info("starting conversion batch", "batch_id", batchID.String(), "files", len(matches))

	total := 0
	for _, path := range matches {
		n, err := convertFile(ctx, g, path, out, obs, batchID)
		if err != nil {
			return err
		}
		total += n
	}

	cmd.Printf("wrote %d records from %d files to %s\n", total, len(matches), cfg.out)
	return nil
}

// convertFile reads every record from path through a retrying reader and
// writes it to out, reporting the count of records copied. Each record's
// write runs under its own "convert.record" span; the span carries no
// attributes and its context is not passed on to logging.
func convertFile(ctx context.Context, g *extxyz.Grammar, path string, out io.Writer, obs *observability.Server, batchID ulid.ULID) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, oops.In("extxyzctl").With("path", path).Hint("failed to open file").Wrap(err)
	}
	defer func() { _ = f.Close() }()

	r := bufio.NewReader(f)
	index := 0
	for {
		rec, err := readRecordWithRetry(ctx, g, r)
		if err != nil {
			if obs != nil {
				obs.Metrics().DecodeErrorsTotal.WithLabelValues(string(extxyz.KindOf(err))).Inc()
			}
			wrapped := oops.In("extxyzctl").With("batch_id", batchID.String()).With("path", path).With("index", index).Wrap(err)
			errutil.LogError(slog.Default(), "record decode failed", wrapped)
			return index, wrapped
		}
		if rec == nil {
			break
		}

		_, span := tracer.Start(ctx, "convert.record")

		if err := extxyz.WriteRecord(out, rec); err != nil {
			span.End()
			return index, oops.In("extxyzctl").With("path", path).With("index", index).Hint("failed to write record").Wrap(err)
		}
		span.End()

		if obs != nil {
			obs.Metrics().RecordsDecodedTotal.Inc()
			obs.Metrics().AtomsDecodedTotal.Add(float64(rec.Nat))
		}
		index++
	}
	return index, nil
}

// readRecordWithRetry retries a transient IOFailure (e.g. a FIFO input
// returning EAGAIN) with exponential backoff. The core reader itself
// never retries (spec.md §4.9); any non-IOFailure error is returned
// immediately.
func readRecordWithRetry(ctx context.Context, g *extxyz.Grammar, r *bufio.Reader) (*extxyz.Record, error) {
	b, err := retry.NewExponential(50 * time.Millisecond)
	if err != nil {
		return nil, oops.In("extxyzctl").Hint("failed to build retry backoff").Wrap(err)
	}
	b = retry.WithMaxRetries(3, b)

	var rec *extxyz.Record
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		var readErr error
		rec, readErr = extxyz.ReadRecord(g, r)
		if readErr != nil && extxyz.KindOf(readErr) == extxyz.KindIOFailure {
			return retry.RetryableError(readErr)
		}
		return readErr
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func matchFiles(dir, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, oops.In("extxyzctl").With("pattern", pattern).Hint("invalid glob pattern").Wrap(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, oops.In("extxyzctl").With("dir", dir).Hint("failed to list directory").Wrap(err)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() || !g.Match(entry.Name()) {
			continue
		}
		matches = append(matches, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(matches)
	return matches, nil
}
