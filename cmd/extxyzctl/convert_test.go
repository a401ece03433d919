// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSampleFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "1\nProperties=species:S:1:pos:R:3\nSi 0.0 0.0 0.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConvert_ConcatenatesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeSampleFile(t, dir, "traj-0.extxyz")
	writeSampleFile(t, dir, "traj-1.extxyz")
	writeSampleFile(t, dir, "ignore-me.xyz")

	outPath := filepath.Join(t.TempDir(), "combined.extxyz")

	cmd := newConvertCmd()
	cmd.SetArgs([]string{dir, "--pattern", "traj-*.extxyz", "--out", outPath})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, countRecordLines(string(data)))
}

func countRecordLines(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if line == "1" {
			count++
		}
	}
	return count
}

func TestConvert_NoMatchesErrors(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "combined.extxyz")

	cmd := newConvertCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{dir, "--pattern", "traj-*.extxyz", "--out", outPath})
	assert.Error(t, cmd.Execute())
}
