// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/extxyz/internal/config"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_FileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extxyzctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default-properties: species:S:1:pos:R:3:vel:R:3\narray-width: 12\n"), 0o600))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "species:S:1:pos:R:3:vel:R:3", cfg.DefaultProperties)
	assert.Equal(t, 12, cfg.ArrayWidth)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extxyzctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("array-width: 12\n"), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("array-width", 0, "")
	require.NoError(t, fs.Set("array-width", "20"))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.ArrayWidth)
}
