// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidFile(t *testing.T) {
	path := writeSampleFile(t, t.TempDir(), "sample.extxyz")

	cmd := newValidateCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ok: 1 records valid")
}

func TestValidate_RequireVersionRejectsMissingKey(t *testing.T) {
	path := writeSampleFile(t, t.TempDir(), "sample.extxyz")

	cmd := newValidateCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{path, "--require-version", ">=1.0.0"})
	assert.Error(t, cmd.Execute())
}

func TestValidate_RequireVersionPasses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.extxyz")
	content := "1\nExtxyzVersion=\"1.2.0\" Properties=species:S:1:pos:R:3\nSi 0.0 0.0 0.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cmd := newValidateCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--require-version", ">=1.0.0"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ok")
}
