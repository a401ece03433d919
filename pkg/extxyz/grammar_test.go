// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/holomush/extxyz/pkg/extxyz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecord_DuplicateInfoKeyRejected(t *testing.T) {
	g := mustGrammar(t)
	input := "1\nenergy=1.0 energy=2.0\nH 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	_, err := extxyz.ReadRecord(g, r)
	require.Error(t, err)
	assert.Equal(t, extxyz.KindDuplicateInfoKey, extxyz.KindOf(err))
}

func TestReadRecord_QuotedKeyRoundTrip(t *testing.T) {
	g := mustGrammar(t)
	input := "1\n\"a key\"=1\nH 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)
	e, ok := infoEntry(rec, "a key")
	require.True(t, ok)
	assert.Equal(t, extxyz.TagInt, e.Tag)
	assert.Equal(t, int64(1), e.Ints[0])

	var buf bytes.Buffer
	require.NoError(t, extxyz.WriteRecord(&buf, rec))
	assert.Contains(t, buf.String(), `"a key"=1`)
}

func TestReadRecord_2DBracketArray(t *testing.T) {
	g := mustGrammar(t)
	input := "1\nm=[[1,2],[3,4]]\nH 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)
	e, ok := infoEntry(rec, "m")
	require.True(t, ok)
	assert.Equal(t, extxyz.Shape{Rows: 2, Cols: 2}, e.Shape)
	assert.Equal(t, []int64{1, 2, 3, 4}, e.Ints)
}

func TestReadRecord_MixedIntFloatPromotesToFloat(t *testing.T) {
	g := mustGrammar(t)
	input := "1\nv=[1, 2.5, 3]\nH 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)
	e, ok := infoEntry(rec, "v")
	require.True(t, ok)
	assert.Equal(t, extxyz.TagFloat, e.Tag)
	assert.Equal(t, []float64{1, 2.5, 3}, e.Floats)
}

func TestReadRecord_NonMarkerUnparsableFallsBackToPlainXYZ(t *testing.T) {
	g := mustGrammar(t)
	// A comment line with a stray unbalanced quote still lacks any of the
	// recognized marker keys, so it must fall back rather than error.
	input := "1\nunterminated \"quote\nH 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)
	assert.True(t, rec.PlainXYZ)
}

func TestReadRecord_UnparsableWithMarkerKeyErrors(t *testing.T) {
	g := mustGrammar(t)
	input := "1\nLattice=[[1,2,3],[4,5,6],[7,8,9]] ===\nH 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	_, err := extxyz.ReadRecord(g, r)
	require.Error(t, err)
	assert.Equal(t, extxyz.KindHeaderParseFailed, extxyz.KindOf(err))
}
