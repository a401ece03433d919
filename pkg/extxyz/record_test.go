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

func mustGrammar(t *testing.T) *extxyz.Grammar {
	t.Helper()
	g, err := extxyz.CompileGrammar()
	require.NoError(t, err)
	return g
}

func readOne(t *testing.T, g *extxyz.Grammar, input string) *extxyz.Record {
	t.Helper()
	r := bufio.NewReader(strings.NewReader(input))
	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec
}

func TestReadRecord_FullHeader(t *testing.T) {
	g := mustGrammar(t)
	input := "2\nLattice=\"1 0 0 0 1 0 0 0 1\" Properties=species:S:1:pos:R:3 energy=-3.14\nC 0.0 0.0 0.0\nO 1.0 2.0 3.0\n"

	rec := readOne(t, g, input)
	assert.Equal(t, 2, rec.Nat)
	assert.False(t, rec.PlainXYZ)

	lattice, ok := rec.Lattice()
	require.True(t, ok)
	assert.Equal(t, extxyz.Shape{Rows: 3, Cols: 3}, lattice.Shape)
	assert.Equal(t, []int64{1, 0, 0, 0, 1, 0, 0, 0, 1}, lattice.Ints)

	e, ok := infoEntry(rec, "energy")
	require.True(t, ok)
	assert.Equal(t, extxyz.TagFloat, e.Tag)
	assert.InDelta(t, -3.14, e.Floats[0], 1e-12)

	species, ok := arraysEntry(rec, "species")
	require.True(t, ok)
	assert.Equal(t, []string{"C", "O"}, species.Strings)

	pos, ok := arraysEntry(rec, "pos")
	require.True(t, ok)
	assert.Equal(t, extxyz.Shape{Rows: 2, Cols: 3}, pos.Shape)
	assert.Equal(t, []float64{0, 0, 0, 1, 2, 3}, pos.Floats)
}

func TestReadRecord_PlainXYZFallback(t *testing.T) {
	g := mustGrammar(t)
	input := "1\nhello world\nH 0 0 0\n"

	rec := readOne(t, g, input)
	assert.True(t, rec.PlainXYZ)
	assert.Equal(t, "hello world", rec.Comment)

	comment, ok := infoEntry(rec, "comment")
	require.True(t, ok)
	assert.Equal(t, []string{"hello world"}, comment.Strings)

	species, ok := arraysEntry(rec, "species")
	require.True(t, ok)
	assert.Equal(t, []string{"H"}, species.Strings)

	pos, ok := arraysEntry(rec, "pos")
	require.True(t, ok)
	assert.Equal(t, extxyz.Shape{Rows: 1, Cols: 3}, pos.Shape)
	assert.Equal(t, []float64{0, 0, 0}, pos.Floats)
}

func TestReadRecord_AtomLineMismatch(t *testing.T) {
	g := mustGrammar(t)
	input := "2\nProperties=species:S:1:pos:R:3\nH 0 0\nHe 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	_, err := extxyz.ReadRecord(g, r)
	require.Error(t, err)
	assert.Equal(t, extxyz.KindAtomLineMismatch, extxyz.KindOf(err))
}

func TestReadRecord_IncompatibleArrayTypes(t *testing.T) {
	g := mustGrammar(t)
	input := "1\nstress=[1, 2, \"three\"]\nH 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	_, err := extxyz.ReadRecord(g, r)
	require.Error(t, err)
	assert.Equal(t, extxyz.KindIncompatibleArrayTypes, extxyz.KindOf(err))
}

func TestReadRecord_InconsistentArrayShape(t *testing.T) {
	g := mustGrammar(t)
	input := "1\nm=[[1,2],[3,4,5]]\nH 0 0 0\n"
	r := bufio.NewReader(strings.NewReader(input))

	_, err := extxyz.ReadRecord(g, r)
	require.Error(t, err)
	assert.Equal(t, extxyz.KindInconsistentArrayShape, extxyz.KindOf(err))
}

func TestReadRecord_LegacyScalarCollapse(t *testing.T) {
	g := mustGrammar(t)
	input := "1\npbc=\"T\" Properties=species:S:1:pos:R:3\nH 0 0 0\n"

	rec := readOne(t, g, input)
	pbcEntry, ok := infoEntry(rec, "pbc")
	require.True(t, ok)
	assert.True(t, pbcEntry.Shape.IsScalar())
	assert.Equal(t, extxyz.TagBool, pbcEntry.Tag)
	assert.True(t, pbcEntry.Bools[0])

	pbc, ok := rec.PBC()
	require.True(t, ok)
	assert.Equal(t, [3]bool{true, true, true}, pbc)
}

func TestReadRecord_WithDefaultProperties(t *testing.T) {
	g := mustGrammar(t).WithDefaultProperties("species:S:1:pos:R:3:vel:R:3")
	input := "1\nenergy=-1.0\nSi 0.0 0.0 0.0 0.1 0.2 0.3\n"

	rec := readOne(t, g, input)
	_, ok := rec.Arrays.Get("vel")
	assert.True(t, ok, "vel column from the overridden default schema should be present")
}

func TestReadRecord_BadNatoms(t *testing.T) {
	g := mustGrammar(t)
	r := bufio.NewReader(strings.NewReader("not-a-number\nfoo\n"))
	_, err := extxyz.ReadRecord(g, r)
	require.Error(t, err)
	assert.Equal(t, extxyz.KindBadNatoms, extxyz.KindOf(err))
}

func TestReadRecord_CleanEOF(t *testing.T) {
	g := mustGrammar(t)
	r := bufio.NewReader(strings.NewReader(""))
	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReadRecord_BlankLineTerminates(t *testing.T) {
	g := mustGrammar(t)
	r := bufio.NewReader(strings.NewReader("\nmore\n"))
	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRoundTrip(t *testing.T) {
	g := mustGrammar(t)
	input := "2\nLattice=\"1 0 0 0 1 0 0 0 1\" Properties=species:S:1:pos:R:3 energy=-3.14\nC 0.0 0.0 0.0\nO 1.0 2.0 3.0\n"

	r := bufio.NewReader(strings.NewReader(input))
	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)
	require.NotNil(t, rec)

	var buf bytes.Buffer
	require.NoError(t, extxyz.WriteRecord(&buf, rec))

	r2 := bufio.NewReader(&buf)
	rec2, err := extxyz.ReadRecord(g, r2)
	require.NoError(t, err)
	require.NotNil(t, rec2)

	assert.Equal(t, rec.Nat, rec2.Nat)

	lattice1, _ := rec.Lattice()
	lattice2, _ := rec2.Lattice()
	assert.Equal(t, lattice1.Ints, lattice2.Ints)

	pos1, _ := arraysEntry(rec, "pos")
	pos2, _ := arraysEntry(rec2, "pos")
	assert.Equal(t, pos1.Floats, pos2.Floats)

	species1, _ := arraysEntry(rec, "species")
	species2, _ := arraysEntry(rec2, "species")
	assert.Equal(t, species1.Strings, species2.Strings)
}

func TestRoundTrip_Idempotence(t *testing.T) {
	g := mustGrammar(t)
	input := "1\nenergy=-3.14 virial=[[1,2,3],[4,5,6],[7,8,9]] flag=T name=silicon\nSi 0 0 0\n"

	r := bufio.NewReader(strings.NewReader(input))
	rec, err := extxyz.ReadRecord(g, r)
	require.NoError(t, err)

	var buf1 bytes.Buffer
	require.NoError(t, extxyz.WriteRecord(&buf1, rec))

	r2 := bufio.NewReader(bytes.NewReader(buf1.Bytes()))
	rec2, err := extxyz.ReadRecord(g, r2)
	require.NoError(t, err)

	var buf2 bytes.Buffer
	require.NoError(t, extxyz.WriteRecord(&buf2, rec2))

	assert.Equal(t, buf1.String(), buf2.String())
}

// infoEntry and arraysEntry are small test-local helpers: Record exposes
// its dicts as the exported Info/Arrays fields, but extxyz's OrderedMap
// type doesn't have a case-insensitive getter outside the package.
func infoEntry(rec *extxyz.Record, key string) (*extxyz.DictEntry, bool) {
	return rec.Info.Get(key)
}

func arraysEntry(rec *extxyz.Record, key string) (*extxyz.DictEntry, bool) {
	return rec.Arrays.Get(key)
}
