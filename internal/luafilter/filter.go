// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package luafilter

import (
	"context"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/extxyz/pkg/extxyz"
)

// Filter loads a Lua script once and applies its "filter" function to
// each record streamed through "extxyzctl filter --lua". A fresh Lua
// state is created per record so one record's script globals can never
// leak into the next (the same isolation lua.Host gives per event).
type Filter struct {
	factory  *StateFactory
	manifest *Manifest
	code     string
}

// Load reads and syntax-checks a Lua filter script.
func Load(ctx context.Context, manifest *Manifest, source []byte) (*Filter, error) {
	f := &Filter{
		factory:  NewStateFactory(),
		manifest: manifest,
		code:     string(source),
	}

	L, err := f.factory.NewState(ctx)
	if err != nil {
		return nil, oops.In("luafilter").With("filter", manifest.Name).Hint("failed to create validation state").Wrap(err)
	}
	defer L.Close()

	if err := L.DoString(f.code); err != nil {
		return nil, oops.In("luafilter").With("filter", manifest.Name).With("entry", manifest.Entry).Hint("syntax error").Wrap(err)
	}
	return f, nil
}

// Apply runs the script's filter(record) function against rec. It
// returns keep=false when the script returns false or nil, meaning the
// record should be dropped from the output stream, and keep=true when it
// returns true or the record table. Mutations the script
// makes to the record table's "info" scalars are written back onto
// rec.Info; rec.Arrays (the per-atom columns) is read-only to the script
// — a filter decides and relabels, it does not resample atoms.
func (f *Filter) Apply(ctx context.Context, rec *extxyz.Record) (keep bool, err error) {
	L, err := f.factory.NewState(ctx)
	if err != nil {
		return false, oops.In("luafilter").With("filter", f.manifest.Name).Hint("failed to create state").Wrap(err)
	}
	defer L.Close()
	L.SetContext(ctx)

	if err := L.DoString(f.code); err != nil {
		return false, oops.In("luafilter").With("filter", f.manifest.Name).Hint("failed to load script").Wrap(err)
	}

	fn := L.GetGlobal("filter")
	if fn.Type() != lua.LTFunction {
		return false, oops.In("luafilter").With("filter", f.manifest.Name).New("script does not define a filter(record) function")
	}

	recTable := recordToTable(L, rec)

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, recTable); err != nil {
		return false, oops.In("luafilter").With("filter", f.manifest.Name).With("operation", "filter").Wrap(err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return false, nil
	case lua.LBool:
		return bool(v), nil
	case *lua.LTable:
		applyInfoMutations(v, rec)
		return true, nil
	default:
		return false, oops.In("luafilter").With("filter", f.manifest.Name).New("filter must return a boolean, nil, or the record table")
	}
}

// recordToTable builds the Lua-visible view of a record: nat, comment,
// plain_xyz, and an "info" table in which scalars are plain values and
// vector and matrix entries are flat lists (matrices in row-major order,
// without their shape). The per-atom arrays table is omitted — the
// filter hook is scoped to record-level keep/rewrite decisions.
func recordToTable(L *lua.LState, rec *extxyz.Record) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "nat", lua.LNumber(rec.Nat))
	L.SetField(t, "comment", lua.LString(rec.Comment))
	L.SetField(t, "plain_xyz", lua.LBool(rec.PlainXYZ))

	info := L.NewTable()
	for pair := rec.Info.Oldest(); pair != nil; pair = pair.Next() {
		L.SetField(info, pair.Key, entryToLValue(L, pair.Value))
	}
	L.SetField(t, "info", info)

	return t
}

func entryToLValue(L *lua.LState, e *extxyz.DictEntry) lua.LValue {
	if e.Shape.IsScalar() {
		return scalarToLValue(e, 0)
	}
	arr := L.NewTable()
	for i := 0; i < e.Len(); i++ {
		arr.Append(scalarToLValue(e, i))
	}
	return arr
}

func scalarToLValue(e *extxyz.DictEntry, idx int) lua.LValue {
	switch e.Tag {
	case extxyz.TagInt:
		return lua.LNumber(e.Ints[idx])
	case extxyz.TagFloat:
		return lua.LNumber(e.Floats[idx])
	case extxyz.TagBool:
		return lua.LBool(e.Bools[idx])
	case extxyz.TagString:
		return lua.LString(e.Strings[idx])
	default:
		return lua.LNil
	}
}

// applyInfoMutations writes scalar info values the script changed back
// onto rec.Info. A key's element type and shape cannot be changed by the
// script — only the scalar value of an existing scalar key.
func applyInfoMutations(recTable *lua.LTable, rec *extxyz.Record) {
	infoVal := recTable.RawGetString("info")
	infoTable, ok := infoVal.(*lua.LTable)
	if !ok {
		return
	}

	infoTable.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		entry, ok := rec.Info.Get(string(key))
		if !ok || !entry.Shape.IsScalar() {
			return
		}
		setScalarFromLValue(entry, v)
	})
}

func setScalarFromLValue(e *extxyz.DictEntry, v lua.LValue) {
	switch e.Tag {
	case extxyz.TagInt:
		if n, ok := v.(lua.LNumber); ok {
			e.Ints[0] = int64(n)
		}
	case extxyz.TagFloat:
		if n, ok := v.(lua.LNumber); ok {
			e.Floats[0] = float64(n)
		}
	case extxyz.TagBool:
		if b, ok := v.(lua.LBool); ok {
			e.Bools[0] = bool(b)
		}
	case extxyz.TagString:
		if s, ok := v.(lua.LString); ok {
			e.Strings[0] = string(s)
		}
	}
}
