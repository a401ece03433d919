// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package schema converts extxyz records to a JSON representation, and
// derives a JSON Schema for that representation so external tooling can
// validate exported files. There is no conversion from JSON back to a
// record.
package schema

import "github.com/holomush/extxyz/pkg/extxyz"

// ExportedEntry is the JSON-friendly form of an extxyz.DictEntry: a type
// tag, a (rows, cols) shape, and a flat data slice in the type's native
// Go representation.
type ExportedEntry struct {
	Type  string `json:"type" jsonschema:"required,enum=Int,enum=Float,enum=Bool,enum=String"`
	Shape [2]int `json:"shape" jsonschema:"required"`
	Data  any    `json:"data" jsonschema:"required"`
}

// ExportedRecord is the JSON-friendly form of an extxyz.Record.
type ExportedRecord struct {
	Nat    int                      `json:"nat" jsonschema:"required,minimum=1"`
	Info   map[string]ExportedEntry `json:"info" jsonschema:"required"`
	Arrays map[string]ExportedEntry `json:"arrays" jsonschema:"required"`
}

// FromRecord converts a parsed Record into its exportable JSON form.
func FromRecord(rec *extxyz.Record) *ExportedRecord {
	out := &ExportedRecord{
		Nat:    rec.Nat,
		Info:   exportDict(rec.Info),
		Arrays: exportDict(rec.Arrays),
	}
	return out
}

func exportDict(d extxyz.Dict) map[string]ExportedEntry {
	out := make(map[string]ExportedEntry, d.Len())
	for pair := d.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = exportEntry(pair.Value)
	}
	return out
}

func exportEntry(e *extxyz.DictEntry) ExportedEntry {
	exported := ExportedEntry{
		Type:  e.Tag.String(),
		Shape: [2]int{e.Shape.Rows, e.Shape.Cols},
	}
	switch e.Tag {
	case extxyz.TagInt:
		exported.Data = e.Ints
	case extxyz.TagFloat:
		exported.Data = e.Floats
	case extxyz.TagBool:
		exported.Data = e.Bools
	case extxyz.TagString:
		exported.Data = e.Strings
	}
	return exported
}
