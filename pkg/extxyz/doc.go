// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package extxyz reads and writes Extended XYZ (extxyz) atomic
// configuration records: a plain-text format pairing per-atom columnar
// data with a free-form key/value comment line.
//
// The comment line has its own bespoke grammar (scalars, 1-D/2-D arrays,
// several quoting styles) compiled with participle; the per-atom lines are
// decoded with a regex assembled at runtime from the record's Properties
// schema. Both directions are exposed through Record, ReadRecord and
// WriteRecord.
package extxyz
