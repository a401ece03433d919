// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Dict is an insertion-order-preserving map from key to DictEntry. Both a
// record's Info dict and its per-atom Arrays dict are one of these:
// iteration order matters for the writer, which must reproduce keys in the
// order they were first seen (or inserted, for records built in code).
type Dict = *orderedmap.OrderedMap[string, *DictEntry]

// NewDict returns an empty Dict.
func NewDict() Dict {
	return orderedmap.New[string, *DictEntry]()
}

// dictSet inserts or overwrites key, returning an error if it was already
// present and overwrite is false. Used by the builder to implement the
// duplicate-info-key rejection from DESIGN.md decision 2.
func dictSet(d Dict, key string, entry *DictEntry, overwrite bool) error {
	if _, existed := d.Get(key); existed && !overwrite {
		return errDuplicateInfoKey(key)
	}
	d.Set(key, entry)
	return nil
}

// dictGetCI looks up a key case-insensitively — used for the handful of
// recognized marker keys (Properties, Lattice/Cell, pbc) whose matching
// is defined to be case-insensitive regardless of how they were spelled
// in the source file.
func dictGetCI(d Dict, key string) (*DictEntry, bool) {
	for pair := d.Oldest(); pair != nil; pair = pair.Next() {
		if strings.EqualFold(pair.Key, key) {
			return pair.Value, true
		}
	}
	return nil, false
}

// dictKeys returns a dict's keys in insertion order.
func dictKeys(d Dict) []string {
	keys := make([]string, 0, d.Len())
	for pair := d.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
