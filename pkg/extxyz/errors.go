// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"fmt"

	"github.com/samber/oops"
)

// Kind tags the structural reason a parse or decode operation failed.
// There is no end-of-stream Kind: ReadRecord reports the end of the
// stream with a (nil, nil) return instead (idiomatic Go for "no more
// records" rather than a sentinel error).
type Kind string

// Error kinds, matching the extxyz record format's failure modes.
const (
	KindBadNatoms              Kind = "BadNatoms"
	KindIOFailure              Kind = "IOFailure"
	KindHeaderParseFailed      Kind = "HeaderParseFailed"
	KindInconsistentArrayShape Kind = "InconsistentArrayShape"
	KindIncompatibleArrayTypes Kind = "IncompatibleArrayTypes"
	KindBadPropertiesSchema    Kind = "BadPropertiesSchema"
	KindAtomLineMismatch       Kind = "AtomLineMismatch"
	KindUnknownPropertyType    Kind = "UnknownPropertyType"
	KindInternalError          Kind = "InternalError"
	// KindDuplicateInfoKey is not part of the original error catalogue;
	// spec treats duplicate info keys as an open question implementations
	// may reject. See DESIGN.md decision 2.
	KindDuplicateInfoKey Kind = "DuplicateInfoKey"
)

// KindOf extracts the Kind tag from an error produced by this package, or
// "" if err didn't originate here.
func KindOf(err error) Kind {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code := oopsErr.Code()
	return Kind(code)
}

func newError(kind Kind, msg string, kvs ...any) error {
	b := oops.In("extxyz").Code(string(kind))
	for i := 0; i+1 < len(kvs); i += 2 {
		key, ok := kvs[i].(string)
		if !ok {
			continue
		}
		b = b.With(key, kvs[i+1])
	}
	return b.Errorf("%s", msg)
}

func errBadNatoms(raw string) error {
	return newError(KindBadNatoms, fmt.Sprintf("first line %q is not a positive integer atom count", raw), "raw", raw)
}

func errIOFailure(cause error) error {
	return oops.In("extxyz").Code(string(KindIOFailure)).Wrapf(cause, "reading record")
}

func errHeaderParseFailed(line int, col int) error {
	return newError(KindHeaderParseFailed, "comment line is not a valid extxyz header", "line", line, "column", col)
}

func errInconsistentArrayShape(key string, row, observed, expected int) error {
	return newError(KindInconsistentArrayShape,
		fmt.Sprintf("array %q: row %d has %d elements, expected %d", key, row, observed, expected),
		"key", key, "row", row, "observed", observed, "expected", expected)
}

func errIncompatibleArrayTypes(key string, from, to Tag) error {
	return newError(KindIncompatibleArrayTypes,
		fmt.Sprintf("array %q: cannot mix %s with %s", key, from, to),
		"key", key, "from", from.String(), "to", to.String())
}

func errBadPropertiesSchema(reason string) error {
	return newError(KindBadPropertiesSchema, "bad Properties schema: "+reason, "reason", reason)
}

func errAtomLineMismatch(lineIndex int, reason string) error {
	return newError(KindAtomLineMismatch,
		fmt.Sprintf("atom line %d: %s", lineIndex, reason), "line_index", lineIndex, "reason", reason)
}

func errUnknownPropertyType(ch byte) error {
	return newError(KindUnknownPropertyType, fmt.Sprintf("unknown property type %q", string(ch)), "type", string(ch))
}

func errInternal(msg string) error {
	return newError(KindInternalError, msg)
}

func errDuplicateInfoKey(key string) error {
	return newError(KindDuplicateInfoKey, fmt.Sprintf("duplicate info key %q", key), "key", key)
}
