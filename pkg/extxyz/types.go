// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"fmt"
	"strconv"
)

// Tag is the inferred element type of a DictEntry. TagNone means "not yet
// inferred" and never appears on a fully built entry.
type Tag int

// Element type tags, in promotion order (Int promotes to Float).
const (
	TagNone Tag = iota
	TagInt
	TagFloat
	TagBool
	TagString
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "Int"
	case TagFloat:
		return "Float"
	case TagBool:
		return "Bool"
	case TagString:
		return "String"
	default:
		return "None"
	}
}

// Shape describes a DictEntry's dimensionality using the conventions from
// the record data model: (0,0) is a scalar, (0,N) a 1-D vector of length
// N, and (R,C) a 2-D row-major matrix.
type Shape struct {
	Rows int
	Cols int
}

// IsScalar reports whether the shape represents a single value.
func (s Shape) IsScalar() bool { return s.Rows == 0 && s.Cols == 0 }

// IsVector reports whether the shape represents a 1-D array.
func (s Shape) IsVector() bool { return s.Rows == 0 && s.Cols > 0 }

// IsMatrix reports whether the shape represents a 2-D array.
func (s Shape) IsMatrix() bool { return s.Rows > 0 }

// Len returns the number of logical elements described by the shape.
func (s Shape) Len() int {
	switch {
	case s.IsScalar():
		return 1
	case s.IsVector():
		return s.Cols
	default:
		return s.Rows * s.Cols
	}
}

// DictEntry is one value in an Info or Arrays dictionary: a typed, shaped,
// densely packed buffer. Exactly one of the typed slices is populated,
// selected by Tag — a sum type over {Int, Float, Bool, String} expressed
// with parallel fields rather than interface{} boxing, so a decoded
// record's columns stay contiguous and allocation-cheap.
type DictEntry struct {
	Tag     Tag
	Shape   Shape
	Ints    []int64
	Floats  []float64
	Bools   []bool
	Strings []string
}

// Len reports the number of elements backing the entry, regardless of tag.
func (e *DictEntry) Len() int {
	switch e.Tag {
	case TagInt:
		return len(e.Ints)
	case TagFloat:
		return len(e.Floats)
	case TagBool:
		return len(e.Bools)
	case TagString:
		return len(e.Strings)
	default:
		return 0
	}
}

// ScalarString renders a scalar entry's single element as text, for
// display and for the writer's canonical-text formatting.
func (e *DictEntry) ScalarString() (string, error) {
	if !e.Shape.IsScalar() {
		return "", errInternal("ScalarString called on non-scalar entry")
	}
	switch e.Tag {
	case TagInt:
		return fmt.Sprintf("%d", e.Ints[0]), nil
	case TagFloat:
		return formatFloat(e.Floats[0]), nil
	case TagBool:
		return formatBool(e.Bools[0]), nil
	case TagString:
		return e.Strings[0], nil
	default:
		return "", errInternal("scalar entry has no type tag")
	}
}

func formatBool(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// formatFloat renders a float the way extxyz writers conventionally do:
// shortest round-trippable decimal, with ".0" appended when it would
// otherwise have no decimal point or exponent, so it is never mistaken
// for an Int on re-read. NaN and infinities are returned as "NaN",
// "+Inf" and "-Inf".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E', 'n', 'N':
			return s
		}
	}
	return s + ".0"
}
