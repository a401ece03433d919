// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultProperties is the schema assumed when a record's comment line
// carries no Properties key at all (spec §3, Arrays dict invariants).
const DefaultProperties = "species:S:1:pos:R:3"

var columnNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

// ColumnDescriptor is one (name, type, width) triple from a Properties
// string, describing one or more columns of the per-atom arrays.
type ColumnDescriptor struct {
	Name  string
	Type  Tag
	Width int
}

// ParseProperties tokenizes a Properties string on ':' and consumes
// (name, type, width) triples until exhausted (§4.4).
func ParseProperties(s string) ([]ColumnDescriptor, error) {
	parts := strings.Split(s, ":")
	if len(parts) == 0 || len(parts)%3 != 0 {
		return nil, errBadPropertiesSchema("expected name:type:width triples, got " + strconv.Itoa(len(parts)) + " fields")
	}

	cols := make([]ColumnDescriptor, 0, len(parts)/3)
	for i := 0; i < len(parts); i += 3 {
		name, typeChar, widthStr := parts[i], parts[i+1], parts[i+2]

		if !columnNamePattern.MatchString(name) {
			return nil, errBadPropertiesSchema("invalid column name " + strconv.Quote(name))
		}

		var tag Tag
		switch typeChar {
		case "I":
			tag = TagInt
		case "R":
			tag = TagFloat
		case "L":
			tag = TagBool
		case "S":
			tag = TagString
		default:
			if len(typeChar) != 1 {
				return nil, errBadPropertiesSchema("type must be a single character, got " + strconv.Quote(typeChar))
			}
			return nil, errUnknownPropertyType(typeChar[0])
		}

		width, err := strconv.Atoi(widthStr)
		if err != nil || width <= 0 {
			return nil, errBadPropertiesSchema("width for column " + strconv.Quote(name) + " must be a positive integer, got " + strconv.Quote(widthStr))
		}

		cols = append(cols, ColumnDescriptor{Name: name, Type: tag, Width: width})
	}
	return cols, nil
}

// totalWidth sums the widths of every column descriptor, i.e. the number
// of regex capture groups the row regex compiler must produce.
func totalWidth(cols []ColumnDescriptor) int {
	n := 0
	for _, c := range cols {
		n += c.Width
	}
	return n
}
