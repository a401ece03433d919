// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"regexp"
	"strings"
)

// Per-type atom-line field patterns (§4.5). Each is wrapped in its own
// capture group by CompileRowRegex.
const (
	intFieldPattern    = `[+-]?[0-9]+`
	floatFieldPattern  = `[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[dDeE][+-]?[0-9]+)?`
	boolFieldPattern   = `[TF]|[tT]rue|[fF]alse|TRUE|FALSE`
	stringFieldPattern = `\S+`
)

func fieldPattern(tag Tag) (string, error) {
	switch tag {
	case TagInt:
		return intFieldPattern, nil
	case TagFloat:
		return floatFieldPattern, nil
	case TagBool:
		return boolFieldPattern, nil
	case TagString:
		return stringFieldPattern, nil
	default:
		return "", errInternal("unclassified column type in row regex compiler")
	}
}

// CompileRowRegex builds one anchored, capturing regex matching a single
// atom line against the given schema: one capture group per column
// (a width-W column contributes W groups), separated by runs of
// whitespace, with optional leading/trailing whitespace (§4.5).
func CompileRowRegex(cols []ColumnDescriptor) (*regexp.Regexp, error) {
	var groups []string
	for _, col := range cols {
		pat, err := fieldPattern(col.Type)
		if err != nil {
			return nil, err
		}
		for i := 0; i < col.Width; i++ {
			groups = append(groups, "("+pat+")")
		}
	}
	if len(groups) == 0 {
		return nil, errBadPropertiesSchema("schema has zero total column width")
	}
	pattern := `^\s*` + strings.Join(groups, `\s+`) + `\s*$`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errInternal("compiling row regex: " + err.Error())
	}
	if re.NumSubexp() != len(groups) {
		return nil, errInternal("row regex capture count mismatch")
	}
	return re, nil
}
