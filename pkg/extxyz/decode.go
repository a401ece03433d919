// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
)

// decodeRows reads nat atom lines from r, matches each against re, and
// converts the captured fields into the Arrays dict described by cols
// (§4.6). Single-column entries are normalized to 1-D vectors once all
// rows are in.
func decodeRows(r *bufio.Reader, nat int, cols []ColumnDescriptor, re *regexp.Regexp) (Dict, error) {
	arrays := NewDict()
	entries := make([]*DictEntry, len(cols))
	for i, col := range cols {
		e := &DictEntry{Tag: col.Type, Shape: Shape{Rows: nat, Cols: col.Width}}
		switch col.Type {
		case TagInt:
			e.Ints = make([]int64, nat*col.Width)
		case TagFloat:
			e.Floats = make([]float64, nat*col.Width)
		case TagBool:
			e.Bools = make([]bool, nat*col.Width)
		case TagString:
			e.Strings = make([]string, nat*col.Width)
		default:
			return nil, errInternal("column " + col.Name + " has no recognized type tag")
		}
		entries[i] = e
		if err := dictSet(arrays, col.Name, e, false); err != nil {
			return nil, err
		}
	}

	for row := 0; row < nat; row++ {
		line, err := readLine(r)
		if err != nil {
			if err == io.EOF {
				return nil, errAtomLineMismatch(row, "unexpected end of input")
			}
			return nil, errIOFailure(err)
		}
		match := re.FindStringSubmatch(line)
		if match == nil {
			return nil, errAtomLineMismatch(row, "line does not match the expected column pattern")
		}

		group := 1
		for ci, col := range cols {
			e := entries[ci]
			for w := 0; w < col.Width; w++ {
				text := match[group]
				group++
				idx := row*col.Width + w
				switch col.Type {
				case TagInt:
					n, perr := strconv.ParseInt(text, 10, 64)
					if perr != nil {
						return nil, errAtomLineMismatch(row, "bad integer field "+strconv.Quote(text))
					}
					e.Ints[idx] = n
				case TagFloat:
					f, perr := strconv.ParseFloat(rewriteExponent(text), 64)
					if perr != nil {
						return nil, errAtomLineMismatch(row, "bad float field "+strconv.Quote(text))
					}
					e.Floats[idx] = f
				case TagBool:
					e.Bools[idx] = text[0] == 'T' || text[0] == 't'
				case TagString:
					e.Strings[idx] = text
				}
			}
		}
	}

	for _, e := range entries {
		if e.Shape.Cols == 1 {
			e.Shape = Shape{Rows: 0, Cols: nat}
		}
	}
	return arrays, nil
}
