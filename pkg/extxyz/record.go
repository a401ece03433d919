// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Record is one parsed configuration: an atom count, an Info dict (the
// comment line's key/value pairs), and an Arrays dict (the per-atom
// columns). PlainXYZ and Comment are set when the comment line carried
// none of the recognized extxyz marker keys and was kept verbatim
// instead of being parsed as key/value pairs (§4.7 step 6).
type Record struct {
	Nat      int
	Info     Dict
	Arrays   Dict
	PlainXYZ bool
	Comment  string
}

// Lattice returns the record's Lattice (or Cell, its recognized alias)
// entry, if present. Cell is accepted because the original extxyz tool
// family treats the two names interchangeably for the same 3x3 matrix.
func (r *Record) Lattice() (*DictEntry, bool) {
	if e, ok := dictGetCI(r.Info, "Lattice"); ok {
		return e, true
	}
	return dictGetCI(r.Info, "Cell")
}

// PBC returns the record's periodic-boundary-condition flags from the
// legacy "pbc" info key, if present. The second return is false when no
// pbc key was set, in which case all three flags should be treated as
// the caller's own default rather than a meaningful value.
func (r *Record) PBC() ([3]bool, bool) {
	var out [3]bool
	e, ok := dictGetCI(r.Info, "pbc")
	if !ok {
		return out, false
	}
	switch {
	case e.Shape.IsScalar() && e.Tag == TagBool:
		out[0], out[1], out[2] = e.Bools[0], e.Bools[0], e.Bools[0]
		return out, true
	case e.Shape.IsVector() && e.Tag == TagBool && len(e.Bools) == 3:
		copy(out[:], e.Bools)
		return out, true
	default:
		return out, false
	}
}

// readLine reads one line from r, stripping the trailing newline and any
// preceding carriage return. It reports io.EOF only when no bytes at all
// were read before the stream ended; a final unterminated line is
// returned successfully.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// ReadRecord reads one record from r using the compiled grammar g. It
// returns (nil, nil) at a clean end of stream or on a blank line, both
// of which are tolerated record terminators rather than errors (§4.7).
func ReadRecord(g *Grammar, r *bufio.Reader) (*Record, error) {
	firstLine, err := readLine(r)
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errIOFailure(err)
	}
	if strings.TrimSpace(firstLine) == "" {
		return nil, nil
	}

	nat, err := strconv.Atoi(strings.TrimSpace(firstLine))
	if err != nil || nat <= 0 {
		return nil, errBadNatoms(firstLine)
	}

	commentLine, err := readLine(r)
	if err != nil {
		if err == io.EOF {
			return nil, errIOFailure(io.ErrUnexpectedEOF)
		}
		return nil, errIOFailure(err)
	}

	rec := &Record{Nat: nat}

	doc, perr := g.parseHeader(commentLine)
	switch {
	case perr == nil:
		info, err := buildInfo(doc)
		if err != nil {
			return nil, err
		}
		rec.Info = info
	case hasMarkerKey(commentLine):
		line, col := headerParsePosition(perr)
		return nil, errHeaderParseFailed(line, col)
	default:
		rec.PlainXYZ = true
		rec.Comment = commentLine
		info := NewDict()
		info.Set("comment", &DictEntry{Tag: TagString, Shape: Shape{0, 0}, Strings: []string{commentLine}})
		rec.Info = info
	}

	propsStr := g.defaultProperties
	if propsStr == "" {
		propsStr = DefaultProperties
	}
	if entry, ok := dictGetCI(rec.Info, "Properties"); ok {
		if entry.Tag != TagString || !entry.Shape.IsScalar() {
			return nil, errBadPropertiesSchema("Properties value must be a string scalar")
		}
		propsStr = entry.Strings[0]
	}

	cols, err := ParseProperties(propsStr)
	if err != nil {
		return nil, err
	}
	re, err := CompileRowRegex(cols)
	if err != nil {
		return nil, err
	}
	arrays, err := decodeRows(r, nat, cols, re)
	if err != nil {
		return nil, err
	}
	rec.Arrays = arrays
	return rec, nil
}
