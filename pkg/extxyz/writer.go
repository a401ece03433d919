// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var bareSafePattern = regexp.MustCompile(`^[^\s="{}\[\],\\]+$`)

// WriteRecord serializes rec to w in the three-part form described in
// §4.8: the atom count, the reconstructed comment line, then one line
// per atom with its columns in Arrays-dict insertion order.
func WriteRecord(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d\n", rec.Nat); err != nil {
		return errIOFailure(err)
	}

	comment, err := formatComment(rec.Info)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%s\n", comment); err != nil {
		return errIOFailure(err)
	}

	type column struct {
		entry *DictEntry
		width int
	}
	cols := make([]column, 0, rec.Arrays.Len())
	for pair := rec.Arrays.Oldest(); pair != nil; pair = pair.Next() {
		e := pair.Value
		width := 1
		if e.Shape.IsMatrix() {
			width = e.Shape.Cols
		}
		cols = append(cols, column{entry: e, width: width})
	}

	for atom := 0; atom < rec.Nat; atom++ {
		var fields []string
		for _, c := range cols {
			for k := 0; k < c.width; k++ {
				idx := atom*c.width + k
				text, err := elementText(c.entry, idx)
				if err != nil {
					return err
				}
				fields = append(fields, text)
			}
		}
		if _, err := fmt.Fprintf(bw, "%s\n", strings.Join(fields, " ")); err != nil {
			return errIOFailure(err)
		}
	}

	if err := bw.Flush(); err != nil {
		return errIOFailure(err)
	}
	return nil
}

// formatComment reconstructs the comment line from an Info dict,
// preserving insertion order and applying key/value quoting rules.
func formatComment(info Dict) (string, error) {
	var parts []string
	for pair := info.Oldest(); pair != nil; pair = pair.Next() {
		value, err := formatValue(pair.Value)
		if err != nil {
			return "", err
		}
		parts = append(parts, formatKey(pair.Key)+"="+value)
	}
	return strings.Join(parts, " "), nil
}

// formatKey quotes a key if it contains any character that would be
// ambiguous in bare form (§4.8).
func formatKey(key string) string {
	if bareSafePattern.MatchString(key) {
		return key
	}
	return quoteString(key)
}

// formatValue renders a DictEntry's scalar, vector, or matrix value.
func formatValue(e *DictEntry) (string, error) {
	switch {
	case e.Shape.IsScalar():
		return formatScalar(e)
	case e.Shape.IsVector():
		n := e.Shape.Len()
		items := make([]string, n)
		for i := 0; i < n; i++ {
			text, err := elementText(e, i)
			if err != nil {
				return "", err
			}
			items[i] = text
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	default:
		rows := make([]string, e.Shape.Rows)
		for r := 0; r < e.Shape.Rows; r++ {
			cells := make([]string, e.Shape.Cols)
			for c := 0; c < e.Shape.Cols; c++ {
				text, err := elementText(e, r*e.Shape.Cols+c)
				if err != nil {
					return "", err
				}
				cells[c] = text
			}
			rows[r] = "[" + strings.Join(cells, ", ") + "]"
		}
		return "[" + strings.Join(rows, ", ") + "]", nil
	}
}

// formatScalar renders a scalar entry, quoting String values that
// aren't safe to write bare.
func formatScalar(e *DictEntry) (string, error) {
	if e.Tag == TagString {
		s := e.Strings[0]
		if bareSafePattern.MatchString(s) {
			return s, nil
		}
		return quoteString(s), nil
	}
	return e.ScalarString()
}

// elementText renders a single element at flat index idx, quoting String
// elements that aren't bare-safe.
func elementText(e *DictEntry, idx int) (string, error) {
	switch e.Tag {
	case TagInt:
		return strconv.FormatInt(e.Ints[idx], 10), nil
	case TagFloat:
		return formatFloat(e.Floats[idx]), nil
	case TagBool:
		return formatBool(e.Bools[idx]), nil
	case TagString:
		s := e.Strings[idx]
		if bareSafePattern.MatchString(s) {
			return s, nil
		}
		return quoteString(s), nil
	default:
		return "", errInternal("element has no type tag")
	}
}

// quoteString wraps s in double quotes, escaping backslashes, embedded
// quotes, and newlines the way the comment-line grammar expects to
// unescape them on the next read (§4.3).
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}
