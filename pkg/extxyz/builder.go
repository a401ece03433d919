// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[+-]?(?:[0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)(?:[dDeE][+-]?[0-9]+)?$`)
	truePattern  = regexp.MustCompile(`^(?:T|True|TRUE)$`)
	falsePattern = regexp.MustCompile(`^(?:F|False|FALSE)$`)
)

// token is one classified element pulled from a parsed value, before it
// has been merged into a typed, shaped DictEntry.
type token struct {
	Tag   Tag
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// classifyScalar converts raw (already delimiter-unescaped) text into a
// tagged token, trying Int, then Float, then Bool, then falling back to
// String — the same priority order val_item's alternatives are declared
// in (§4.1).
func classifyScalar(raw string) (token, error) {
	switch {
	case intPattern.MatchString(raw):
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return token{}, errInternal("integer token failed to parse: " + raw)
		}
		return token{Tag: TagInt, Int: n}, nil
	case floatPattern.MatchString(raw):
		f, err := strconv.ParseFloat(rewriteExponent(raw), 64)
		if err != nil {
			return token{}, errInternal("float token failed to parse: " + raw)
		}
		return token{Tag: TagFloat, Float: f}, nil
	case truePattern.MatchString(raw):
		return token{Tag: TagBool, Bool: true}, nil
	case falsePattern.MatchString(raw):
		return token{Tag: TagBool, Bool: false}, nil
	default:
		return token{Tag: TagString, Str: raw}, nil
	}
}

// rewriteExponent normalizes a 'd'/'D' Fortran exponent marker to 'e' so
// strconv.ParseFloat accepts it.
func rewriteExponent(s string) string {
	if !strings.ContainsAny(s, "dD") {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c == 'd' || c == 'D' {
			b[i] = 'e'
		}
	}
	return string(b)
}

// buildInfo walks a parsed document into an ordered Info dict.
func buildInfo(doc *document) (Dict, error) {
	info := NewDict()
	for _, p := range doc.Pairs {
		key, err := p.Key.Text()
		if err != nil {
			return nil, err
		}
		entry, err := buildValue(key, p.Value)
		if err != nil {
			return nil, err
		}
		if err := dictSet(info, key, entry, false); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// buildValue converts one parsed value node into a typed, shaped entry.
func buildValue(key string, v *valueNode) (*DictEntry, error) {
	switch {
	case v.Array != nil:
		return buildBracketArray(key, v.Array)
	case v.LegacyDQ != "":
		return buildLegacyArray(key, v.LegacyDQ, '"', '"')
	case v.LegacyCB != "":
		return buildLegacyArray(key, v.LegacyCB, '{', '}')
	default:
		tok, err := classifyScalar(unescapeBare(v.Scalar))
		if err != nil {
			return nil, err
		}
		return entryFromTokens(key, []token{tok}, Shape{0, 0}, false)
	}
}

// buildBracketArray converts a '[' ... ']' literal into a 1-D or 2-D
// entry. All elements must uniformly be nested (2-D) or uniformly be
// scalars (1-D); a mix is treated as an inconsistent shape.
func buildBracketArray(key string, arr *arrayNode) (*DictEntry, error) {
	if len(arr.Elements) == 0 {
		return entryFromTokens(key, nil, Shape{0, 0}, false)
	}
	nested := arr.Elements[0].Nested != nil
	for _, el := range arr.Elements {
		if (el.Nested != nil) != nested {
			return nil, errInconsistentArrayShape(key, 0, 0, 0)
		}
	}
	if !nested {
		tokens := make([]token, 0, len(arr.Elements))
		for _, el := range arr.Elements {
			tok, err := elementToken(el)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
		return entryFromTokens(key, tokens, Shape{0, len(tokens)}, false)
	}

	cols := 0
	tokens := make([]token, 0, len(arr.Elements)*4)
	for i, el := range arr.Elements {
		row := el.Nested
		for _, rel := range row.Elements {
			if rel.Nested != nil {
				return nil, errInconsistentArrayShape(key, i, 0, 0)
			}
		}
		if i == 0 {
			cols = len(row.Elements)
		} else if len(row.Elements) != cols {
			return nil, errInconsistentArrayShape(key, i, len(row.Elements), cols)
		}
		for _, rel := range row.Elements {
			tok, err := elementToken(rel)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}
	return entryFromTokens(key, tokens, Shape{len(arr.Elements), cols}, false)
}

// elementToken classifies one bracketed-array element: a double-quoted
// element is always a String, a bare one goes through classifyScalar.
func elementToken(el *arrayElement) (token, error) {
	if el.Quoted != "" {
		s, err := unquoteDouble(el.Quoted)
		if err != nil {
			return token{}, err
		}
		return token{Tag: TagString, Str: s}, nil
	}
	return classifyScalar(unescapeBare(el.Scalar))
}

// buildLegacyArray converts a quote- or brace-delimited space-separated
// list into an entry, applying the historical collapse/transpose rules:
// a single element collapses to a scalar, nine elements become a
// transposed 3x3 matrix, otherwise it's a plain 1-D vector (§4.3).
func buildLegacyArray(key, raw string, open, close byte) (*DictEntry, error) {
	text, err := unescapeQuoted(raw, open, close)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(text)
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		tok, err := classifyScalar(f)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	switch len(tokens) {
	case 0:
		return entryFromTokens(key, tokens, Shape{0, 0}, false)
	case 1:
		return entryFromTokens(key, tokens, Shape{0, 0}, false)
	case 9:
		return entryFromTokens(key, tokens, Shape{3, 3}, true)
	default:
		return entryFromTokens(key, tokens, Shape{0, len(tokens)}, false)
	}
}

// entryFromTokens validates type consistency/promotion across tokens and
// materializes the typed, shaped DictEntry. When transpose is set (the
// legacy 9-element case), element i of tokens is written to row-major
// position (i%3)*3+(i/3) instead of i — the historical Fortran-order
// convention for Lattice-like 3x3 matrices.
func entryFromTokens(key string, tokens []token, shape Shape, transpose bool) (*DictEntry, error) {
	entry := &DictEntry{Shape: shape}
	if len(tokens) == 0 {
		entry.Tag = TagString
		return entry, nil
	}

	tag := tokens[0].Tag
	for _, t := range tokens[1:] {
		if t.Tag == tag {
			continue
		}
		if (tag == TagInt && t.Tag == TagFloat) || (tag == TagFloat && t.Tag == TagInt) {
			tag = TagFloat
			continue
		}
		return nil, errIncompatibleArrayTypes(key, tag, t.Tag)
	}
	entry.Tag = tag

	n := len(tokens)
	switch tag {
	case TagInt:
		entry.Ints = make([]int64, n)
	case TagFloat:
		entry.Floats = make([]float64, n)
	case TagBool:
		entry.Bools = make([]bool, n)
	case TagString:
		entry.Strings = make([]string, n)
	}

	for i, t := range tokens {
		pos := i
		if transpose {
			pos = (i%3)*3 + (i / 3)
		}
		switch tag {
		case TagInt:
			entry.Ints[pos] = t.Int
		case TagFloat:
			if t.Tag == TagInt {
				entry.Floats[pos] = float64(t.Int)
			} else {
				entry.Floats[pos] = t.Float
			}
		case TagBool:
			entry.Bools[pos] = t.Bool
		case TagString:
			entry.Strings[pos] = t.Str
		}
	}
	return entry, nil
}
