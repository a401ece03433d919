// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// document is the root of a parsed comment line: a sequence of key/value
// pairs. Scalar type classification (Int/Float/Bool/String) and array
// shape inference are deliberately NOT modeled here — the grammar only
// captures structure (a key, a value that is a scalar token, a legacy
// quoted list, or a bracketed array); builder.go does the rest.
type document struct {
	Pos   lexer.Position `parser:""`
	Pairs []*pair        `parser:"@@*"`
}

// pair is one "key=value" entry.
type pair struct {
	Pos   lexer.Position `parser:""`
	Key   *keyNode       `parser:"@@ '='"`
	Value *valueNode     `parser:"@@"`
}

// keyNode is a bare or double-quoted key. Brace/bracket-quoted keys are
// not modeled; see DESIGN.md decision 3.
type keyNode struct {
	Pos    lexer.Position `parser:""`
	Bare   string         `parser:"  @Bare"`
	Quoted string         `parser:"| @DQString"`
}

// Text returns the key's logical (unquoted) text.
func (k *keyNode) Text() (string, error) {
	if k.Quoted != "" {
		return unquoteDouble(k.Quoted)
	}
	return unescapeBare(k.Bare), nil
}

// valueNode is one of: a bracketed array literal, a legacy quote/brace
// form, or a bare scalar token. The three cases are distinguished by
// their leading token (LBracket vs DQString/CBString vs Bare), so no
// backtracking is required to choose between them.
type valueNode struct {
	Pos      lexer.Position `parser:""`
	Array    *arrayNode     `parser:"  @@"`
	LegacyDQ string         `parser:"| @DQString"`
	LegacyCB string         `parser:"| @CBString"`
	Scalar   string         `parser:"| @Bare"`
}

// arrayNode is a bracketed, comma-separated list of elements, each either
// a bare scalar token, a double-quoted string, or a nested arrayNode (for
// a 2-D matrix literal).
type arrayNode struct {
	Pos      lexer.Position  `parser:""`
	Elements []*arrayElement `parser:"'[' (@@ (',' @@)*)? ']'"`
}

type arrayElement struct {
	Pos    lexer.Position `parser:""`
	Nested *arrayNode     `parser:"  @@"`
	Scalar string         `parser:"| @Bare"`
	Quoted string         `parser:"| @DQString"`
}

// Grammar is a compiled, immutable matcher for the extxyz comment-line
// syntax. It is safe for concurrent use; compile it once and share it.
type Grammar struct {
	parser            *participle.Parser[document]
	defaultProperties string
}

// CompileGrammar builds the comment-line grammar. Call it once at
// startup; the result is a pure value with no mutable global state.
// Records with no Properties key fall back to DefaultProperties; use
// WithDefaultProperties to override that for a caller-supplied schema.
func CompileGrammar() (*Grammar, error) {
	p, err := participle.Build[document](
		participle.Lexer(headerLexer),
		participle.UseLookahead(participle.MaxLookahead),
	)
	if err != nil {
		return nil, errInternal("building header grammar: " + err.Error())
	}
	return &Grammar{parser: p, defaultProperties: DefaultProperties}, nil
}

// WithDefaultProperties returns a copy of g that assumes props for
// records whose comment line carries no Properties key, instead of the
// package-level DefaultProperties. An empty props restores the default.
func (g *Grammar) WithDefaultProperties(props string) *Grammar {
	out := *g
	if props == "" {
		props = DefaultProperties
	}
	out.defaultProperties = props
	return &out
}

// markerKeyPattern recognizes the extxyz keys whose presence in an
// unparseable comment line rules out the plain-xyz fallback (spec §4.7
// step 5). Matching is case-insensitive and does not require a full
// parse, since by definition the line didn't fully parse.
var markerKeyPattern = regexp.MustCompile(`(?i)\b(lattice|cell|properties)\s*=`)

// hasMarkerKey reports whether line mentions a recognized extxyz key.
func hasMarkerKey(line string) bool {
	return markerKeyPattern.MatchString(line)
}

// parseHeader parses one comment line against the compiled grammar. It
// returns the parsed document on full success. On failure it returns the
// underlying participle error, from which the caller can recover a
// source position via participle.Error.
func (g *Grammar) parseHeader(line string) (*document, error) {
	doc, err := g.parser.ParseString("", line)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// headerParsePosition extracts a 1-based line/column position from a
// participle parse error, falling back to (1, 0) if err isn't one.
func headerParsePosition(err error) (line, col int) {
	var perr participle.Error
	if ok := errorsAs(err, &perr); ok {
		pos := perr.Position()
		return pos.Line, pos.Column
	}
	return 1, 0
}

// errorsAs is a tiny local wrapper so this file doesn't need to import
// "errors" just for the one As call above.
func errorsAs(err error, target *participle.Error) bool {
	for err != nil {
		if pe, ok := err.(participle.Error); ok {
			*target = pe
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// unescapeBare reverses r_barestring's escape-of-delimiters rule: a
// backslash followed by any of the reserved characters becomes that
// character literally; any other byte passes through unchanged.
func unescapeBare(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// unquoteDouble strips the surrounding quotes from a DQString token and
// applies the spec's unescape rules (\n → newline, \\ → \, else passthrough).
func unquoteDouble(s string) (string, error) {
	return unescapeQuoted(s, '"', '"')
}

// unescapeQuoted strips one leading open / trailing close byte pair and
// applies the comment line's quoted-string unescape rule.
func unescapeQuoted(s string, open, close byte) (string, error) {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return "", errInternal("malformed quoted token")
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
