// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extxyz

import "github.com/alecthomas/participle/v2/lexer"

// headerLexer tokenizes one extxyz comment line. Order matters: longer or
// more specific patterns must come before shorter ones that could match a
// prefix of the same input (quoted forms and punctuation before Bare, so
// Bare never eats a delimiter it isn't allowed to contain).
var headerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "DQString", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "CBString", Pattern: `\{(?:\\.|[^{}\\])*\}`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Comma", Pattern: `,`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	// Bare matches a run of otherwise-unrestricted characters, including
	// backslash-escaped occurrences of the characters it would otherwise
	// have to stop at (mirrors r_barestring's escape-of-delimiters rule).
	{Name: "Bare", Pattern: `(?:\\[="{}\[\],\\]|[^\s="{}\[\],\\])+`},
	{Name: "whitespace", Pattern: `\s+`},
})
