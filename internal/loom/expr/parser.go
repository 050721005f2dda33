// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package expr

import (
	"github.com/alecthomas/participle/v2"
)

// exprParser is the singleton participle parser instance, built once at
// package init exactly like the teacher's policy DSL parser.
var exprParser *participle.Parser[OrExpr]

func init() {
	var err error
	// Unlike the teacher's dslLexer, we do not use participle.Unquote here:
	// Loom strings accept both "double" and 'single' quoting (spec.md §6),
	// and strconv.Unquote (which Unquote delegates to) only understands
	// Go's own double-quote/backtick/rune forms. Quote-stripping is done
	// by hand in the evaluator instead.
	exprParser, err = participle.Build[OrExpr](
		participle.Lexer(exprLexer),
		participle.UseLookahead(participle.MaxLookahead),
	)
	if err != nil {
		panic("failed to build expression parser: " + err.Error())
	}
}

// Parse parses a Loom expression string into its AST. On a malformed
// expression it returns a non-nil error; callers in the render pipeline
// must catch this and fall back to the integer-zero result plus an
// accumulated ExpressionError (spec.md §4.2, §7) — Parse itself does not
// do the accumulating, it just reports the failure.
func Parse(src string) (*OrExpr, error) {
	return exprParser.ParseString("", src)
}
