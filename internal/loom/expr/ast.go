// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

// Package expr implements the Loom expression grammar (spec.md §4.2): the
// arithmetic/comparison/logical language embedded in <<set>>, <<print>>,
// and <<if>> macro arguments. The grammar is built with participle,
// following the same lexer-rule-ordering and ordered-choice AST style as
// the teacher's policy DSL (participle.MustSimple lexer, one struct per
// grammar production, PEG ordered alternatives for ambiguous prefixes).
package expr

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer tokenizes expression source. Order matters: longer operator
// patterns must precede shorter ones that share a prefix (">=" before
// ">"), exactly as the teacher's dslLexer documents.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Var", Pattern: `\$[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "OpEq", Pattern: `==`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpGe", Pattern: `>=`},
	{Name: "OpLe", Pattern: `<=`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Minus", Pattern: `-`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Percent", Pattern: `%`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// --- AST node types, low-to-high precedence (spec.md §4.2) ---

// OrExpr is a chain of AndExpr joined by the word "or".
type OrExpr struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Operands []*AndExpr     `parser:"@@ ('or' @@)*" json:"operands"`
}

// AndExpr is a chain of NotExpr joined by the word "and".
type AndExpr struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Operands []*NotExpr     `parser:"@@ ('and' @@)*" json:"operands"`
}

// NotExpr is an optional unary prefix "not" wrapping a Comparison.
type NotExpr struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Negated    *NotExpr       `parser:"  'not' @@" json:"negated,omitempty"`
	Comparison *Comparison    `parser:"| @@" json:"comparison,omitempty"`
}

// Comparison is a single (non-chaining) comparison of two Additive
// expressions. Word-form aliases (is/neq/gt/gte/lt/lte) are exactly
// equivalent to the symbolic forms (spec.md §4.2).
type Comparison struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Left  *Additive      `parser:"@@" json:"left"`
	Op    string         `parser:"(@(OpEq | 'is' | OpNe | 'neq' | OpGe | 'gte' | OpLe | 'lte' | OpGt | 'gt' | OpLt | 'lt')" json:"op,omitempty"`
	Right *Additive      `parser:"  @@)?" json:"right,omitempty"`
}

// Additive is a left-associative chain of +/- operations.
type Additive struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Left  *Multiplicative `parser:"@@" json:"left"`
	Rest  []*AddTerm      `parser:"@@*" json:"rest,omitempty"`
}

// AddTerm is one (operator, operand) pair in an Additive chain.
type AddTerm struct {
	Pos   lexer.Position  `parser:"" json:"-"`
	Op    string          `parser:"@(Plus | Minus)" json:"op"`
	Right *Multiplicative `parser:"@@" json:"right"`
}

// Multiplicative is a left-associative chain of *,/,% operations.
type Multiplicative struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Left *Unary         `parser:"@@" json:"left"`
	Rest []*MulTerm     `parser:"@@*" json:"rest,omitempty"`
}

// MulTerm is one (operator, operand) pair in a Multiplicative chain.
type MulTerm struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Op    string         `parser:"@(Star | Slash | Percent)" json:"op"`
	Right *Unary         `parser:"@@" json:"right"`
}

// Unary is a recursive chain of unary minus wrapping a Primary.
type Unary struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Negated *Unary         `parser:"  Minus @@" json:"negated,omitempty"`
	Primary *Primary       `parser:"| @@" json:"primary,omitempty"`
}

// Primary is the innermost grammar production: a literal, a variable
// reference, a function call, or a parenthesized expression.
type Primary struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Str      *string        `parser:"  @String" json:"str,omitempty"`
	Number   *string        `parser:"| @Number" json:"number,omitempty"`
	Bool     *string        `parser:"| @('true' | 'false')" json:"bool,omitempty"`
	Call     *FunctionCall  `parser:"| @@" json:"call,omitempty"`
	Var      *string        `parser:"| @Var" json:"var,omitempty"`
	Paren    *OrExpr        `parser:"| '(' @@ ')'" json:"paren,omitempty"`
}

// FunctionCall represents either(...) or random(...). The function name
// must be immediately followed by "(" so it is never confused with a
// bare identifier (the grammar has no other use for bare identifiers in
// Primary position).
type FunctionCall struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"@Ident '('" json:"name"`
	Args []*OrExpr      `parser:"(@@ (',' @@)*)? ')'" json:"args,omitempty"`
}

// --- String() methods: readable re-rendering for diagnostics/tests ---

func (e *OrExpr) String() string {
	return joinOperands(e.Operands, " or ")
}

func (e *AndExpr) String() string {
	return joinOperands(e.Operands, " and ")
}

func joinOperands[T fmt.Stringer](ops []T, sep string) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = o.String()
	}
	return strings.Join(parts, sep)
}

func (e *NotExpr) String() string {
	if e.Negated != nil {
		return "not " + e.Negated.String()
	}
	return e.Comparison.String()
}

func (c *Comparison) String() string {
	if c.Op == "" {
		return c.Left.String()
	}
	return c.Left.String() + " " + c.Op + " " + c.Right.String()
}

func (a *Additive) String() string {
	s := a.Left.String()
	for _, t := range a.Rest {
		s += " " + t.Op + " " + t.Right.String()
	}
	return s
}

func (m *Multiplicative) String() string {
	s := m.Left.String()
	for _, t := range m.Rest {
		s += " " + t.Op + " " + t.Right.String()
	}
	return s
}

func (u *Unary) String() string {
	if u.Negated != nil {
		return "-" + u.Negated.String()
	}
	return u.Primary.String()
}

func (p *Primary) String() string {
	switch {
	case p.Str != nil:
		return *p.Str
	case p.Number != nil:
		return *p.Number
	case p.Bool != nil:
		return *p.Bool
	case p.Call != nil:
		return p.Call.String()
	case p.Var != nil:
		return *p.Var
	case p.Paren != nil:
		return "(" + p.Paren.String() + ")"
	default:
		return "<empty>"
	}
}

func (f *FunctionCall) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return f.Name + "(" + strings.Join(parts, ", ") + ")"
}
