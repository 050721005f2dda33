// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package expr

import (
	"strings"

	"github.com/loomtale/loom/internal/loom/entropy"
	"github.com/loomtale/loom/internal/loom/loomerr"
	"github.com/loomtale/loom/internal/loom/scope"
	"github.com/loomtale/loom/internal/loom/value"
)

// Context carries everything the evaluator needs to resolve an AST:
// the scope adapter and store for $NAME lookups, an entropy source for
// either()/random(), and a mutable error-accumulation slice owned by the
// caller (spec.md §9: "internal functions take a mutable reference to
// the error list and append rather than returning failures").
type Context struct {
	Scope   scope.Adapter
	Store   scope.Store
	Entropy entropy.Source
	Errors  *[]loomerr.Record
	Passage string
}

func (c *Context) recordf(code string, pos int, format string, args ...any) {
	if c.Errors == nil {
		return
	}
	var rec loomerr.Record
	switch code {
	case loomerr.CodeExpression:
		rec = loomerr.Expression(c.Passage, pos, format, args...)
	case loomerr.CodeType:
		rec = loomerr.TypeMismatch(c.Passage, pos, format, args...)
	default:
		rec = loomerr.New(code, c.Passage, pos, format, args...)
	}
	*c.Errors = append(*c.Errors, rec)
}

// EvaluateString parses and evaluates src in one step. A malformed
// expression yields integer zero and an accumulated ExpressionError
// (spec.md §4.2 "Failure policy").
func EvaluateString(src string, ctx *Context) value.Value {
	ast, err := Parse(src)
	if err != nil {
		ctx.recordf(loomerr.CodeExpression, 0, "malformed expression %q: %v", src, err)
		return value.Zero()
	}
	return Eval(ast, ctx)
}

// EvaluateConditionString parses src and reduces it to a boolean via the
// DSL's truthiness rule (spec.md §4.3).
func EvaluateConditionString(src string, ctx *Context) bool {
	return EvaluateString(src, ctx).Truthy()
}

// Eval evaluates a parsed expression AST against ctx. A lone operand (no
// "or" present) passes through unchanged — "or" only collapses its
// result to a boolean when it actually has more than one operand to
// combine, so a bare arithmetic/string/variable expression keeps its
// own type ($H + 5 stays Int(15), not Bool(true)).
func Eval(e *OrExpr, ctx *Context) value.Value {
	result := evalAnd(e.Operands[0], ctx)
	if len(e.Operands) == 1 {
		return result
	}
	for _, rest := range e.Operands[1:] {
		if result.Truthy() {
			return value.Bool(true)
		}
		result = evalAnd(rest, ctx)
	}
	return value.Bool(result.Truthy())
}

func evalAnd(e *AndExpr, ctx *Context) value.Value {
	result := evalNot(e.Operands[0], ctx)
	if len(e.Operands) == 1 {
		return result
	}
	for _, rest := range e.Operands[1:] {
		if !result.Truthy() {
			return value.Bool(false)
		}
		result = evalNot(rest, ctx)
	}
	return value.Bool(result.Truthy())
}

func evalNot(e *NotExpr, ctx *Context) value.Value {
	if e.Negated != nil {
		return value.Bool(!evalNot(e.Negated, ctx).Truthy())
	}
	return evalComparison(e.Comparison, ctx)
}

func evalComparison(c *Comparison, ctx *Context) value.Value {
	left := evalAdditive(c.Left, ctx)
	if c.Op == "" {
		return left
	}
	right := evalAdditive(c.Right, ctx)
	op := normalizeComparator(c.Op)

	switch {
	case left.IsNumeric() && right.IsNumeric():
		return value.Bool(compareNumbers(left.Float64(), right.Float64(), op))
	case left.IsString() && right.IsString():
		return value.Bool(compareStrings(left.Str(), right.Str(), op))
	case left.IsBool() && right.IsBool():
		return value.Bool(compareBools(left.BoolVal(), right.BoolVal(), op))
	default:
		// Type mismatch across comparison operands: fail-safe boolean
		// plus a recorded TypeMismatch, matching the numeric/string
		// operator paths above (see DESIGN.md for this Open Question).
		ctx.recordf(loomerr.CodeType, c.Pos.Offset, "cannot compare %q to %q", left.String(), right.String())
		if op == "==" {
			return value.Bool(false)
		}
		if op == "!=" {
			return value.Bool(true)
		}
		return value.Bool(false)
	}
}

// normalizeComparator maps word-form aliases to their symbolic equivalent
// (spec.md §4.2: "Word-form aliases ... are exactly equivalent").
func normalizeComparator(op string) string {
	switch op {
	case "is":
		return "=="
	case "neq":
		return "!="
	case "gt":
		return ">"
	case "gte":
		return ">="
	case "lt":
		return "<"
	case "lte":
		return "<="
	default:
		return op
	}
}

func compareNumbers(l, r float64, op string) bool {
	switch op {
	case "==":
		return l == r
	case "!=":
		return l != r
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "<":
		return l < r
	case "<=":
		return l <= r
	default:
		return false
	}
}

func compareStrings(l, r, op string) bool {
	switch op {
	case "==":
		return l == r
	case "!=":
		return l != r
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "<":
		return l < r
	case "<=":
		return l <= r
	default:
		return false
	}
}

func compareBools(l, r bool, op string) bool {
	switch op {
	case "==":
		return l == r
	case "!=":
		return l != r
	default:
		return false
	}
}

func evalAdditive(a *Additive, ctx *Context) value.Value {
	result := evalMultiplicative(a.Left, ctx)
	for _, term := range a.Rest {
		right := evalMultiplicative(term.Right, ctx)
		result = applyAdditive(result, term.Op, right, ctx, a.Pos.Offset)
	}
	return result
}

// applyAdditive implements spec.md §4.2: "+" with any string operand
// concatenates (the non-string operand is stringified); otherwise
// numeric addition with int-preserving arithmetic. "-" is numeric only.
func applyAdditive(left value.Value, op string, right value.Value, ctx *Context, pos int) value.Value {
	if op == "+" && (left.IsString() || right.IsString()) {
		return value.String(left.String() + right.String())
	}
	if !left.IsNumeric() || !right.IsNumeric() {
		ctx.recordf(loomerr.CodeType, pos, "operator %q requires numeric operands", op)
		return value.Zero()
	}
	switch op {
	case "+":
		if left.IsInt() && right.IsInt() {
			return value.Int(left.Int64() + right.Int64())
		}
		return value.Float(left.Float64() + right.Float64())
	case "-":
		if left.IsInt() && right.IsInt() {
			return value.Int(left.Int64() - right.Int64())
		}
		return value.Float(left.Float64() - right.Float64())
	default:
		return value.Zero()
	}
}

func evalMultiplicative(m *Multiplicative, ctx *Context) value.Value {
	result := evalUnary(m.Left, ctx)
	for _, term := range m.Rest {
		right := evalUnary(term.Right, ctx)
		result = applyMultiplicative(result, term.Op, right, ctx, m.Pos.Offset)
	}
	return result
}

func applyMultiplicative(left value.Value, op string, right value.Value, ctx *Context, pos int) value.Value {
	if !left.IsNumeric() || !right.IsNumeric() {
		ctx.recordf(loomerr.CodeType, pos, "operator %q requires numeric operands", op)
		return value.Zero()
	}
	switch op {
	case "*":
		if left.IsInt() && right.IsInt() {
			return value.Int(left.Int64() * right.Int64())
		}
		return value.Float(left.Float64() * right.Float64())
	case "/":
		if right.Float64() == 0 {
			ctx.recordf(loomerr.CodeExpression, pos, "division by zero")
			return value.Zero()
		}
		if left.IsInt() && right.IsInt() && left.Int64()%right.Int64() == 0 {
			return value.Int(left.Int64() / right.Int64())
		}
		return value.Float(left.Float64() / right.Float64())
	case "%":
		if right.Float64() == 0 {
			ctx.recordf(loomerr.CodeExpression, pos, "modulo by zero")
			return value.Zero()
		}
		if left.IsInt() && right.IsInt() {
			return value.Int(left.Int64() % right.Int64())
		}
		lf, rf := left.Float64(), right.Float64()
		return value.Float(lf - rf*float64(int64(lf/rf)))
	default:
		return value.Zero()
	}
}

func evalUnary(u *Unary, ctx *Context) value.Value {
	if u.Negated != nil {
		v := evalUnary(u.Negated, ctx)
		if !v.IsNumeric() {
			ctx.recordf(loomerr.CodeType, u.Pos.Offset, "unary '-' requires a numeric operand")
			return value.Zero()
		}
		if v.IsInt() {
			return value.Int(-v.Int64())
		}
		return value.Float(-v.Float64())
	}
	return evalPrimary(u.Primary, ctx)
}

func evalPrimary(p *Primary, ctx *Context) value.Value {
	switch {
	case p.Str != nil:
		return value.String(unquote(*p.Str))
	case p.Number != nil:
		return value.ParseLiteral(*p.Number)
	case p.Bool != nil:
		return value.Bool(*p.Bool == "true")
	case p.Call != nil:
		return evalCall(p.Call, ctx)
	case p.Var != nil:
		return evalVar(*p.Var, ctx)
	case p.Paren != nil:
		return Eval(p.Paren, ctx)
	default:
		ctx.recordf(loomerr.CodeExpression, p.Pos.Offset, "empty expression")
		return value.Zero()
	}
}

// unquote strips a single matching pair of leading/trailing quote
// characters (" or '); the lexer guarantees the token is always
// well-formed (paired quotes), so this never needs to report failure.
func unquote(lexeme string) string {
	if len(lexeme) >= 2 {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}

// Combine applies a binary arithmetic operator (one of "+", "-", "*",
// "/", "%") to two already-evaluated operands, sharing exactly the
// promotion and error-recording rules applyAdditive/applyMultiplicative
// use for in-expression arithmetic. The macro interpreter calls this for
// compound assignment (<<set $V += EXPR>> and friends) so int-preserving
// arithmetic and division-by-zero handling stay in one place.
func Combine(op string, left, right value.Value, ctx *Context) value.Value {
	switch op {
	case "+", "-":
		return applyAdditive(left, op, right, ctx, 0)
	case "*", "/", "%":
		return applyMultiplicative(left, op, right, ctx, 0)
	default:
		return value.Zero()
	}
}

// evalVar resolves a $NAME reference through the scope adapter. Missing
// variables read as integer zero (spec.md §3, §4.2) and never error.
func evalVar(ref string, ctx *Context) value.Value {
	name := strings.TrimPrefix(ref, "$")
	raw, ok := ctx.Scope.Get(ctx.Store, name)
	if !ok {
		return value.Zero()
	}
	return value.FromAny(raw)
}
