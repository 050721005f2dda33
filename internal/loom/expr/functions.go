// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package expr

import (
	"github.com/loomtale/loom/internal/loom/loomerr"
	"github.com/loomtale/loom/internal/loom/value"
)

// evalCall dispatches a FunctionCall to either() or random() (spec.md
// §4.2 "Functions"). An unknown function name or a bad argument count is
// an ExpressionError; the call result is then integer zero.
func evalCall(call *FunctionCall, ctx *Context) value.Value {
	switch call.Name {
	case "either":
		return evalEither(call, ctx)
	case "random":
		return evalRandom(call, ctx)
	default:
		ctx.recordf(loomerr.CodeExpression, call.Pos.Offset, "unknown function %q", call.Name)
		return value.Zero()
	}
}

// evalEither returns one argument chosen uniformly at random from the
// argument list (spec.md §4.2). All arguments are evaluated (in source
// order, for side-effect-free determinism of the others) before the
// choice is made.
func evalEither(call *FunctionCall, ctx *Context) value.Value {
	if len(call.Args) == 0 {
		ctx.recordf(loomerr.CodeExpression, call.Pos.Offset, "either() requires at least one argument")
		return value.Zero()
	}
	results := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		results[i] = Eval(arg, ctx)
	}
	idx := ctx.Entropy.IntRange(0, int64(len(results)-1))
	return results[idx]
}

// evalRandom returns a uniformly-chosen integer in the inclusive range
// [min, max] (spec.md §4.2).
func evalRandom(call *FunctionCall, ctx *Context) value.Value {
	if len(call.Args) != 2 {
		ctx.recordf(loomerr.CodeExpression, call.Pos.Offset, "random() requires exactly two arguments, got %d", len(call.Args))
		return value.Zero()
	}
	minV := Eval(call.Args[0], ctx)
	maxV := Eval(call.Args[1], ctx)
	if !minV.IsNumeric() || !maxV.IsNumeric() {
		ctx.recordf(loomerr.CodeType, call.Pos.Offset, "random() requires numeric arguments")
		return value.Zero()
	}
	return value.Int(ctx.Entropy.IntRange(int64(minV.Float64()), int64(maxV.Float64())))
}
