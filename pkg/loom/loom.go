// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package loom

import (
	"strings"

	"github.com/loomtale/loom/internal/loom/entropy"
	"github.com/loomtale/loom/internal/loom/expr"
	"github.com/loomtale/loom/internal/loom/loomerr"
	"github.com/loomtale/loom/internal/loom/parse"
	"github.com/loomtale/loom/internal/loom/render"
	"github.com/loomtale/loom/internal/loom/scope"
	"github.com/loomtale/loom/internal/loom/value"
)

// Re-exported types, so callers never need to import internal/loom/*
// directly (spec.md §3's ParseResult/RenderResult/Passage/Link/Setter).
type (
	Passage     = parse.Passage
	Link        = parse.Link
	Setter      = parse.Setter
	ParseResult = parse.Result
	ErrorRecord = loomerr.Record
	Value       = value.Value
	Mode        = render.Mode
	Scope       = scope.Adapter
	Store       = scope.Store
	Entropy     = entropy.Source
)

// Execution modes (spec.md §3's ExecutionMode), re-exported.
const (
	ModeRuntime   = render.ModeRuntime
	ModePreview   = render.ModePreview
	ModeParseOnly = render.ModeParseOnly
)

// RenderResult mirrors render.Result under the façade's own name so
// callers see a stable "loom.RenderResult" regardless of internal
// package layout.
type RenderResult = render.Result

// GlobalScope and PrefixedScope construct the two variable-scope
// adapters defined in spec.md §4.7.
func GlobalScope() Scope                  { return scope.NewGlobal() }
func PrefixedScope(username string) Scope { return scope.NewPrefixed(username) }

// ParseLiteral coerces a bare literal lexeme (an unquoted number/bool or
// a quoted string) to a Value, using the same coercion chain expressions
// and <<set>> macros use for literal operands (spec.md §4.5).
func ParseLiteral(lexeme string) Value { return value.ParseLiteral(lexeme) }

// ValueToAny unwraps a Value to the corresponding Go value stored in a
// Store (int64/float64/bool/string).
func ValueToAny(v Value) any { return value.ToAny(v) }

// DefaultEntropy returns an unseeded, process-random entropy source.
func DefaultEntropy() Entropy { return entropy.NewDefault() }

// SeededEntropy returns a reproducible entropy source for testing and
// for the CLI's --seed flag.
func SeededEntropy(seed uint64) Entropy { return entropy.NewSeeded(seed) }

// Parse splits source into passages and, when the reserved special
// passages are present, derives their associated variable state
// (spec.md §4.1, §6). StoryInit/TestSetup derivation always uses a
// GLOBAL-scope adapter and a fixed seed, since special-passage variable
// names are story-wide by construction and must be deterministic
// regardless of which scope/seed a later Render call uses.
func Parse(source string) *ParseResult {
	res := parse.Parse(source)

	sc := scope.NewGlobal()
	ent := entropy.NewSeeded(0)

	initVars, initErrs := render.DeriveStoryInitVars(res.Passages, sc, ent)
	res.StoryInitVars = initVars
	res.Errors = append(res.Errors, initErrs...)

	setupVars, setupErrs := render.DeriveTestSetupVars(res.Passages, sc, ent)
	res.TestSetupVars = setupVars
	res.Errors = append(res.Errors, setupErrs...)
	if title, ok := res.Passages[parse.StoryTitlePassage]; ok {
		// Title text is taken literally: macros are inert here, matching
		// the parser's "structural only" posture for special passages
		// that aren't StoryInit/TestSetup (SPEC_FULL.md §12).
		res.StoryTitle = strings.TrimSpace(title.RawBody)
	}

	return res
}

// Render executes one passage's macros against store, using sc/ent for
// variable resolution and entropy (spec.md §4.4, §6).
func Render(passages map[string]*Passage, passageName string, sc Scope, store Store, ent Entropy, mode Mode) *RenderResult {
	return render.Render(passages, passageName, sc, store, ent, mode)
}

// EvaluateExpression evaluates a bare expression string against
// variables, returning its resulting Value (spec.md §6's third public
// operation). Malformed input yields integer zero and a recorded
// ExpressionError, never a Go error.
func EvaluateExpression(expression string, sc Scope, store Store, ent Entropy) (Value, []ErrorRecord) {
	var errs []loomerr.Record
	ctx := &expr.Context{Scope: sc, Store: store, Entropy: ent, Errors: &errs, Passage: ""}
	v := expr.EvaluateString(expression, ctx)
	return v, errs
}

// EvaluateCondition evaluates expression and reduces it to a boolean via
// the DSL's truthiness rule (spec.md §4.3, §6's fourth public
// operation).
func EvaluateCondition(expression string, sc Scope, store Store, ent Entropy) (bool, []ErrorRecord) {
	v, errs := EvaluateExpression(expression, sc, store, ent)
	return v.Truthy(), errs
}
