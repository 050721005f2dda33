// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package render

import (
	"strings"

	"github.com/loomtale/loom/internal/loom/entropy"
	"github.com/loomtale/loom/internal/loom/expr"
	"github.com/loomtale/loom/internal/loom/loomerr"
	"github.com/loomtale/loom/internal/loom/parse"
	"github.com/loomtale/loom/internal/loom/scope"
	"github.com/loomtale/loom/internal/loom/value"
)

// macroTok is one "<<name args>>" macro occurrence in a passage body.
// Special-passage processing only ever needs the macro sequence, never
// the literal text, links, or image markers between them.
type macroTok struct {
	Name string
	Args string
	Pos  int
}

func scanMacros(body string) []macroTok {
	var toks []macroTok
	pos := 0
	for {
		rest := body[pos:]
		start := strings.Index(rest, macroOpen)
		if start == -1 {
			return toks
		}
		absStart := pos + start
		afterOpen := absStart + len(macroOpen)
		closeIdx := strings.Index(body[afterOpen:], macroClose)
		if closeIdx == -1 {
			return toks
		}
		text := body[afterOpen : afterOpen+closeIdx]
		name, args := splitMacroText(strings.TrimSpace(text))
		toks = append(toks, macroTok{Name: name, Args: args, Pos: absStart})
		pos = afterOpen + closeIdx + len(macroClose)
	}
}

// DeriveStoryInitVars implements the StoryInit special passage (spec.md
// §6): every top-level (unconditional) <<set>> in its body is executed
// against an empty store, in source order. Macros other than <<set>> and
// the if-family are ignored — StoryInit exists purely to seed variables.
func DeriveStoryInitVars(passages map[string]*parse.Passage, sc scope.Adapter, ent entropy.Source) (map[string]any, []loomerr.Record) {
	p, ok := passages[parse.StoryInitPassage]
	if !ok {
		return map[string]any{}, nil
	}
	store := scope.Store{}
	var errs []loomerr.Record
	applyTopLevelSets(p.RawBody, parse.StoryInitPassage, sc, store, ent, &errs)
	return storeToAny(store), errs
}

// DeriveTestSetupVars implements the TestSetup special passage's
// three-pass algorithm (spec.md §6):
//
//  1. Apply every top-level <<set>> unconditionally, to establish
//     defaults.
//  2. Walk the body evaluating <<if>>/<<elseif>>/<<else>> against the
//     pass-1 store, executing <<set>> macros inside whichever branch is
//     selected at each level (outer branches resolve before inner ones
//     are considered, exactly like real rendering's branch selection).
//  3. Re-apply every top-level <<set>> unconditionally, so an
//     unconditional default declared after a conditional block still
//     establishes its final value.
func DeriveTestSetupVars(passages map[string]*parse.Passage, sc scope.Adapter, ent entropy.Source) (map[string]any, []loomerr.Record) {
	p, ok := passages[parse.TestSetupPassage]
	if !ok {
		return map[string]any{}, nil
	}
	store := scope.Store{}
	var errs []loomerr.Record

	applyTopLevelSets(p.RawBody, parse.TestSetupPassage, sc, store, ent, &errs)
	applySelectedBranchSets(p.RawBody, parse.TestSetupPassage, sc, store, ent, &errs)
	applyTopLevelSets(p.RawBody, parse.TestSetupPassage, sc, store, ent, &errs)

	return storeToAny(store), errs
}

// applyTopLevelSets executes every <<set>> macro that is not nested
// inside any <<if>> chain (depth tracked via if/endif only; elseif/else
// don't change nesting depth).
func applyTopLevelSets(body, passageName string, sc scope.Adapter, store scope.Store, ent entropy.Source, errs *[]loomerr.Record) {
	depth := 0
	for _, tok := range scanMacros(body) {
		switch tok.Name {
		case "if":
			depth++
		case "endif":
			if depth > 0 {
				depth--
			}
		case "set":
			if depth == 0 {
				applySet(tok, passageName, sc, store, ent, errs)
			}
		}
	}
}

// applySelectedBranchSets walks the body's macro sequence resolving
// <<if>>/<<elseif>>/<<else>> branches against store (pass 2 of
// DeriveTestSetupVars) and executes every <<set>> found in a selected
// branch, at any depth.
func applySelectedBranchSets(body, passageName string, sc scope.Adapter, store scope.Store, ent entropy.Source, errs *[]loomerr.Record) {
	var frames branchStack
	ec := &expr.Context{Scope: sc, Store: store, Entropy: ent, Errors: errs, Passage: passageName}

	for _, tok := range scanMacros(body) {
		switch tok.Name {
		case "if":
			frames.pushIf(func() bool { return expr.EvaluateConditionString(tok.Args, ec) })
		case "elseif":
			frames.elseif(func() bool { return expr.EvaluateConditionString(tok.Args, ec) })
		case "else":
			frames.els()
		case "endif":
			frames.endif()
		case "set":
			if frames.emitting() {
				applySet(tok, passageName, sc, store, ent, errs)
			}
		}
	}
}

func applySet(tok macroTok, passageName string, sc scope.Adapter, store scope.Store, ent entropy.Source, errs *[]loomerr.Record) {
	clause, ok := parseSetClause(tok.Args)
	if !ok {
		*errs = append(*errs, loomerr.Expression(passageName, tok.Pos, "malformed <<set>> macro: %q", tok.Args))
		return
	}
	ec := &expr.Context{Scope: sc, Store: store, Entropy: ent, Errors: errs, Passage: passageName}
	rhs := expr.EvaluateString(clause.Expr, ec)

	var final any
	switch clause.Operator {
	case "=", "to":
		final = value.ToAny(rhs)
	default:
		raw, _ := sc.Get(store, clause.Variable)
		current := value.FromAny(raw)
		op := strings.TrimSuffix(clause.Operator, "=")
		final = value.ToAny(expr.Combine(op, current, rhs, ec))
	}
	sc.Set(store, clause.Variable, final)
}

func storeToAny(store scope.Store) map[string]any {
	out := make(map[string]any, len(store))
	for k, v := range store {
		out[k] = v
	}
	return out
}
