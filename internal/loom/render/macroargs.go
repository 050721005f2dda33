// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package render

import "strings"

// setClause is a parsed <<set>> macro body: $VARIABLE OPERATOR EXPR
// (spec.md §4.4). operator is one of "=", "to", "+=", "-=", "*=", "/=".
type setClause struct {
	Variable string
	Operator string
	Expr     string
}

// setOperators is ordered longest-prefix-first so "+=" is never mistaken
// for a bare "=" and "to" never swallows part of a longer token.
var setOperators = []string{"+=", "-=", "*=", "/=", "to", "="}

// splitMacroText divides the text between "<<" and ">>" into a macro
// name and its raw argument string (spec.md §4.4).
func splitMacroText(text string) (name, args string) {
	idx := strings.IndexAny(text, " \t")
	if idx == -1 {
		return text, ""
	}
	return text[:idx], strings.TrimSpace(text[idx:])
}

// parseSetClause parses a <<set>> macro's argument string. ok is false
// for anything that doesn't match $NAME OPERATOR EXPR.
func parseSetClause(args string) (setClause, bool) {
	trimmed := strings.TrimSpace(args)
	if !strings.HasPrefix(trimmed, "$") {
		return setClause{}, false
	}
	trimmed = trimmed[1:]
	idx := strings.IndexAny(trimmed, " \t")
	if idx == -1 {
		return setClause{}, false
	}
	name := trimmed[:idx]
	rest := strings.TrimSpace(trimmed[idx:])
	for _, op := range setOperators {
		if strings.HasPrefix(rest, op) {
			return setClause{Variable: name, Operator: op, Expr: strings.TrimSpace(rest[len(op):])}, true
		}
	}
	return setClause{}, false
}

// parseDisplayArg strips an optional surrounding quote pair from a
// <<display>> macro's argument, supporting both <<display "Name">> and
// <<display Name>> (spec.md §4.4).
func parseDisplayArg(args string) string {
	trimmed := strings.TrimSpace(args)
	if len(trimmed) >= 2 {
		first, last := trimmed[0], trimmed[len(trimmed)-1]
		if (first == '"' || first == '\'') && last == first {
			return trimmed[1 : len(trimmed)-1]
		}
	}
	return trimmed
}
