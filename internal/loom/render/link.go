// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package render

import (
	"strings"

	"github.com/loomtale/loom/internal/loom/parse"
)

// parseLinkMarker parses the text between a link marker's outer "[[" and
// its closing "]]" (spec.md §4.4): "TARGET", "DISPLAY|TARGET", optionally
// followed by one or more "][$VAR OP VAL" setter segments sharing the
// marker's own closing bracket (e.g. "North|N][$flag = 1" inside
// "[[North|N][$flag = 1]]"). Segments are split on the literal "][".
func parseLinkMarker(inner string) parse.Link {
	segments := strings.Split(inner, "][")
	base := segments[0]

	display, target := base, base
	if idx := strings.Index(base, "|"); idx != -1 {
		display = base[:idx]
		target = base[idx+1:]
	}

	var setters []parse.Setter
	for _, seg := range segments[1:] {
		setters = append(setters, parseSetterSegment(seg))
	}

	return parse.Link{Display: display, Target: target, Setters: setters}
}

// parseSetterSegment parses one "$VAR OP VAL" setter clause body (the
// brackets and leading "$" already stripped by the caller's split, except
// the "$" which is stripped here).
func parseSetterSegment(seg string) parse.Setter {
	s := strings.TrimSpace(seg)
	s = strings.TrimPrefix(s, "$")

	idx := strings.IndexAny(s, " \t")
	if idx == -1 {
		return parse.Setter{Variable: s}
	}
	name := s[:idx]
	rest := strings.TrimSpace(s[idx:])

	for _, op := range setOperators {
		if strings.HasPrefix(rest, op) {
			return parse.Setter{Variable: name, Operator: op, Literal: strings.TrimSpace(rest[len(op):])}
		}
	}
	return parse.Setter{Variable: name, Literal: rest}
}
