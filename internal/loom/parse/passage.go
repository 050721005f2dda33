// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

// Package parse implements the Loom passage parser (spec.md §4.1): it
// splits a DSL source document into named, tagged passages without
// resolving any macro or link syntax inside their bodies — parsing is
// syntactic only, and semantic interpretation is deferred to render.
package parse

import (
	"github.com/loomtale/loom/internal/loom/loomerr"
)

// Passage is a named section of the DSL, delimited by a header line
// starting with "::" (spec.md §3). It is immutable once constructed;
// the parser's last declaration for a given name wins (documented
// behavior — name uniqueness is not enforced).
type Passage struct {
	Name     string   `json:"name"`
	Tags     []string `json:"tags"`
	RawBody  string   `json:"raw_body"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Setter is a link-attached assignment descriptor: (variable_name,
// operator, value_literal). Setters are captured during parsing but are
// never executed by the core (spec.md §3, §4.4).
type Setter struct {
	Variable string `json:"variable"`
	Operator string `json:"operator"`
	Literal  string `json:"literal"`
}

// Link is a navigational marker surfaced by the renderer to the host
// (spec.md §3).
type Link struct {
	Display string   `json:"display"`
	Target  string   `json:"target"`
	Setters []Setter `json:"setters,omitempty"`
}

// Result is the structural product of parsing a DSL source document
// (spec.md §3's ParseResult).
type Result struct {
	Passages      map[string]*Passage `json:"passages"`
	StoryInitVars map[string]any      `json:"story_init_vars"`
	TestSetupVars map[string]any      `json:"test_setup_vars"`
	StoryTitle    string              `json:"story_title,omitempty"`
	Errors        []loomerr.Record    `json:"errors"`
	// TraceID is a ULID stamped on every parse, so a host can correlate
	// a single parse call across its own logs (SPEC_FULL.md §11).
	TraceID string `json:"trace_id"`
}

// Names for the three reserved special passages (spec.md §6: "exact,
// case-sensitive").
const (
	StoryInitPassage  = "StoryInit"
	TestSetupPassage  = "TestSetup"
	StoryTitlePassage = "StoryTitle"
)
