// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

// Package render implements the Loom macro interpreter (spec.md §4.4): a
// streaming, two-state (emitting/skipping) walker over a passage's raw
// body that executes <<set>>/<<print>>/<<display>>/<<if>> macros,
// extracts link and image markers, and applies <<nobr>> whitespace
// collapsing. It also drives the two reserved special passages,
// StoryInit and TestSetup (spec.md §6).
package render

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/loomtale/loom/internal/loom/entropy"
	"github.com/loomtale/loom/internal/loom/expr"
	"github.com/loomtale/loom/internal/loom/loomerr"
	"github.com/loomtale/loom/internal/loom/parse"
	"github.com/loomtale/loom/internal/loom/scope"
	"github.com/loomtale/loom/internal/loom/value"
)

// Mode selects how far Render carries a passage through the pipeline
// (spec.md §3's ExecutionMode).
type Mode int

const (
	// ModeRuntime fully executes macros: set/print/display/if all run,
	// variables mutate the store, and links are collected.
	ModeRuntime Mode = iota
	// ModePreview behaves like ModeRuntime; it exists as a distinct value
	// so a host can tag preview renders in logs without the core caring.
	ModePreview
	// ModeParseOnly skips macro execution entirely and returns the raw
	// body verbatim, for tooling that wants to inspect passage source
	// without side effects.
	ModeParseOnly
)

// Result is the product of rendering one passage (spec.md §3's
// RenderResult).
type Result struct {
	Text            string           `json:"text"`
	Links           []parse.Link     `json:"links"`
	VariableChanges map[string]any   `json:"variable_changes"`
	Errors          []loomerr.Record `json:"errors"`
	// TraceID is a ULID stamped on every render call, so a host can
	// correlate it across its own logs (SPEC_FULL.md §11).
	TraceID string `json:"trace_id"`
}

// renderCtx is shared, mutable state threaded through a top-level Render
// call and every recursive <<display>> it triggers: the variable store,
// entropy source, accumulated links/errors/variable-changes, and the
// cycle-detection stack.
type renderCtx struct {
	Passages        map[string]*parse.Passage
	Scope           scope.Adapter
	Store           scope.Store
	Entropy         entropy.Source
	Links           *[]parse.Link
	Errors          *[]loomerr.Record
	VariableChanges map[string]any
	Stack           []string
}

func (c *renderCtx) record(rec loomerr.Record) {
	*c.Errors = append(*c.Errors, rec)
}

func (c *renderCtx) exprCtx(passage string) *expr.Context {
	return &expr.Context{
		Scope:   c.Scope,
		Store:   c.Store,
		Entropy: c.Entropy,
		Errors:  c.Errors,
		Passage: passage,
	}
}

// Render executes passageName against passages, starting from store and
// using sc/ent for variable resolution and entropy (spec.md §4.4, §6).
// In ModeParseOnly, macro execution is skipped and Text is the passage's
// unexecuted raw body.
func Render(passages map[string]*parse.Passage, passageName string, sc scope.Adapter, store scope.Store, ent entropy.Source, mode Mode) *Result {
	res := &Result{VariableChanges: map[string]any{}, TraceID: ulid.Make().String()}

	p, ok := passages[passageName]
	if !ok {
		res.Errors = append(res.Errors, loomerr.MissingPassage("", 0, passageName))
		res.Text = fmt.Sprintf("[missing: %s]", passageName)
		return res
	}

	if mode == ModeParseOnly {
		res.Text = p.RawBody
		return res
	}

	ctx := &renderCtx{
		Passages:        passages,
		Scope:           sc,
		Store:           store,
		Entropy:         ent,
		Links:           &res.Links,
		Errors:          &res.Errors,
		VariableChanges: res.VariableChanges,
		Stack:           []string{passageName},
	}
	res.Text = renderBody(ctx, passageName, p.RawBody)
	return res
}

// renderBody walks body (the raw text of a single passage) and returns
// its rendered output. Shared renderCtx state (store, links, errors,
// variable changes, cycle stack) flows through recursive <<display>>
// calls; branch/nobr state is local to this call.
func renderBody(ctx *renderCtx, passageName, body string) string {
	w := &walker{ctx: ctx, passageName: passageName, body: body}
	w.mainOut = &strings.Builder{}
	w.sink = w.mainOut
	w.run()

	if len(w.frames) > 0 {
		ctx.record(loomerr.UnmatchedMacro(passageName, w.pos, "unterminated <<if>> at end of passage"))
	}
	if w.nobrDepth > 0 {
		w.mainOut.WriteString(collapseWhitespace(w.nobrBuf.String()))
	}
	return w.mainOut.String()
}

// walker is a byte-position scanner over one passage body. It finds the
// next macro ("<<...>>"), link ("[[...]]"), or image ("[img[...]]")
// marker, emits the literal text before it, and dispatches the marker.
type walker struct {
	ctx         *renderCtx
	passageName string
	body        string
	pos         int

	frames branchStack

	mainOut   *strings.Builder
	sink      *strings.Builder
	nobrDepth int
	nobrBuf   *strings.Builder
}

func (w *walker) emitting() bool { return w.frames.emitting() }

// write appends s to the current sink (main output, or a buffered
// <<nobr>> region) only when the walker is currently emitting; content
// under a false branch is simply discarded.
func (w *walker) write(s string) {
	if w.emitting() {
		w.sink.WriteString(s)
	}
}

const (
	macroOpen  = "<<"
	macroClose = ">>"
	linkOpen   = "[["
	linkClose  = "]]"
	imageOpen  = "[img["
)

func (w *walker) run() {
	for w.pos < len(w.body) {
		rest := w.body[w.pos:]

		macroIdx := strings.Index(rest, macroOpen)
		linkIdx := strings.Index(rest, linkOpen)
		imageIdx := strings.Index(rest, imageOpen)

		next, kind := nearest(macroIdx, "macro", linkIdx, "link", imageIdx, "image")
		if kind == "" {
			w.write(rest)
			w.pos = len(w.body)
			return
		}

		w.write(rest[:next])
		w.pos += next

		switch kind {
		case "macro":
			w.consumeMacro()
		case "link":
			w.consumeLink()
		case "image":
			w.consumeImage()
		}
	}
}

// nearest picks the smallest non-negative offset among up to three
// candidates, returning its label ("" if every candidate is -1).
func nearest(a int, aLabel string, b int, bLabel string, c int, cLabel string) (int, string) {
	best := -1
	label := ""
	for _, cand := range []struct {
		idx   int
		label string
	}{{a, aLabel}, {b, bLabel}, {c, cLabel}} {
		if cand.idx < 0 {
			continue
		}
		if best == -1 || cand.idx < best {
			best = cand.idx
			label = cand.label
		}
	}
	return best, label
}

func (w *walker) consumeImage() {
	rest := w.body[w.pos:]
	closeIdx := strings.Index(rest[len(imageOpen):], linkClose)
	if closeIdx == -1 {
		// No closing "]]": not actually a marker, emit the opening bytes
		// as literal text and move past them.
		w.write(imageOpen)
		w.pos += len(imageOpen)
		return
	}
	w.pos += len(imageOpen) + closeIdx + len(linkClose)
}

func (w *walker) consumeLink() {
	rest := w.body[w.pos:]
	searchFrom := len(linkOpen)
	closeIdx := strings.Index(rest[searchFrom:], linkClose)
	if closeIdx == -1 {
		w.write(linkOpen)
		w.pos += len(linkOpen)
		return
	}
	inner := rest[searchFrom : searchFrom+closeIdx]
	w.pos += searchFrom + closeIdx + len(linkClose)

	if !w.emitting() {
		return
	}
	link := parseLinkMarker(inner)
	w.write(link.Display)
	*w.ctx.Links = append(*w.ctx.Links, link)
}

func (w *walker) consumeMacro() {
	rest := w.body[w.pos:]
	closeIdx := strings.Index(rest[len(macroOpen):], macroClose)
	if closeIdx == -1 {
		w.write(macroOpen)
		w.pos += len(macroOpen)
		return
	}
	text := rest[len(macroOpen) : len(macroOpen)+closeIdx]
	startPos := w.pos
	w.pos += len(macroOpen) + closeIdx + len(macroClose)

	name, args := splitMacroText(strings.TrimSpace(text))
	switch name {
	case "if":
		w.frames.pushIf(func() bool { return w.evalCond(args, startPos) })
	case "elseif":
		if !w.frames.elseif(func() bool { return w.evalCond(args, startPos) }) {
			w.ctx.record(loomerr.UnmatchedMacro(w.passageName, startPos, "<<elseif>> without an open <<if>>"))
		}
	case "else":
		if !w.frames.els() {
			w.ctx.record(loomerr.UnmatchedMacro(w.passageName, startPos, "<<else>> without an open <<if>>"))
		}
	case "endif":
		if !w.frames.endif() {
			w.ctx.record(loomerr.UnmatchedMacro(w.passageName, startPos, "<<endif>> without an open <<if>>"))
		}
	default:
		if !w.emitting() {
			return
		}
		w.execMacro(name, args, startPos)
	}
}

func (w *walker) evalCond(args string, pos int) bool {
	ec := w.ctx.exprCtx(w.passageName)
	return expr.EvaluateConditionString(args, ec)
}

func (w *walker) execMacro(name, args string, pos int) {
	switch name {
	case "set":
		w.execSet(args, pos)
	case "print":
		v := expr.EvaluateString(args, w.ctx.exprCtx(w.passageName))
		w.write(v.String())
	case "display":
		w.execDisplay(parseDisplayArg(args), pos)
	case "nobr":
		if w.nobrDepth == 0 {
			w.nobrBuf = &strings.Builder{}
			w.sink = w.nobrBuf
		}
		w.nobrDepth++
	case "endnobr":
		if w.nobrDepth == 0 {
			w.ctx.record(loomerr.UnmatchedMacro(w.passageName, pos, "<<endnobr>> without an open <<nobr>>"))
			return
		}
		w.nobrDepth--
		if w.nobrDepth == 0 {
			w.mainOut.WriteString(collapseWhitespace(w.nobrBuf.String()))
			w.sink = w.mainOut
		}
	default:
		// Unrecognized macro names have no defined behavior; they are
		// silently dropped rather than echoed or treated as an error.
	}
}

func (w *walker) execSet(args string, pos int) {
	clause, ok := parseSetClause(args)
	if !ok {
		w.ctx.record(loomerr.Expression(w.passageName, pos, "malformed <<set>> macro: %q", args))
		return
	}
	ec := w.ctx.exprCtx(w.passageName)
	rhs := expr.EvaluateString(clause.Expr, ec)

	var final any
	switch clause.Operator {
	case "=", "to":
		final = value.ToAny(rhs)
	default:
		raw, _ := w.ctx.Scope.Get(w.ctx.Store, clause.Variable)
		current := value.FromAny(raw)
		op := strings.TrimSuffix(clause.Operator, "=")
		final = value.ToAny(expr.Combine(op, current, rhs, ec))
	}

	w.ctx.Scope.Set(w.ctx.Store, clause.Variable, final)
	w.ctx.VariableChanges[w.ctx.Scope.KeyFor(clause.Variable)] = final
}

func (w *walker) execDisplay(target string, pos int) {
	for _, name := range w.ctx.Stack {
		if name == target {
			w.ctx.record(loomerr.Cycle(w.passageName, pos, target))
			w.write(fmt.Sprintf("[cycle: %s]", target))
			return
		}
	}
	p, ok := w.ctx.Passages[target]
	if !ok {
		w.ctx.record(loomerr.MissingPassage(w.passageName, pos, target))
		w.write(fmt.Sprintf("[missing: %s]", target))
		return
	}
	w.ctx.Stack = append(w.ctx.Stack, target)
	sub := renderBody(w.ctx, target, p.RawBody)
	w.ctx.Stack = w.ctx.Stack[:len(w.ctx.Stack)-1]
	w.write(sub)
}
