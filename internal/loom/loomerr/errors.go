// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

// Package loomerr defines the Loom error taxonomy (spec.md §7) as a set of
// stable codes, not Go error types, following the same oops.Code pattern
// as a dispatcher's error-constructor package: errors are collected into
// a result's error list rather than raised.
package loomerr

import (
	"github.com/samber/oops"
)

// Error codes for the Loom error taxonomy (spec.md §7). Values, not types:
// every error constructed here carries one of these as its oops.Code.
const (
	CodeStructural     = "STRUCTURAL_ERROR"
	CodeExpression     = "EXPRESSION_ERROR"
	CodeType           = "TYPE_ERROR"
	CodeReference      = "REFERENCE_ERROR"
	CodeCycle          = "CYCLE_ERROR"
	CodeMissingPassage = "MISSING_PASSAGE_ERROR"
	CodeUnmatchedMacro = "UNMATCHED_MACRO_ERROR"
)

// Record is a single accumulated error: a kind (one of the Code constants
// above), a human-readable message, and textual position context. Records
// are appended to ParseResult.errors or RenderResult.errors; neither Parse
// nor Render ever returns a Go error for a recoverable condition.
type Record struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Passage  string `json:"passage,omitempty"`
	Position int    `json:"position,omitempty"`
}

// New constructs a Record and wraps it as an oops error for structured
// logging via errutil.LogError, without ever surfacing past the
// accumulation boundary as a returned Go error.
func New(code, passage string, position int, format string, args ...any) Record {
	err := oops.Code(code).
		With("passage", passage).
		With("position", position).
		Errorf(format, args...)
	return Record{
		Kind:     code,
		Message:  err.Error(),
		Passage:  passage,
		Position: position,
	}
}

// Structural records a StructuralError (malformed header, unmatched
// bracket, name-less passage).
func Structural(passage string, position int, format string, args ...any) Record {
	return New(CodeStructural, passage, position, format, args...)
}

// Expression records an ExpressionError (unparseable expression, unknown
// function, bad argument count).
func Expression(passage string, position int, format string, args ...any) Record {
	return New(CodeExpression, passage, position, format, args...)
}

// TypeMismatch records a TypeError (operator applied to incompatible
// types).
func TypeMismatch(passage string, position int, format string, args ...any) Record {
	return New(CodeType, passage, position, format, args...)
}

// Reference records a ReferenceError (undefined variable under strict
// mode; the default mode never emits this and silently returns zero).
func Reference(passage string, position int, name string) Record {
	return New(CodeReference, passage, position, "undefined variable: %s", name)
}

// Cycle records a CycleError (display revisits a passage already on the
// cycle-detection stack).
func Cycle(passage string, position int, target string) Record {
	return New(CodeCycle, passage, position, "cycle detected: display %q re-enters the render stack", target)
}

// MissingPassage records a MissingPassageError (display names a passage
// that does not exist).
func MissingPassage(passage string, position int, target string) Record {
	return New(CodeMissingPassage, passage, position, "missing passage: %s", target)
}

// UnmatchedMacro records an UnmatchedMacroError (<<if>> without <<endif>>,
// stray <<else>>, and similar).
func UnmatchedMacro(passage string, position int, format string, args ...any) Record {
	return New(CodeUnmatchedMacro, passage, position, format, args...)
}

// PlayerMessage summarizes a Record as a short, host-facing string,
// mirroring the teacher's PlayerMessage(err) summarizer for oops-coded
// errors.
func PlayerMessage(r Record) string {
	switch r.Kind {
	case CodeStructural:
		return "the story source contains a structural error"
	case CodeExpression:
		return "an expression could not be evaluated"
	case CodeType:
		return "an operator was applied to incompatible types"
	case CodeReference:
		return "an undefined variable was referenced"
	case CodeCycle:
		return "a display cycle was detected and truncated"
	case CodeMissingPassage:
		return "a display referenced a passage that does not exist"
	case CodeUnmatchedMacro:
		return "a macro block was not properly closed"
	default:
		return "an unspecified error occurred"
	}
}
