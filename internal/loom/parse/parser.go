// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package parse

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/loomtale/loom/internal/loom/loomerr"
)

// headerPrefix is the two-colon sigil that opens a passage header at
// column zero (spec.md §4.1).
const headerPrefix = "::"

// Parse splits source into passages (spec.md §4.1). It never fails: a
// malformed header is recorded as a StructuralError and either skipped
// (name-less header) or kept with a partial tag list (unterminated
// bracket). Macro and link syntax inside bodies is left untouched —
// parsing here is syntactic only.
//
// This line-start scan mirrors the teacher's command.Parse style of
// plain strings-package lexical splitting (internal/command/parser.go)
// rather than reaching for a grammar engine: passage boundaries are a
// column-zero sigil match, not a recursive grammar.
func Parse(source string) *Result {
	res := &Result{
		Passages: make(map[string]*Passage),
		Errors:   nil,
		TraceID:  ulid.Make().String(),
	}

	headers := findHeaderLines(source)
	for i, h := range headers {
		bodyStart := h.lineEnd
		bodyEnd := len(source)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1].lineStart
		}
		body := source[bodyStart:bodyEnd]

		name, tags, unterminated := parseHeaderText(h.text)
		if unterminated {
			res.Errors = append(res.Errors, structuralErr(name, h.lineStart, "unterminated tag bracket in header"))
		}
		if name == "" {
			res.Errors = append(res.Errors, structuralErr("", h.lineStart, "passage header has no name"))
			continue
		}

		res.Passages[name] = &Passage{
			Name:     name,
			Tags:     tags,
			RawBody:  body,
			ImageURL: extractImageURL(body),
		}
	}

	return res
}

type headerLine struct {
	text      string // text after "::", before the line's end
	lineStart int    // byte offset of the header line's start
	lineEnd   int    // byte offset just past the header line's newline (or EOF)
}

// findHeaderLines scans source for lines beginning with "::" at column
// zero (spec.md §4.1).
func findHeaderLines(source string) []headerLine {
	var headers []headerLine
	pos := 0
	for pos <= len(source) {
		lineEndIdx := strings.IndexByte(source[pos:], '\n')
		var line string
		var nextPos int
		if lineEndIdx == -1 {
			line = source[pos:]
			nextPos = len(source) + 1
		} else {
			line = source[pos : pos+lineEndIdx]
			nextPos = pos + lineEndIdx + 1
		}

		if strings.HasPrefix(line, headerPrefix) {
			headers = append(headers, headerLine{
				text:      line[len(headerPrefix):],
				lineStart: pos,
				lineEnd:   min(nextPos, len(source)),
			})
		}

		if lineEndIdx == -1 {
			break
		}
		pos = nextPos
	}
	return headers
}

// parseHeaderText parses the text following "::" into a name and tag
// list. Grammar: optional single space, NAME (non-whitespace), optional
// whitespace then "[TAG1 TAG2 ...]" (spec.md §4.1).
func parseHeaderText(text string) (name string, tags []string, unterminatedBracket bool) {
	trimmed := strings.TrimPrefix(text, " ")
	trimmed = strings.TrimLeft(trimmed, " \t")
	if trimmed == "" {
		return "", nil, false
	}

	idx := strings.IndexAny(trimmed, " \t[")
	var rest string
	if idx == -1 {
		name = trimmed
	} else {
		name = trimmed[:idx]
		rest = strings.TrimLeft(trimmed[idx:], " \t")
	}

	if !strings.HasPrefix(rest, "[") {
		return name, []string{}, false
	}

	inner := rest[1:]
	closeIdx := strings.IndexByte(inner, ']')
	if closeIdx == -1 {
		return name, strings.Fields(inner), true
	}
	return name, strings.Fields(inner[:closeIdx]), false
}

// extractImageURL finds the first [img[URL]] marker in body and returns
// URL, or "" if none is present. The marker is left in place in
// RawBody; the macro interpreter strips it at render time (spec.md
// §4.1).
func extractImageURL(body string) string {
	const open = "[img["
	start := strings.Index(body, open)
	if start == -1 {
		return ""
	}
	afterOpen := start + len(open)
	closeIdx := strings.Index(body[afterOpen:], "]]")
	if closeIdx == -1 {
		return ""
	}
	return body[afterOpen : afterOpen+closeIdx]
}

func structuralErr(passage string, pos int, format string) loomerr.Record {
	return loomerr.Structural(passage, pos, "%s", format)
}
