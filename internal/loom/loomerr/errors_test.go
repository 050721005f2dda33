// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package loomerr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomtale/loom/internal/loom/loomerr"
)

func TestRecordConstructors(t *testing.T) {
	tests := []struct {
		name string
		rec  loomerr.Record
		kind string
	}{
		{"structural", loomerr.Structural("Start", 4, "missing header name"), loomerr.CodeStructural},
		{"expression", loomerr.Expression("Start", 10, "unexpected token %q", "+"), loomerr.CodeExpression},
		{"type", loomerr.TypeMismatch("Start", 1, "cannot %% strings"), loomerr.CodeType},
		{"reference", loomerr.Reference("Start", 1, "X"), loomerr.CodeReference},
		{"cycle", loomerr.Cycle("A", 0, "B"), loomerr.CodeCycle},
		{"missing passage", loomerr.MissingPassage("A", 0, "Nowhere"), loomerr.CodeMissingPassage},
		{"unmatched macro", loomerr.UnmatchedMacro("A", 0, "unterminated if"), loomerr.CodeUnmatchedMacro},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.rec.Kind)
			assert.NotEmpty(t, tt.rec.Message)
			assert.NotEmpty(t, loomerr.PlayerMessage(tt.rec))
		})
	}
}
