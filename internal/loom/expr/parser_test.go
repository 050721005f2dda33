// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomtale/loom/internal/loom/expr"
)

func TestParse_Operators(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"integer literal", "42"},
		{"float literal", "3.14"},
		{"string double", `"hi"`},
		{"string single", `'hi'`},
		{"variable", "$H"},
		{"addition", "$H + 5"},
		{"subtraction", "$H - 5"},
		{"multiplication", "$H * 2"},
		{"division", "$H / 2"},
		{"modulo", "$H % 2"},
		{"unary minus", "-$H"},
		{"word comparator is", "$H is 5"},
		{"word comparator neq", "$H neq 5"},
		{"word comparator gt", "$H gt 5"},
		{"word comparator gte", "$H gte 5"},
		{"word comparator lt", "$H lt 5"},
		{"word comparator lte", "$H lte 5"},
		{"symbol comparator", "$H == 5"},
		{"logical and", "$H gt 1 and $H lt 10"},
		{"logical or", "$H is 1 or $H is 2"},
		{"logical not", "not $H is 1"},
		{"parens", "($H + 1) * 2"},
		{"either call", "either(1, 2, 3)"},
		{"random call", "random(1, 10)"},
		{"nested call in arithmetic", "random(1, 10) + 1"},
		{"string concat", `"hi " + $name`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, err := expr.Parse(tt.src)
			require.NoError(t, err, "should parse: %s", tt.src)
			require.NotNil(t, ast)
		})
	}
}

func TestParse_RoundTripString(t *testing.T) {
	ast, err := expr.Parse("$H gt 1 and $H lt 10")
	require.NoError(t, err)
	assert.Equal(t, "$H gt 1 and $H lt 10", ast.String())
}

func TestParse_Malformed(t *testing.T) {
	tests := []string{
		"",
		"$H +",
		"+ $H",
		"((($H)",
		"either(",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := expr.Parse(src)
			assert.Error(t, err)
		})
	}
}
