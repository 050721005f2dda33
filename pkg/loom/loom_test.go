// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package loom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomtale/loom/pkg/loom"
)

func TestParse_DerivesSpecialPassages(t *testing.T) {
	src := ":: StoryInit\n<<set $HP = 100>>\n" +
		":: TestSetup\n<<set $HP = 50>>\n" +
		":: StoryTitle\n  My Adventure  \n" +
		":: Start\nWelcome, adventurer."

	res := loom.Parse(src)

	require.Contains(t, res.Passages, "Start")
	assert.Equal(t, int64(100), res.StoryInitVars["HP"])
	assert.Equal(t, int64(50), res.TestSetupVars["HP"])
	assert.Equal(t, "My Adventure", res.StoryTitle)
	assert.NotEmpty(t, res.TraceID)
}

func TestParse_NoSpecialPassages(t *testing.T) {
	res := loom.Parse(":: Start\nHello.")
	assert.Empty(t, res.StoryInitVars)
	assert.Empty(t, res.TestSetupVars)
	assert.Empty(t, res.StoryTitle)
}

func TestRender_RoundTrip(t *testing.T) {
	res := loom.Parse(":: Start\n<<set $H = 10>><<print $H + 5>>")
	out := loom.Render(res.Passages, "Start", loom.GlobalScope(), loom.Store{}, loom.SeededEntropy(1), loom.ModeRuntime)
	assert.Equal(t, "15", out.Text)
	assert.NotEmpty(t, out.TraceID)
}

func TestEvaluateExpression(t *testing.T) {
	v, errs := loom.EvaluateExpression("1 + 2", loom.GlobalScope(), loom.Store{}, loom.SeededEntropy(1))
	assert.Empty(t, errs)
	assert.Equal(t, "3", v.String())
}

func TestEvaluateCondition(t *testing.T) {
	ok, errs := loom.EvaluateCondition("$H gte 50 and $H lt 100", loom.GlobalScope(), loom.Store{"H": int64(75)}, loom.SeededEntropy(1))
	assert.Empty(t, errs)
	assert.True(t, ok)
}
