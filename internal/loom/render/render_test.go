// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomtale/loom/internal/loom/entropy"
	"github.com/loomtale/loom/internal/loom/loomerr"
	"github.com/loomtale/loom/internal/loom/parse"
	"github.com/loomtale/loom/internal/loom/render"
	"github.com/loomtale/loom/internal/loom/scope"
)

func passages(bodies map[string]string) map[string]*parse.Passage {
	out := make(map[string]*parse.Passage, len(bodies))
	for name, body := range bodies {
		out[name] = &parse.Passage{Name: name, RawBody: body}
	}
	return out
}

func renderOne(t *testing.T, body string, store scope.Store) *render.Result {
	t.Helper()
	if store == nil {
		store = scope.Store{}
	}
	ps := passages(map[string]string{"Start": body})
	return render.Render(ps, "Start", scope.NewGlobal(), store, entropy.NewSeeded(1), render.ModeRuntime)
}

func TestRender_SetAndPrint(t *testing.T) {
	res := renderOne(t, "<<set $H = 10>><<print $H + 5>>", nil)
	assert.Equal(t, "15", res.Text)
	assert.Equal(t, int64(10), res.VariableChanges["H"])
	assert.Empty(t, res.Errors)
}

func TestRender_CompoundAssignment(t *testing.T) {
	store := scope.Store{"H": int64(10)}
	res := renderOne(t, "<<set $H += 5>><<print $H>>", store)
	assert.Equal(t, "15", res.Text)
}

func TestRender_PlainTextPassthrough(t *testing.T) {
	res := renderOne(t, "Hello, world.", nil)
	assert.Equal(t, "Hello, world.", res.Text)
}

func TestRender_IfElseifElse(t *testing.T) {
	tests := []struct {
		name string
		hp   int64
		want string
	}{
		{"high branch", 90, "high"},
		{"mid branch", 50, "mid"},
		{"low branch", 1, "low"},
	}
	body := `<<if $HP gt 75>>high<<elseif $HP gt 25>>mid<<else>>low<<endif>>`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := renderOne(t, body, scope.Store{"HP": tt.hp})
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

func TestRender_NestedIfSuppressesInnerSideEffects(t *testing.T) {
	body := `<<if 0>>outer<<if 1>><<set $X = 1>>inner<<endif>><<endif>>`
	res := renderOne(t, body, nil)
	assert.Equal(t, "", res.Text)
	assert.NotContains(t, res.VariableChanges, "X")
}

func TestRender_UnterminatedIfRendersUpToEOF(t *testing.T) {
	res := renderOne(t, "<<if 1>>visible text", nil)
	assert.Equal(t, "visible text", res.Text)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, loomerr.CodeUnmatchedMacro, res.Errors[0].Kind)
}

func TestRender_StrayEndifRecordsError(t *testing.T) {
	res := renderOne(t, "text<<endif>>more", nil)
	assert.Equal(t, "textmore", res.Text)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, loomerr.CodeUnmatchedMacro, res.Errors[0].Kind)
}

func TestRender_NobrCollapsesWhitespace(t *testing.T) {
	res := renderOne(t, "<<nobr>>  a \n  b   \n\nc  <<endnobr>>", nil)
	assert.Equal(t, "a b c", res.Text)
}

func TestRender_ImageMarkerStripped(t *testing.T) {
	res := renderOne(t, "Look: [img[https://example.com/a.png]] neat.", nil)
	assert.Equal(t, "Look:  neat.", res.Text)
}

func TestRender_LinkMarkerSimple(t *testing.T) {
	res := renderOne(t, "Go [[North]].", nil)
	assert.Equal(t, "Go North.", res.Text)
	require.Len(t, res.Links, 1)
	assert.Equal(t, parse.Link{Display: "North", Target: "North"}, res.Links[0])
}

func TestRender_LinkMarkerDisplayTargetAndSetter(t *testing.T) {
	res := renderOne(t, "Go [[North|N][$flag = 1]].", nil)
	assert.Equal(t, "Go North.", res.Text)
	require.Len(t, res.Links, 1)
	link := res.Links[0]
	assert.Equal(t, "North", link.Display)
	assert.Equal(t, "N", link.Target)
	require.Len(t, link.Setters, 1)
	assert.Equal(t, parse.Setter{Variable: "flag", Operator: "=", Literal: "1"}, link.Setters[0])
}

func TestRender_LinkInSuppressedBranchNotRecorded(t *testing.T) {
	res := renderOne(t, "<<if 0>>[[North]]<<endif>>", nil)
	assert.Empty(t, res.Links)
	assert.Equal(t, "", res.Text)
}

func TestRender_Display(t *testing.T) {
	ps := passages(map[string]string{
		"Start": `Intro. <<display "Footer">>`,
		"Footer": `The end.`,
	})
	res := render.Render(ps, "Start", scope.NewGlobal(), scope.Store{}, entropy.NewSeeded(1), render.ModeRuntime)
	assert.Equal(t, "Intro. The end.", res.Text)
}

func TestRender_DisplayMissingPassage(t *testing.T) {
	res := renderOne(t, `<<display "Nowhere">>`, nil)
	assert.Equal(t, "[missing: Nowhere]", res.Text)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, loomerr.CodeMissingPassage, res.Errors[0].Kind)
}

func TestRender_DisplayCycleDetected(t *testing.T) {
	ps := passages(map[string]string{
		"Start": `<<display "Start">>`,
	})
	res := render.Render(ps, "Start", scope.NewGlobal(), scope.Store{}, entropy.NewSeeded(1), render.ModeRuntime)
	assert.Equal(t, `[cycle: Start]`, res.Text)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, loomerr.CodeCycle, res.Errors[0].Kind)
}

func TestRender_ParseOnlySkipsExecution(t *testing.T) {
	ps := passages(map[string]string{"Start": "<<set $H = 10>>literal"})
	res := render.Render(ps, "Start", scope.NewGlobal(), scope.Store{}, entropy.NewSeeded(1), render.ModeParseOnly)
	assert.Equal(t, "<<set $H = 10>>literal", res.Text)
	assert.Empty(t, res.VariableChanges)
}

func TestRender_MissingTopLevelPassage(t *testing.T) {
	res := render.Render(map[string]*parse.Passage{}, "Nope", scope.NewGlobal(), scope.Store{}, entropy.NewSeeded(1), render.ModeRuntime)
	assert.Equal(t, "[missing: Nope]", res.Text)
	require.Len(t, res.Errors, 1)
}

func TestDeriveStoryInitVars(t *testing.T) {
	ps := passages(map[string]string{
		parse.StoryInitPassage: `<<set $HP = 100>><<if 0>><<set $SKIPPED = 1>><<endif>><<set $NAME = "hero">>`,
	})
	vars, errs := render.DeriveStoryInitVars(ps, scope.NewGlobal(), entropy.NewSeeded(1))
	assert.Empty(t, errs)
	assert.Equal(t, int64(100), vars["HP"])
	assert.Equal(t, "hero", vars["NAME"])
	_, hasSkipped := vars["SKIPPED"]
	assert.False(t, hasSkipped)
}

func TestDeriveStoryInitVars_NoPassage(t *testing.T) {
	vars, errs := render.DeriveStoryInitVars(passages(nil), scope.NewGlobal(), entropy.NewSeeded(1))
	assert.Empty(t, vars)
	assert.Empty(t, errs)
}

func TestDeriveTestSetupVars_ThreePass(t *testing.T) {
	// Pass 1 seeds HP=50 unconditionally. Pass 2 resolves the branch using
	// that value (50 is not gt 75, so the elseif fires, setting RANK).
	// Pass 3 re-runs the unconditional default, leaving HP untouched since
	// nothing in the conditional branch changed it.
	body := `<<set $HP = 50>>` +
		`<<if $HP gt 75>><<set $RANK = "veteran">><<elseif $HP gt 25>><<set $RANK = "regular">><<else>><<set $RANK = "rookie">><<endif>>`
	ps := passages(map[string]string{parse.TestSetupPassage: body})
	vars, errs := render.DeriveTestSetupVars(ps, scope.NewGlobal(), entropy.NewSeeded(1))
	assert.Empty(t, errs)
	assert.Equal(t, int64(50), vars["HP"])
	assert.Equal(t, "regular", vars["RANK"])
}

func TestDeriveTestSetupVars_NoPassage(t *testing.T) {
	vars, errs := render.DeriveTestSetupVars(passages(nil), scope.NewGlobal(), entropy.NewSeeded(1))
	assert.Empty(t, vars)
	assert.Empty(t, errs)
}
