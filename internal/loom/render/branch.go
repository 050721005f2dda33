// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package render

// frame tracks one open <<if>>/<<elseif>>/<<else>>/<<endif>> chain.
// parentActive is whether the enclosing scope was emitting at the time
// this chain was entered (captured once, at <<if>>); taken records
// whether any branch in the chain has matched yet; branchActive is
// whether the *current* branch is the live one. effectiveActive is the
// AND of parentActive and branchActive — the actual "should I execute
// what's inside this branch" answer (spec.md §4.4's "emitting vs
// skipping" two-state walker, generalized to a stack for nesting).
//
// This type is shared by the real macro interpreter (a byte-position
// walker over passage text) and the TestSetup three-pass driver (a
// token-sequence walker with no text output) so branch selection logic
// is written exactly once.
type frame struct {
	parentActive bool
	taken        bool
	branchActive bool
}

func (f frame) effectiveActive() bool { return f.parentActive && f.branchActive }

// branchStack is a stack of open if-chains.
type branchStack []frame

// emitting reports whether content at the current position should be
// executed/emitted: true at top level, or the innermost frame's
// effective state otherwise.
func (s branchStack) emitting() bool {
	if len(s) == 0 {
		return true
	}
	return s[len(s)-1].effectiveActive()
}

// pushIf opens a new if-chain. evalCond is invoked only when the
// enclosing scope is currently emitting — a condition in a suppressed
// branch must never be evaluated (spec.md §4.4: "Nested macros in
// suppressed text are not executed").
func (s *branchStack) pushIf(evalCond func() bool) {
	parentActive := s.emitting()
	branchActive := false
	if parentActive {
		branchActive = evalCond()
	}
	*s = append(*s, frame{parentActive: parentActive, taken: branchActive, branchActive: branchActive})
}

// elseif advances the top-of-stack if-chain. ok reports whether the
// macro was well-formed (an elseif with no open if is a stray macro).
func (s branchStack) elseif(evalCond func() bool) (ok bool) {
	if len(s) == 0 {
		return false
	}
	top := &s[len(s)-1]
	if !top.parentActive || top.taken {
		top.branchActive = false
		return true
	}
	cond := evalCond()
	top.branchActive = cond
	top.taken = cond
	return true
}

// els advances the top-of-stack if-chain to its else branch.
func (s branchStack) els() (ok bool) {
	if len(s) == 0 {
		return false
	}
	top := &s[len(s)-1]
	if !top.parentActive || top.taken {
		top.branchActive = false
		return true
	}
	top.branchActive = true
	top.taken = true
	return true
}

// endif closes the top-of-stack if-chain. ok reports whether there was
// one open (a stray <<endif>> is an UnmatchedMacroError).
func (s *branchStack) endif() (ok bool) {
	if len(*s) == 0 {
		return false
	}
	*s = (*s)[:len(*s)-1]
	return true
}
