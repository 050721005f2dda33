// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

// Package scope implements the variable-scope adapter (spec.md §4.7): a
// small, injected object that translates a `$NAME` reference into the
// canonical key used by the variable store. It carries no process-wide
// state, matching the teacher's guidance for this kind of indirection.
package scope

import "strings"

// Mode selects how a $NAME reference maps to a store key.
type Mode int

// Mode constants name the two scoping strategies (spec.md §4.7).
const (
	// Global maps $NAME to the uppercased bare name, matched
	// case-insensitively against existing keys.
	Global Mode = iota
	// Prefixed maps $NAME to "<username>_<NAME>", preserving the
	// caller-supplied username casing.
	Prefixed
)

// Adapter translates $NAME references to canonical variable-store keys.
// It is configured once on parser/render construction and passed by
// value; it carries no mutable state.
type Adapter struct {
	mode     Mode
	username string
}

// NewGlobal constructs a GLOBAL-scope adapter.
func NewGlobal() Adapter { return Adapter{mode: Global} }

// NewPrefixed constructs a PREFIXED-scope adapter for the given username.
func NewPrefixed(username string) Adapter { return Adapter{mode: Prefixed, username: username} }

// Mode reports the adapter's configured mode.
func (a Adapter) Mode() Mode { return a.mode }

// KeyFor returns the canonical store key for a bare variable name (the
// portion after the leading "$" has already been stripped by the caller).
// Name matching against existing keys is case-insensitive on the bare
// name portion (spec.md §3, §9); KeyFor itself always returns the
// canonical form so storage is consistent regardless of how the name
// was cased at the call site.
func (a Adapter) KeyFor(name string) string {
	return a.prefix() + strings.ToUpper(name)
}

// prefix returns the key prefix this adapter's mode imposes: empty for
// GLOBAL, "<username>_" (exact caller-supplied casing preserved) for
// PREFIXED. Only the bare name portion after this prefix is ever
// case-insensitive — the username itself is not, so two differently
// cased usernames never share PREFIXED-scope state.
func (a Adapter) prefix() string {
	if a.mode == Prefixed {
		return a.username + "_"
	}
	return ""
}

// Store is the variable store: a mapping from canonical key to a typed
// value. It is owned by the caller and passed by reference (spec.md §3);
// the core mutates it only via set macros and the TestSetup driver.
type Store map[string]any

// Get reads the value stored at the adapter's canonical key for name,
// falling back to a scan of store's existing keys that share this
// adapter's exact prefix (so PREFIXED usernames stay case-sensitive)
// and fold-match on the bare name portion — a caller-seeded store (e.g.
// JSON variables off the CLI) is not guaranteed to already be
// uppercased. A missing key reports ok=false; callers apply the
// integer-zero default themselves (spec.md §3: "Missing-variable reads
// yield integer zero").
func (a Adapter) Get(store Store, name string) (any, bool) {
	key := a.KeyFor(name)
	if v, ok := store[key]; ok {
		return v, true
	}
	if k, ok := a.findFold(store, name); ok {
		return store[k], true
	}
	return nil, false
}

// Set writes value at the key matching the adapter's canonical key for
// name: if store already holds a same-prefix key that differs only in
// the bare name's case (most likely from caller-seeded state), that key
// is overwritten in place rather than creating a second, differently
// cased entry alongside it.
func (a Adapter) Set(store Store, name string, value any) {
	if k, ok := a.findFold(store, name); ok {
		store[k] = value
		return
	}
	store[a.KeyFor(name)] = value
}

// findFold scans store for a key with this adapter's exact prefix whose
// remaining suffix fold-matches name's uppercased form.
func (a Adapter) findFold(store Store, name string) (string, bool) {
	prefix := a.prefix()
	bare := strings.ToUpper(name)
	for k := range store {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if strings.EqualFold(strings.TrimPrefix(k, prefix), bare) {
			return k, true
		}
	}
	return "", false
}
