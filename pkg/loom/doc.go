// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

// Package loom is the public façade over the Loom interactive-fiction
// core: parsing DSL source into passages, rendering a passage's macros
// against a variable store, and evaluating bare expressions and
// conditions outside of a passage context. It re-exports just enough of
// the internal/loom/* packages' types to give a host application a
// single import, mirroring the teacher's pkg/holo façade over its
// internal packages.
package loom
