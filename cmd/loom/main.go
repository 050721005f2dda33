// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

// Command loom parses, renders, and evaluates stories written in the
// Loom interactive-fiction DSL.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
