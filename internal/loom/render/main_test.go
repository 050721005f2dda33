// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package render_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies the render package leaves no goroutines running
// past its tests, since the walker and special-passage drivers are the
// only place this module does any non-trivial control flow.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
