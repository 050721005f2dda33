// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package render

import (
	"regexp"
	"strings"
)

// whitespaceRun matches any run of spaces, tabs, or newlines. Collapsing
// with a single compiled pattern keeps this independent of however the
// interpreter happened to buffer text before a <<nobr>> region is closed.
var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace implements the <<nobr>>/<<endnobr>> rule (spec.md
// §4.4): trim the region's leading and trailing whitespace, and collapse
// every interior run of whitespace (including newlines) to a single
// space.
func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}
