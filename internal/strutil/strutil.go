// Package strutil provides additional string manipulation functions.
package strutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Limit truncates s to the given display width, appending an ellipsis
// when anything was cut. Width is measured in terminal cells, so wide
// runes count as two.
func Limit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// OneLine collapses newlines into spaces so multi-line content can be
// shown in a single list row.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Repeat returns a string consisting of count copies of s.
// Unlike strings.Repeat, it returns an empty string if count is negative.
func Repeat(s string, count int) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(s, count)
}
