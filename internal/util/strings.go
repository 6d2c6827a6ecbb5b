// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Rune-aware truncation preserves multi-byte characters.
// Assistant replies are Spanish text with accents and emoji; byte-based
// slicing would corrupt them.

// TruncateRunes truncates a string to a maximum number of runes (characters).
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// TruncateWidth truncates a string to a maximum display width, accounting
// for double-width characters (CJK, emoji) that take 2 terminal columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth > 3 {
		return runewidth.Truncate(s, maxWidth, "...")
	}
	return runewidth.Truncate(s, maxWidth, "")
}

// StringWidth returns the display width of a string in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// RuneLen returns the number of runes (characters) in a string.
func RuneLen(s string) int {
	return len([]rune(s))
}

// Words splits a string on runs of whitespace, preserving word order.
// Empty input yields a nil slice. Used by the staged reveal to step
// through a reply a few words at a time.
func Words(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// JoinWords reassembles the first n words of a reveal sequence with single
// spaces. n past the end returns the full text.
func JoinWords(words []string, n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[:n], " ")
}
