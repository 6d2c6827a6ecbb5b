// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/garcessebastian/camila-tui/internal/ui/styles"
)

// =============================================================================
// HEADER BAR
// =============================================================================

// Header renders the top bar: brand on the left, account or quota
// state on the right, padded to the full width.
func Header(theme *styles.Theme, width int, right string) string {
	left := theme.HeaderTitle.Render("💙 Camila") + " " +
		theme.HeaderSubtitle.Render("apoyo emocional")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// StatusBar renders the bottom shortcut line.
func StatusBar(theme *styles.Theme, width int, shortcuts [][2]string) string {
	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, theme.ShortcutKey.Render(s[0])+" "+theme.ShortcutDesc.Render(s[1]))
	}
	return theme.StatusBar.Width(width).Render(strings.Join(parts, "  "))
}
