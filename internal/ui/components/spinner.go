// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/garcessebastian/camila-tui/internal/ui/styles"
)

// =============================================================================
// TYPING SPINNER
// =============================================================================

// TypingSpinner is the "Camila está escribiendo" indicator shown while
// a reply is in flight.
type TypingSpinner struct {
	spinner spinner.Model
	active  bool
}

// NewTypingSpinner creates the indicator with a dot animation.
func NewTypingSpinner(theme *styles.Theme) TypingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"·  ", "·· ", "···", " ··", "  ·", "   "},
		FPS:    time.Second / 5,
	}
	s.Style = theme.Spinner
	return TypingSpinner{spinner: s}
}

// Start activates the indicator and returns its tick command.
func (t *TypingSpinner) Start() tea.Cmd {
	t.active = true
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingSpinner) Stop() {
	t.active = false
}

// Active reports whether the indicator is shown.
func (t *TypingSpinner) Active() bool {
	return t.active
}

// Update advances the animation while active.
func (t *TypingSpinner) Update(msg tea.Msg) tea.Cmd {
	if !t.active {
		return nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return cmd
}

// View renders the indicator line, or "" when inactive.
func (t *TypingSpinner) View(theme *styles.Theme) string {
	if !t.active {
		return ""
	}
	return theme.TypingText.Render("Camila está escribiendo ") + t.spinner.View()
}
