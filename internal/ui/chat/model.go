// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	engine "github.com/garcessebastian/camila-tui/internal/chat"
	"github.com/garcessebastian/camila-tui/internal/session"
	"github.com/garcessebastian/camila-tui/internal/ui/components"
	"github.com/garcessebastian/camila-tui/internal/ui/styles"
)

// focusArea is which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusHistory
)

const sidebarWidth = 28

// Model is the conversation view.
type Model struct {
	theme *styles.Theme
	keys  keyMap

	engine *engine.Engine
	ctrl   *session.Controller

	input    textinput.Model
	viewport viewport.Model
	history  components.HistoryList
	spinner  components.TypingSpinner
	toasts   []components.Toast

	focus       focusArea
	showSidebar bool
	ready       bool
	width       int
	height      int
}

// New builds the conversation view over an engine and controller.
func New(theme *styles.Theme, eng *engine.Engine, ctrl *session.Controller) Model {
	input := textinput.New()
	input.Placeholder = "Escribe tu mensaje..."
	input.PlaceholderStyle = theme.InputPlaceholder
	input.PromptStyle = theme.InputPrompt
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	history := components.NewHistoryList()
	history.SetAuthenticated(ctrl.IsAuthenticated())

	return Model{
		theme:       theme,
		keys:        defaultKeyMap(),
		engine:      eng,
		ctrl:        ctrl,
		input:       input,
		history:     history,
		spinner:     components.NewTypingSpinner(theme),
		showSidebar: true,
	}
}

// Init loads the conversation list on startup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadHistoryCmd(m.engine))
}

// pushToast queues a toast and its expiry command.
func (m *Model) pushToast(toast components.Toast, cmd tea.Cmd) tea.Cmd {
	m.toasts = append(m.toasts, toast)
	return cmd
}

// dropToast removes an expired toast.
func (m *Model) dropToast(id int64) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}
