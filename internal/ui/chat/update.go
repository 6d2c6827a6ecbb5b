// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/garcessebastian/camila-tui/internal/ui/components"
)

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)

	case SendResultMsg:
		return m.handleSendResult(msg)

	case RevealTickMsg:
		_, done := m.engine.AdvanceReveal()
		m.refreshViewport()
		if done {
			return m, nil
		}
		return m, revealTickCmd(m.engine.RevealInterval())

	case HistoryLoadedMsg:
		if msg.Err == nil {
			m.history.SetSessions(msg.Sessions)
		}
		return m, nil

	case HistoryRefreshedMsg:
		m.history.SetSessions(msg.Sessions)
		return m, nil

	case ChatOpenedMsg:
		if msg.Err != nil {
			toast, cmd := components.NewErrorToast(msg.Err.Error())
			return m, m.pushToast(toast, cmd)
		}
		m.focus = focusInput
		m.input.Focus()
		m.refreshViewport()
		return m, nil

	case ChatDeletedMsg:
		if msg.Err != nil {
			toast, cmd := components.NewErrorToast(msg.Err.Error())
			return m, m.pushToast(toast, cmd)
		}
		m.refreshViewport()
		return m, loadHistoryCmd(m.engine)

	case CredentialsChangedMsg:
		m.history.SetAuthenticated(m.ctrl.IsAuthenticated())
		return m, loadHistoryCmd(m.engine)

	case components.ToastExpiredMsg:
		m.dropToast(msg.ID)
		return m, nil
	}

	// Spinner animation frames
	if cmd := m.spinner.Update(msg); cmd != nil {
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	chatWidth := m.chatWidth()
	// header + spinner line + input box + status bar
	viewportHeight := msg.Height - 6
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = newViewport(chatWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = viewportHeight
	}
	m.input.Width = chatWidth - 6
	m.history.SetSize(sidebarWidth, msg.Height-3)
	m.refreshViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.History):
		if m.focus == focusInput && m.history.Len() > 0 {
			m.focus = focusHistory
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		m.engine.NewChat()
		m.refreshViewport()
		m.focus = focusInput
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.SkipReveal):
		if m.engine.RevealActive() {
			m.engine.SkipReveal()
			m.refreshViewport()
		}
		return m, nil
	}

	if m.focus == focusHistory {
		return m.handleHistoryKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Send) {
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.engine.Sending() {
			return m, nil
		}
		m.input.Reset()
		return m, tea.Batch(sendCmd(m.engine, text), m.spinner.Start())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.history.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.history.MoveDown()
	case key.Matches(msg, m.keys.Delete):
		if m.history.PendingDelete() {
			if id := m.history.ConfirmDelete(); id != "" {
				return m, deleteChatCmd(m.engine, id)
			}
		} else {
			m.history.RequestDelete()
		}
	case key.Matches(msg, m.keys.Send):
		if selected := m.history.Selected(); selected != nil {
			return m, openChatCmd(m.engine, selected.ID)
		}
	}
	return m, nil
}

func (m Model) handleSendResult(msg SendResultMsg) (tea.Model, tea.Cmd) {
	m.spinner.Stop()
	m.refreshViewport()

	if msg.Err != nil {
		// Limit and quota errors already carry the Spanish call to
		// action; everything else surfaces verbatim too.
		toast, cmd := components.NewErrorToast(msg.Err.Error())
		return m, m.pushToast(toast, cmd)
	}

	cmds := []tea.Cmd{revealTickCmd(m.engine.RevealInterval())}
	if msg.Outcome != nil && msg.Outcome.Fallback {
		toast, cmd := components.NewInfoToast("Respuesta incompleta del servidor")
		cmds = append(cmds, m.pushToast(toast, cmd))
	}
	return m, tea.Batch(cmds...)
}
