// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/garcessebastian/camila-tui/internal/markup"
	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/ui/components"
)

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// chatWidth is the conversation column width, minus the sidebar.
func (m *Model) chatWidth() int {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// refreshViewport re-renders the conversation into the viewport and
// follows the newest message.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

// renderConversation draws every message of the current session.
func (m *Model) renderConversation() string {
	current := m.engine.Current()
	width := m.chatWidth() - 4

	if current.IsEmpty() {
		return m.theme.EmptyState.Render(
			"Hola, soy Camila 💙\nCuéntame cómo te sientes hoy.")
	}

	var b strings.Builder
	for _, message := range current.Messages {
		b.WriteString(m.renderMessage(message, width))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m *Model) renderMessage(message *model.Message, width int) string {
	sender := m.theme.SenderAssistant.Render(message.Role.DisplayName())
	if message.Role == model.RoleUser {
		sender = m.theme.SenderUser.Render(message.Role.DisplayName())
	}

	var body string
	switch message.Role {
	case model.RoleUser:
		body = m.theme.UserBubble.Width(width * 3 / 4).Render(message.Content)
	default:
		content := m.engine.VisibleContent(message)
		if m.engine.RevealActive() && content != message.Content {
			// Partial reveal renders plain so word boundaries stay put
			body = m.theme.AssistantBubble.Width(width * 3 / 4).Render(content + " ▌")
		} else {
			body = m.theme.AssistantBubble.Width(width * 3 / 4).Render(
				markup.ToTerminal(content, width*3/4-6))
		}
	}

	block := sender + "\n" + body
	if message.Role == model.RoleUser {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(block)
	}
	return block
}

// View assembles the full screen.
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}

	right := components.QuotaBadge(m.theme, m.ctrl.QuotaRemaining(), m.ctrl.IsAuthenticated())
	if account := m.ctrl.Account(); account != nil {
		right = m.theme.SuccessStyle.Render(account.Name)
	}
	header := components.Header(m.theme, m.width, right)

	var columns []string
	if m.showSidebar {
		columns = append(columns, m.history.View(m.theme))
	}

	chatColumn := m.viewport.View() + "\n" +
		m.spinner.View(m.theme) + "\n" +
		m.theme.InputContainer.Width(m.chatWidth()).Render(m.input.View())
	columns = append(columns, chatColumn)

	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	status := components.StatusBar(m.theme, m.width, [][2]string{
		{"enter", "enviar"},
		{"tab", "historial"},
		{"ctrl+n", "nueva"},
		{"esc", "completar"},
		{"ctrl+c", "salir"},
	})

	screen := header + "\n" + body + "\n" + status
	for _, toast := range m.toasts {
		screen += "\n" + toast.Render(m.theme)
	}
	return screen
}
