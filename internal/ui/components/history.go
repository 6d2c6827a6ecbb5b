// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/ui/styles"
	"github.com/garcessebastian/camila-tui/internal/util"
)

// =============================================================================
// HISTORY SIDEBAR
// =============================================================================

// HistoryList is the conversation sidebar: a cursor-navigable list of
// past sessions, newest first.
type HistoryList struct {
	sessions []*model.ChatSession
	cursor   int
	// confirm holds the ID pending delete confirmation, or ""
	confirm string

	authenticated bool
	width         int
	height        int
}

// NewHistoryList creates an empty sidebar.
func NewHistoryList() HistoryList {
	return HistoryList{}
}

// SetSessions replaces the list, keeping the cursor on the same
// conversation when it survives the refresh.
func (h *HistoryList) SetSessions(sessions []*model.ChatSession) {
	var currentID string
	if h.cursor < len(h.sessions) {
		currentID = h.sessions[h.cursor].ID
	}

	h.sessions = sessions
	h.cursor = 0
	for i, s := range sessions {
		if s.ID == currentID {
			h.cursor = i
			break
		}
	}
	if h.confirm != "" && h.byID(h.confirm) == nil {
		h.confirm = ""
	}
}

// SetAuthenticated switches the empty-state wording.
func (h *HistoryList) SetAuthenticated(authenticated bool) {
	h.authenticated = authenticated
}

// SetSize fixes the render box.
func (h *HistoryList) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Len returns the number of listed sessions.
func (h *HistoryList) Len() int {
	return len(h.sessions)
}

// Selected returns the session under the cursor, or nil.
func (h *HistoryList) Selected() *model.ChatSession {
	if h.cursor < 0 || h.cursor >= len(h.sessions) {
		return nil
	}
	return h.sessions[h.cursor]
}

// MoveUp moves the cursor toward newer sessions.
func (h *HistoryList) MoveUp() {
	if h.cursor > 0 {
		h.cursor--
	}
	h.confirm = ""
}

// MoveDown moves the cursor toward older sessions.
func (h *HistoryList) MoveDown() {
	if h.cursor < len(h.sessions)-1 {
		h.cursor++
	}
	h.confirm = ""
}

// RequestDelete arms delete confirmation for the selected session.
// The next ConfirmDelete returns its ID; any cursor move disarms.
func (h *HistoryList) RequestDelete() bool {
	s := h.Selected()
	if s == nil {
		return false
	}
	h.confirm = s.ID
	return true
}

// ConfirmDelete returns the armed session ID and disarms, or "".
func (h *HistoryList) ConfirmDelete() string {
	id := h.confirm
	h.confirm = ""
	return id
}

// PendingDelete reports whether a delete is awaiting confirmation.
func (h *HistoryList) PendingDelete() bool {
	return h.confirm != ""
}

func (h *HistoryList) byID(id string) *model.ChatSession {
	for _, s := range h.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// View renders the sidebar.
func (h *HistoryList) View(theme *styles.Theme) string {
	width := h.width
	if width < 16 {
		width = 16
	}
	inner := width - 4

	var b strings.Builder
	b.WriteString(theme.SidebarTitle.Render("Conversaciones"))
	b.WriteString("\n\n")

	if len(h.sessions) == 0 {
		if h.authenticated {
			b.WriteString(theme.EmptyState.Render("Aún no tienes\nconversaciones"))
		} else {
			b.WriteString(theme.EmptyState.Render("Inicia sesión para\nguardar tu historial"))
		}
		return theme.Sidebar.Width(width).Render(b.String())
	}

	visible := h.height - 4
	if visible < 1 {
		visible = len(h.sessions)
	}
	start := 0
	if h.cursor >= visible {
		start = h.cursor - visible + 1
	}

	now := time.Now()
	for i := start; i < len(h.sessions) && i < start+visible; i++ {
		s := h.sessions[i]
		title := util.TruncateWidth(s.Title, inner)
		if title == "" {
			title = "Sin título"
		}

		line := theme.HistoryItem.Render(title)
		if i == h.cursor {
			if h.confirm == s.ID {
				line = theme.ErrorStyle.Render("¿Eliminar? (d)")
			} else {
				line = theme.HistoryItemSelected.Render(title)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(theme.HistoryMeta.Render(util.RelativeDate(s.UpdatedAt, now)))
		if s.RiskLevel.Valid() {
			b.WriteString(" ")
			b.WriteString(theme.RiskStyle(s.RiskLevel).Render(s.RiskLevel.DisplayName()))
		}
		b.WriteString("\n")
	}

	return theme.Sidebar.Width(width).Render(b.String())
}
