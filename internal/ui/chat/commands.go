// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	engine "github.com/garcessebastian/camila-tui/internal/chat"
)

// =============================================================================
// ENGINE COMMANDS
// =============================================================================

// sendCmd dispatches a message through the engine.
func sendCmd(eng *engine.Engine, text string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := eng.Send(context.Background(), text)
		return SendResultMsg{Outcome: outcome, Err: err}
	}
}

// revealTickCmd schedules the next reveal step.
func revealTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RevealTickMsg{}
	})
}

// loadHistoryCmd fetches the conversation list.
func loadHistoryCmd(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		sessions, err := eng.History(context.Background())
		return HistoryLoadedMsg{Sessions: sessions, Err: err}
	}
}

// openChatCmd loads a conversation into the engine.
func openChatCmd(eng *engine.Engine, id string) tea.Cmd {
	return func() tea.Msg {
		err := eng.OpenChat(context.Background(), id)
		return ChatOpenedMsg{ID: id, Err: err}
	}
}

// deleteChatCmd removes a conversation.
func deleteChatCmd(eng *engine.Engine, id string) tea.Cmd {
	return func() tea.Msg {
		err := eng.DeleteChat(context.Background(), id)
		return ChatDeletedMsg{ID: id, Err: err}
	}
}
