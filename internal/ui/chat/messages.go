// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	engine "github.com/garcessebastian/camila-tui/internal/chat"
	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// SEND MESSAGES
// =============================================================================

// SendResultMsg carries the outcome of a message send.
type SendResultMsg struct {
	Outcome *engine.SendOutcome
	Err     error
}

// RevealTickMsg advances the staged reveal by one word batch.
type RevealTickMsg struct{}

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// HistoryLoadedMsg carries a fetched conversation list.
type HistoryLoadedMsg struct {
	Sessions []*model.ChatSession
	Err      error
}

// HistoryRefreshedMsg carries the debounced post-send refresh pushed
// by the engine.
type HistoryRefreshedMsg struct {
	Sessions []*model.ChatSession
}

// ChatOpenedMsg signals a conversation was loaded into the engine.
type ChatOpenedMsg struct {
	ID  string
	Err error
}

// ChatDeletedMsg signals a conversation was removed.
type ChatDeletedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// CredentialsChangedMsg signals a login or logout, possibly from
// another process via the state-file watcher.
type CredentialsChangedMsg struct{}
