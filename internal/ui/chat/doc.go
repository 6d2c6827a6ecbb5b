// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view of the camila TUI.
//
// The view follows Bubble Tea conventions: network work runs inside
// tea.Cmd goroutines against the engine and comes back as typed
// messages; the staged reveal is driven by tea.Tick at the engine's
// reveal interval, each tick advancing one word batch until the engine
// reports the reveal done.
package chat
