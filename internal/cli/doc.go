// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the camila command line: argument parsing,
// the plain-terminal REPL, one-shot asks, account commands, history
// management and the role-scoped panel command. The default command
// (no arguments) starts the full-screen TUI.
package cli
