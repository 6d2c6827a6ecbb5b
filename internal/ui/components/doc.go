// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable UI pieces of the camila TUI:
// the history sidebar, the anonymous-quota badge, non-blocking toasts,
// the typing spinner, and the header bar.
package components
