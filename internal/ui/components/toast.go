// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/garcessebastian/camila-tui/internal/ui/styles"
)

// =============================================================================
// TOAST NOTIFICATIONS
// =============================================================================

// ToastKind distinguishes error toasts from informational ones.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastError
)

// Error toasts stay longer so the message can be read.
const (
	InfoToastDuration  = 4 * time.Second
	ErrorToastDuration = 8 * time.Second
)

var toastSeq atomic.Int64

// Toast is a non-blocking corner notification that auto-dismisses.
type Toast struct {
	ID      int64
	Message string
	Kind    ToastKind
}

// ToastExpiredMsg asks the root model to drop a toast by ID.
type ToastExpiredMsg struct {
	ID int64
}

// NewErrorToast builds an error toast and the command that expires it.
func NewErrorToast(message string) (Toast, tea.Cmd) {
	return newToast(message, ToastError, ErrorToastDuration)
}

// NewInfoToast builds an informational toast and its expiry command.
func NewInfoToast(message string) (Toast, tea.Cmd) {
	return newToast(message, ToastInfo, InfoToastDuration)
}

func newToast(message string, kind ToastKind, ttl time.Duration) (Toast, tea.Cmd) {
	t := Toast{ID: toastSeq.Add(1), Message: message, Kind: kind}
	cmd := tea.Tick(ttl, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: t.ID}
	})
	return t, cmd
}

// Render draws the toast with the theme's style for its kind.
func (t Toast) Render(theme *styles.Theme) string {
	if t.Kind == ToastError {
		return theme.ErrorToast.Render("✗ " + t.Message)
	}
	return theme.InfoToast.Render(t.Message)
}
