// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY BINDINGS
// =============================================================================

// keyMap holds the chat view's bindings.
type keyMap struct {
	Send       key.Binding
	NewChat    key.Binding
	History    key.Binding
	SkipReveal key.Binding
	Delete     key.Binding
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "enviar"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "nueva"),
		),
		History: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "historial"),
		),
		SkipReveal: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "completar"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "eliminar"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "bajar"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "salir"),
		),
	}
}
