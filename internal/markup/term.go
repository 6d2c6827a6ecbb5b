// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// TERMINAL RENDERING
// =============================================================================

// TermStyles bundles the lipgloss styles terminal rendering uses, so the
// UI theme can restyle replies without touching the renderer.
type TermStyles struct {
	Bold         lipgloss.Style
	SectionTitle lipgloss.Style
	Bullet       lipgloss.Style
	Link         lipgloss.Style
	CardBorder   lipgloss.Style
	CardTitle    lipgloss.Style
}

// DefaultTermStyles returns a readable default palette.
func DefaultTermStyles() TermStyles {
	return TermStyles{
		Bold:         lipgloss.NewStyle().Bold(true),
		SectionTitle: lipgloss.NewStyle().Bold(true).Underline(true),
		Bullet:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Link:         lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true),
		CardBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1),
		CardTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
}

// RenderTerminal renders a parsed reply as styled terminal text wrapped
// to width. Width <= 0 disables wrapping.
func RenderTerminal(doc *Document, width int, styles TermStyles) string {
	var parts []string

	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockSectionTitle:
			parts = append(parts, styles.SectionTitle.Render(spansToTerm(block.Spans, styles)))

		case BlockList:
			var lines []string
			for _, item := range block.Items {
				lines = append(lines, styles.Bullet.Render("• ")+spansToTerm(item, styles))
			}
			parts = append(parts, strings.Join(lines, "\n"))

		default:
			text := spansToTerm(block.Spans, styles)
			if width > 0 {
				text = lipgloss.NewStyle().Width(width).Render(text)
			}
			parts = append(parts, text)
		}
	}

	if doc.Appointment != nil {
		card := styles.CardTitle.Render("💙 ¿Necesitas más apoyo?") + "\n" +
			"Puedes agendar una cita con psicólogos especializados\n" +
			styles.Link.Render(doc.Appointment.Label) + " → " + doc.Appointment.URL
		parts = append(parts, styles.CardBorder.Render(card))
	}

	return strings.Join(parts, "\n\n")
}

// ToTerminal is the one-step convenience: parse then render with the
// default styles.
func ToTerminal(raw string, width int) string {
	return RenderTerminal(Parse(raw), width, DefaultTermStyles())
}

func spansToTerm(spans []Span, styles TermStyles) string {
	var sb strings.Builder
	for _, s := range spans {
		switch {
		case s.URL != "":
			sb.WriteString(styles.Link.Render(s.Text))
		case s.Bold:
			sb.WriteString(styles.Bold.Render(s.Text))
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
