// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"html"

	"github.com/charmbracelet/lipgloss"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// RISK ANNOTATION
// =============================================================================

// RiskBadgeHTML renders the label+color badge for an annotated reply.
// Unknown levels render nothing, so an unexpected annotation can never
// inject markup.
func RiskBadgeHTML(risk model.RiskLevel) string {
	if !risk.Valid() {
		return ""
	}
	return `<span class="risk-badge risk-` + string(risk) + `">` +
		html.EscapeString(risk.DisplayName()) + `</span>`
}

// ToHTMLAnnotated is ToHTML with the risk badge prefixed when the
// content carries a risk annotation.
func ToHTMLAnnotated(raw string, risk model.RiskLevel) string {
	return RiskBadgeHTML(risk) + ToHTML(raw)
}

// riskBadgeStyle colors the terminal badge by band, matching the panel
// palette.
func riskBadgeStyle(risk model.RiskLevel) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch risk {
	case model.RiskCritico:
		return style.Foreground(lipgloss.Color("9"))
	case model.RiskAlto:
		return style.Foreground(lipgloss.Color("208"))
	case model.RiskMedio:
		return style.Foreground(lipgloss.Color("11"))
	case model.RiskBajo:
		return style.Foreground(lipgloss.Color("10"))
	default:
		return style.Foreground(lipgloss.Color("12"))
	}
}

// RiskBadgeTerminal renders the styled terminal badge, or "" for an
// unannotated or unknown level.
func RiskBadgeTerminal(risk model.RiskLevel) string {
	if !risk.Valid() {
		return ""
	}
	return riskBadgeStyle(risk).Render("[" + risk.DisplayName() + "]")
}

// ToTerminalAnnotated is ToTerminal with the risk badge on its own line
// when the content carries a risk annotation.
func ToTerminalAnnotated(raw string, width int, risk model.RiskLevel) string {
	badge := RiskBadgeTerminal(risk)
	body := ToTerminal(raw, width)
	if badge == "" {
		return body
	}
	return badge + "\n" + body
}
