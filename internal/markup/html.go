// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"html"
	"strings"
)

// =============================================================================
// HTML RENDERING
// =============================================================================

// RenderHTML renders a parsed reply as safe HTML. All text is escaped;
// only the tags this renderer emits can appear in the output, and the
// only hrefs are booking links that passed the allowlist at parse time.
func RenderHTML(doc *Document) string {
	var sb strings.Builder

	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockSectionTitle:
			sb.WriteString(`<div class="section-title">`)
			writeSpansHTML(&sb, block.Spans)
			sb.WriteString("</div>")

		case BlockList:
			sb.WriteString(`<ul class="assistant-list">`)
			for _, item := range block.Items {
				sb.WriteString("<li>")
				writeSpansHTML(&sb, item)
				sb.WriteString("</li>")
			}
			sb.WriteString("</ul>")

		default:
			sb.WriteString("<p>")
			writeSpansHTML(&sb, block.Spans)
			sb.WriteString("</p>")
		}
	}

	if doc.Appointment != nil {
		sb.WriteString(`<div class="appointment-suggestion">`)
		sb.WriteString(`<div class="suggestion-header">`)
		sb.WriteString(`<span class="suggestion-icon">💙</span>`)
		sb.WriteString(`<span class="suggestion-title">¿Necesitas más apoyo?</span>`)
		sb.WriteString(`</div>`)
		sb.WriteString(`<p class="suggestion-text">Puedes agendar una cita con psicólogos especializados</p>`)
		sb.WriteString(`<a href="` + html.EscapeString(doc.Appointment.URL) + `" target="_blank" rel="noopener noreferrer" class="suggestion-btn">`)
		sb.WriteString(html.EscapeString(doc.Appointment.Label))
		sb.WriteString(`</a></div>`)
	}

	return sb.String()
}

// ToHTML is the one-step convenience: parse then render.
func ToHTML(raw string) string {
	return RenderHTML(Parse(raw))
}

func writeSpansHTML(sb *strings.Builder, spans []Span) {
	for _, s := range spans {
		text := html.EscapeString(s.Text)
		switch {
		case s.URL != "":
			sb.WriteString(`<a href="` + html.EscapeString(s.URL) + `" target="_blank" rel="noopener noreferrer" class="suggestion-btn">` + text + `</a>`)
		case s.Bold:
			sb.WriteString("<strong>" + text + "</strong>")
		default:
			sb.WriteString(text)
		}
	}
}
