// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot message command.
//
// Handles "camila ask": sends a single message, waits for the reply
// and prints it rendered, without entering a session loop. The reply
// counts against the anonymous quota like any other message.
//
// Examples:
//   camila ask "No puedo dormir últimamente"
//   camila ask --json "Hola"
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/garcessebastian/camila-tui/internal/markup"
)

// HandleAsk sends one message and prints the reply.
func HandleAsk(app *App, args Args) int {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Uso: camila ask \"mensaje\""))
		return 2
	}

	outcome, err := app.Engine.Send(context.Background(), query)
	if err != nil {
		printSendError(app, err)
		return 1
	}

	if args.JSON {
		payload := map[string]any{
			"message":  query,
			"response": outcome.Assistant.Content,
			"fallback": outcome.Fallback,
		}
		if chat := app.Engine.Current(); chat.ID != "" {
			payload["chatId"] = chat.ID
		}
		out, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(out))
		return 0
	}

	fmt.Println(renderReplyMarkdown(outcome.Assistant.Content))
	return 0
}

// renderReplyMarkdown converts the reply's light markup to Markdown
// and renders it with glamour; on renderer failure it falls back to
// the lipgloss terminal renderer.
func renderReplyMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return markup.ToTerminal(content, 80)
	}

	out, err := renderer.Render(replyToMarkdown(content))
	if err != nil {
		return markup.ToTerminal(content, 80)
	}
	return strings.TrimRight(out, "\n")
}

// replyToMarkdown rewrites the assistant's markup as plain Markdown:
// section titles become headings and the appointment card becomes a
// blockquote with its (allowlisted) link.
func replyToMarkdown(content string) string {
	doc := markup.Parse(content)

	var b strings.Builder
	for _, block := range doc.Blocks {
		switch block.Kind {
		case markup.BlockSectionTitle:
			b.WriteString("### " + spansToMarkdown(block.Spans) + "\n\n")
		case markup.BlockList:
			for _, item := range block.Items {
				b.WriteString("- " + spansToMarkdown(item) + "\n")
			}
			b.WriteString("\n")
		default:
			b.WriteString(spansToMarkdown(block.Spans) + "\n\n")
		}
	}

	if doc.Appointment != nil {
		b.WriteString("> 💙 ¿Necesitas más apoyo?\n>\n")
		b.WriteString(fmt.Sprintf("> [%s](%s)\n", doc.Appointment.Label, doc.Appointment.URL))
	}
	return b.String()
}

func spansToMarkdown(spans []markup.Span) string {
	var b strings.Builder
	for _, span := range spans {
		switch {
		case span.URL != "":
			fmt.Fprintf(&b, "[%s](%s)", span.Text, span.URL)
		case span.Bold:
			b.WriteString("**" + span.Text + "**")
		default:
			b.WriteString(span.Text)
		}
	}
	return b.String()
}
