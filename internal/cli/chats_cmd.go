// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chats_cmd.go - Conversation history management.
//
// Subcommands:
//   camila chats [list]            List conversations, newest first
//   camila chats show <id>         Print a conversation
//   camila chats delete <id>       Delete a conversation
//   camila chats export <id>       Export (--format md|html|txt)
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/garcessebastian/camila-tui/internal/markup"
	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/util"
)

// HandleChats dispatches the history subcommands.
func HandleChats(app *App, args Args) int {
	switch args.Subcommand {
	case "", "list", "ls":
		return chatsList(app, args)
	case "show":
		return chatsShow(app, args)
	case "delete", "rm":
		return chatsDelete(app, args)
	case "export":
		return chatsExport(app, args)
	default:
		fmt.Fprintln(os.Stderr, warningStyle.Render("Subcomando desconocido: "+args.Subcommand))
		return 2
	}
}

func requireChatID(args Args) (string, bool) {
	if args.ChatID == "" {
		fmt.Fprintln(os.Stderr, warningStyle.Render("Falta el id de la conversación."))
		return "", false
	}
	return args.ChatID, true
}

func chatsList(app *App, args Args) int {
	sessions, err := app.Engine.History(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	if args.JSON {
		out, _ := json.MarshalIndent(sessions, "", "  ")
		fmt.Println(string(out))
		return 0
	}

	if len(sessions) == 0 {
		fmt.Println(infoStyle.Render("No hay conversaciones guardadas."))
		return 0
	}
	now := time.Now()
	for _, s := range sessions {
		fmt.Printf("%-26s %-50s %s\n",
			s.ID,
			util.TruncateWidth(s.Title, 50),
			infoStyle.Render(util.RelativeDate(s.UpdatedAt, now)))
	}
	return 0
}

func chatsShow(app *App, args Args) int {
	id, ok := requireChatID(args)
	if !ok {
		return 2
	}
	if err := app.Engine.OpenChat(context.Background(), id); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	current := app.Engine.Current()
	fmt.Println(assistantNameStyle.Render(current.Title))
	if badge := markup.RiskBadgeTerminal(current.RiskLevel); badge != "" {
		fmt.Println(badge)
	}
	fmt.Println()
	for _, message := range current.Messages {
		fmt.Println(promptStyle.Render(message.Role.DisplayName() + ":"))
		fmt.Println(markup.ToTerminal(message.Content, 76))
		fmt.Println()
	}
	return 0
}

func chatsDelete(app *App, args Args) int {
	id, ok := requireChatID(args)
	if !ok {
		return 2
	}
	if err := app.Engine.DeleteChat(context.Background(), id); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	fmt.Println(infoStyle.Render("Conversación eliminada."))
	return 0
}

func chatsExport(app *App, args Args) int {
	id, ok := requireChatID(args)
	if !ok {
		return 2
	}
	if err := app.Engine.OpenChat(context.Background(), id); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	current := app.Engine.Current()

	format := strings.ToLower(args.Format)
	if format == "" {
		format = "txt"
	}

	var content string
	switch format {
	case "txt", "text":
		content = exportText(current)
	case "md", "markdown":
		content = exportMarkdown(current)
	case "html":
		content = exportHTML(current)
	default:
		fmt.Fprintln(os.Stderr, warningStyle.Render("Formato no soportado: "+format+" (md|html|txt)"))
		return 2
	}

	if args.Output == "" {
		fmt.Print(content)
		return 0
	}
	if err := os.WriteFile(args.Output, []byte(content), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	fmt.Println(infoStyle.Render("Exportado a " + args.Output))
	return 0
}

// =============================================================================
// EXPORT FORMATS
// =============================================================================

func exportText(chat *model.ChatSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", chat.Title, chat.UpdatedAt.Format("02/01/2006 15:04"))
	for _, message := range chat.Messages {
		fmt.Fprintf(&b, "[%s] %s\n", message.Role.DisplayName(), markup.Parse(message.Content).PlainText())
		b.WriteString("\n")
	}
	return b.String()
}

func exportMarkdown(chat *model.ChatSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n_%s_\n\n", chat.Title, chat.UpdatedAt.Format("02/01/2006 15:04"))
	for _, message := range chat.Messages {
		fmt.Fprintf(&b, "**%s:**\n\n%s\n\n", message.Role.DisplayName(), replyToMarkdown(message.Content))
	}
	return b.String()
}

func exportHTML(chat *model.ChatSession) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"es\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n</head>\n<body>\n", chat.Title)
	fmt.Fprintf(&b, "<h1>%s</h1>\n", chat.Title)
	if badge := markup.RiskBadgeHTML(chat.RiskLevel); badge != "" {
		b.WriteString(badge + "\n")
	}
	for _, message := range chat.Messages {
		class := "assistant-message"
		if message.Role == model.RoleUser {
			class = "user-message"
		}
		fmt.Fprintf(&b, "<div class=\"%s\">\n<strong>%s</strong>\n%s\n</div>\n",
			class, message.Role.DisplayName(), markup.ToHTML(message.Content))
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
