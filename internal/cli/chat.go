// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal chat REPL.
//
// Handles "camila chat --plain" (and plain mode from config): a
// line-based conversation loop for terminals where the full-screen TUI
// is unwanted or unsupported. The staged reveal prints word batches at
// the configured cadence instead of repainting a viewport.
//
// Interactive commands:
//   /nueva, /n          Start a new conversation
//   /historial, /h      List past conversations
//   /abrir <id>         Resume a conversation
//   /salir, /q          Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/garcessebastian/camila-tui/internal/markup"
	"github.com/garcessebastian/camila-tui/internal/session"
	"github.com/garcessebastian/camila-tui/internal/store"
	"github.com/garcessebastian/camila-tui/internal/ui/styles"
	"github.com/garcessebastian/camila-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true)

	assistantNameStyle = lipgloss.NewStyle().
				Foreground(styles.Teal).
				Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// replInput wraps liner with persistent input history.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newReplInput(app *App) *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(filepath.Dir(app.Store.CredentialsPath()), "input_history")
	r := &replInput{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *replInput) read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *replInput) close() {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the plain REPL.
func HandleChat(app *App, args Args) int {
	input := newReplInput(app)
	defer input.close()

	printWelcome(app)

	for {
		text, err := input.read(promptStyle.Render("tú> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println(infoStyle.Render("Hasta pronto."))
				return 0
			}
			// Ctrl+D
			fmt.Println()
			return 0
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "/") {
			if done := handleReplCommand(app, text); done {
				return 0
			}
			continue
		}

		sendPlain(app, text)
	}
}

func printWelcome(app *App) {
	fmt.Println(assistantNameStyle.Render("💙 Camila") + infoStyle.Render(" - escribe /salir para terminar"))
	if !app.Ctrl.IsAuthenticated() {
		remaining := app.Ctrl.QuotaRemaining()
		fmt.Println(warningStyle.Render(fmt.Sprintf(
			"Modo anónimo: te quedan %d de %d mensajes. Usa `camila login` para continuar sin límite.",
			remaining, store.AnonymousLimit)))
	}
	fmt.Println()
}

func handleReplCommand(app *App, text string) (done bool) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/salir", "/q", "/quit":
		fmt.Println(infoStyle.Render("Hasta pronto."))
		return true

	case "/nueva", "/n":
		app.Engine.NewChat()
		fmt.Println(infoStyle.Render("Conversación nueva."))

	case "/historial", "/h":
		listPlainHistory(app)

	case "/abrir":
		if len(fields) < 2 {
			fmt.Println(warningStyle.Render("Uso: /abrir <id>"))
			return false
		}
		if err := app.Engine.OpenChat(context.Background(), fields[1]); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			return false
		}
		replayConversation(app)

	default:
		fmt.Println(warningStyle.Render("Comando desconocido. Disponibles: /nueva /historial /abrir /salir"))
	}
	return false
}

func listPlainHistory(app *App) {
	sessions, err := app.Engine.History(context.Background())
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	if len(sessions) == 0 {
		fmt.Println(infoStyle.Render("No hay conversaciones guardadas."))
		return
	}
	now := time.Now()
	for _, s := range sessions {
		fmt.Printf("%s  %s  %s\n",
			infoStyle.Render(s.ID),
			util.TruncateWidth(s.Title, 48),
			infoStyle.Render(util.RelativeDate(s.UpdatedAt, now)))
	}
}

func replayConversation(app *App) {
	current := app.Engine.Current()
	for _, message := range current.Messages {
		fmt.Println(promptStyle.Render(message.Role.DisplayName() + ":"))
		fmt.Println(markup.ToTerminal(message.Content, 76))
		fmt.Println()
	}
}

// sendPlain sends one message and prints the reply with the staged
// word-batch cadence.
func sendPlain(app *App, text string) {
	outcome, err := app.Engine.Send(context.Background(), text)
	if err != nil {
		printSendError(app, err)
		return
	}

	fmt.Println(assistantNameStyle.Render("Camila:"))
	revealPlain(app, outcome.Assistant.Content)
	fmt.Println()

	if !app.Ctrl.IsAuthenticated() {
		remaining := app.Ctrl.QuotaRemaining()
		if remaining <= 2 {
			fmt.Println(warningStyle.Render(fmt.Sprintf("Te quedan %d mensajes.", remaining)))
		}
	}
}

// revealPlain prints word batches at the reveal cadence, then reprints
// the fully formatted reply when it contained structure.
func revealPlain(app *App, content string) {
	words := util.Words(content)
	step := app.Config.Chat.RevealWords
	if step <= 0 {
		step = 3
	}

	doc := markup.Parse(content)
	structured := doc.Appointment != nil || strings.Contains(content, "**") ||
		strings.Contains(content, "\n")

	for i := 0; i < len(words); i += step {
		end := i + step
		if end > len(words) {
			end = len(words)
		}
		fmt.Print(strings.Join(words[i:end], " ") + " ")
		time.Sleep(app.Config.RevealInterval())
	}
	fmt.Println()

	if structured {
		fmt.Println()
		fmt.Println(markup.RenderTerminal(doc, 76, markup.DefaultTermStyles()))
	}
}

func printSendError(app *App, err error) {
	switch {
	case errors.Is(err, session.ErrQuotaExhausted):
		fmt.Println(errorStyle.Render("Has usado tus 5 mensajes anónimos."))
		fmt.Println(infoStyle.Render("Crea una cuenta con `camila register` o entra con `camila login`."))
	default:
		fmt.Println(errorStyle.Render(err.Error()))
	}
}
