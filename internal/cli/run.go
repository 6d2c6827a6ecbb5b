// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// run.go - Command dispatch.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/store"
	uichat "github.com/garcessebastian/camila-tui/internal/ui/chat"
)

// Run executes the parsed command and returns the process exit code.
func Run(cmd Command, args Args) int {
	switch cmd {
	case CmdHelp:
		fmt.Print(Usage())
		return 0
	case CmdVersion:
		fmt.Printf("camila %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return 0
	}

	app, err := NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	defer app.Close()

	switch cmd {
	case CmdTUI:
		if args.Plain || app.Config.UI.Plain {
			return HandleChat(app, args)
		}
		return runTUI(app)
	case CmdChat:
		return HandleChat(app, args)
	case CmdAsk:
		return HandleAsk(app, args)
	case CmdLogin:
		return HandleLogin(app, args)
	case CmdRegister:
		return HandleRegister(app, args)
	case CmdLogout:
		return HandleLogout(app, args)
	case CmdWhoami:
		return HandleWhoami(app, args)
	case CmdChats:
		return HandleChats(app, args)
	case CmdPanel:
		return HandlePanel(app, args)
	case CmdDoctor:
		return HandleDoctor(app, args)
	default:
		fmt.Print(Usage())
		return 2
	}
}

// runTUI starts the full-screen conversation view, bridging engine and
// controller callbacks into the Bubble Tea message loop.
func runTUI(app *App) int {
	program := tea.NewProgram(
		uichat.New(app.Theme, app.Engine, app.Ctrl),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Debounced post-send refreshes arrive from an engine goroutine.
	app.Engine.OnHistoryRefreshed(func(sessions []*model.ChatSession) {
		program.Send(uichat.HistoryRefreshedMsg{Sessions: sessions})
	})

	// Logins/logouts, including those made by other processes.
	app.Ctrl.OnChange(func(*store.Credentials) {
		program.Send(uichat.CredentialsChangedMsg{})
	})
	// Watcher failure degrades to in-process updates only.
	_ = app.WatchCredentials()

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	return 0
}
