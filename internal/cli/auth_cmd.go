// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Account commands: login, register, logout, whoami.
//
// login and register run the Bubble Tea form by default; --plain reads
// from the terminal directly, with the password echo disabled via
// x/term. Logging in from any of these paths is observed live by other
// running camila processes through the state-file watcher.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/session"
	"github.com/garcessebastian/camila-tui/internal/ui/auth"
	"github.com/garcessebastian/camila-tui/internal/util"
)

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

// HandleLogin signs an existing account in.
func HandleLogin(app *App, args Args) int {
	if app.Ctrl.IsAuthenticated() {
		account := app.Ctrl.Account()
		fmt.Println(infoStyle.Render("Ya has iniciado sesión como " + account.Email + "."))
		return 0
	}
	if args.Plain {
		return plainAuth(app, auth.ModeLogin)
	}
	return runAuthForm(app, auth.ModeLogin)
}

// HandleRegister creates an account and signs it in.
func HandleRegister(app *App, args Args) int {
	if app.Ctrl.IsAuthenticated() {
		fmt.Println(infoStyle.Render("Cierra la sesión actual antes de crear otra cuenta."))
		return 1
	}
	if args.Plain {
		return plainAuth(app, auth.ModeRegister)
	}
	return runAuthForm(app, auth.ModeRegister)
}

func runAuthForm(app *App, mode auth.Mode) int {
	program := tea.NewProgram(auth.New(app.Theme, app.Ctrl, mode))
	final, err := program.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	form, ok := final.(auth.Form)
	if !ok || !form.Done {
		return 1
	}
	greet(form.Account)
	return 0
}

// plainAuth prompts line by line.
func plainAuth(app *App, mode auth.Mode) int {
	reader := bufio.NewReader(os.Stdin)

	var name string
	if mode == auth.ModeRegister {
		fmt.Print("Nombre: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 1
		}
		name = strings.TrimSpace(line)
	}

	fmt.Print("Correo: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return 1
	}
	email := strings.TrimSpace(line)

	fmt.Print("Contraseña: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("No se pudo leer la contraseña."))
		return 1
	}

	if mode == auth.ModeRegister {
		if text, err := app.Client.Terms(context.Background()); err == nil && text != "" {
			fmt.Println()
			fmt.Println(infoStyle.Render(util.TruncateRunes(text, 600)))
			fmt.Println()
		}
	}

	fmt.Print("¿Aceptas los términos y condiciones? (s/n): ")
	line, err = reader.ReadString('\n')
	if err != nil {
		return 1
	}
	terms := strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "s")

	ctx := context.Background()
	var account *model.Account
	if mode == auth.ModeRegister {
		account, err = app.Ctrl.Register(ctx, name, email, string(passwordBytes), terms)
	} else {
		account, err = app.Ctrl.Login(ctx, email, string(passwordBytes), terms)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	greet(account)
	return 0
}

func greet(account *model.Account) {
	fmt.Println(assistantNameStyle.Render("Hola, " + account.Name + " 💙"))
	if account.IsStaff() {
		fmt.Println(infoStyle.Render("Tu rol da acceso a paneles: ejecuta `camila panel`."))
	}
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

// HandleLogout signs out. The anonymous quota is not restored.
func HandleLogout(app *App, args Args) int {
	err := app.Ctrl.Logout(context.Background())
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			fmt.Println(infoStyle.Render("No hay ninguna sesión abierta."))
			return 0
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	fmt.Println(infoStyle.Render("Sesión cerrada."))
	return 0
}

// HandleWhoami prints the active account, or the anonymous state.
func HandleWhoami(app *App, args Args) int {
	account := app.Ctrl.Account()

	if args.JSON {
		payload := map[string]any{"authenticated": account != nil}
		if account != nil {
			payload["account"] = account
			if info, err := app.Ctrl.TokenInfo(); err == nil {
				payload["tokenExpiresAt"] = info.ExpiresAt
			}
		} else {
			payload["anonymousId"] = app.Ctrl.AnonymousID()
			payload["messagesRemaining"] = app.Ctrl.QuotaRemaining()
		}
		out, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(out))
		return 0
	}

	if account == nil {
		fmt.Println(infoStyle.Render("Anónimo (" + app.Ctrl.AnonymousID() + ")"))
		fmt.Printf("Mensajes restantes: %d\n", app.Ctrl.QuotaRemaining())
		return 0
	}

	fmt.Printf("%s <%s>\n", account.Name, account.Email)
	fmt.Printf("Rol: %s\n", account.Role.DisplayName())
	if info, err := app.Ctrl.TokenInfo(); err == nil && !info.ExpiresAt.IsZero() {
		fmt.Printf("Sesión expira: %s\n", info.ExpiresAt.Local().Format("02/01/2006 15:04"))
	}
	return 0
}
