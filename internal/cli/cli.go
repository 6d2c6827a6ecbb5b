// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdChats
	CmdPanel
	CmdDoctor
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Plain   bool // plain-terminal mode, no full-screen TUI
	JSON    bool
	Verbose bool

	// Command-specific
	Query      string
	Subcommand string
	ChatID     string
	Format     string // export format: md|html|txt
	Output     string
	Watch      bool // panel: keep polling live updates

	// Raw args remaining after the command word
	Raw []string
}

const usageText = `camila - acompañamiento emocional en tu terminal

Camila es un cliente de terminal para la plataforma de apoyo emocional
Camila. Sin cuenta puedes enviar hasta 5 mensajes; con cuenta, tu
historial se guarda y no hay límite.

Usage:
  camila                     Abrir el chat (TUI)
  camila ask "mensaje"       Enviar un mensaje y mostrar la respuesta
  camila chat --plain        Chat en modo texto plano (sin TUI)
  camila login               Iniciar sesión
  camila register            Crear una cuenta
  camila logout              Cerrar sesión
  camila whoami              Mostrar la cuenta activa
  camila chats [list|show|delete|export] Historial de conversaciones
  camila panel               Panel según tu rol (experto/admin/institucional)
    --watch                  Mantener el panel actualizándose cada 10s
  camila doctor              Comprobar la conexión con el servidor
  camila version             Mostrar la versión

Flags:
  --plain                    Modo texto plano
  --json                     Salida JSON (chats list, whoami, doctor)
  --format md|html|txt       Formato de exportación (chats export)
  -o, --output FILE          Archivo de salida (chats export)
  -v, --verbose              Salida detallada
`

// Usage returns the top-level help text.
func Usage() string {
	return usageText
}

// Parse reads os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return parseFrom(os.Args[1:])
}

func parseFrom(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		if args.Plain {
			return CmdChat, args
		}
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = strings.Join(positionalsOf(remaining), " ")
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "login":
		return CmdLogin, args

	case "register", "signup":
		return CmdRegister, args

	case "logout":
		return CmdLogout, args

	case "whoami", "me":
		return CmdWhoami, args

	case "chats", "history":
		parseChatsArgs(&args, remaining)
		return CmdChats, args

	case "panel", "dashboard":
		return CmdPanel, args

	case "doctor":
		return CmdDoctor, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		// Unknown word: treat the whole line as an ask, matching the
		// "just talk to it" default.
		args.Query = strings.Join(append([]string{cmd}, positionalsOf(remaining)...), " ")
		return CmdAsk, args
	}
}

// parseGlobalFlags strips the flags that apply to every command.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	remaining := make([]string, 0, len(argv))

	for i := 0; i < len(argv); i++ {
		switch arg := argv[i]; arg {
		case "--plain", "-p":
			args.Plain = true
		case "--json":
			args.JSON = true
		case "--verbose", "-v":
			args.Verbose = true
		case "--watch", "-w":
			args.Watch = true
		case "--format":
			if i+1 < len(argv) {
				args.Format = argv[i+1]
				i++
			}
		case "--output", "-o":
			if i+1 < len(argv) {
				args.Output = argv[i+1]
				i++
			}
		default:
			if strings.HasPrefix(arg, "--format=") {
				args.Format = strings.TrimPrefix(arg, "--format=")
				continue
			}
			if strings.HasPrefix(arg, "--output=") {
				args.Output = strings.TrimPrefix(arg, "--output=")
				continue
			}
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

func parseChatsArgs(args *Args, remaining []string) {
	positionals := positionalsOf(remaining)
	if len(positionals) == 0 {
		args.Subcommand = "list"
		return
	}
	args.Subcommand = strings.ToLower(positionals[0])
	if len(positionals) > 1 {
		args.ChatID = positionals[1]
	}
}

func positionalsOf(argv []string) []string {
	positionals := make([]string, 0, len(argv))
	for _, arg := range argv {
		if !strings.HasPrefix(arg, "-") {
			positionals = append(positionals, arg)
		}
	}
	return positionals
}
