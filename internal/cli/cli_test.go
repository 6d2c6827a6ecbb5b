// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// ARGUMENT PARSING TESTS
// =============================================================================

func TestParse_DefaultIsTUI(t *testing.T) {
	cmd, args := parseFrom(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v", cmd)
	}
	if args.Plain {
		t.Error("Plain should default off")
	}
}

func TestParse_PlainAloneOpensREPL(t *testing.T) {
	cmd, args := parseFrom([]string{"--plain"})
	if cmd != CmdChat || !args.Plain {
		t.Errorf("cmd = %v, args = %+v", cmd, args)
	}
}

func TestParse_AskCollectsQuery(t *testing.T) {
	cmd, args := parseFrom([]string{"ask", "no", "puedo", "dormir"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Query != "no puedo dormir" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParse_UnknownWordBecomesAsk(t *testing.T) {
	cmd, args := parseFrom([]string{"hola", "camila"})
	if cmd != CmdAsk || args.Query != "hola camila" {
		t.Errorf("cmd = %v, Query = %q", cmd, args.Query)
	}
}

func TestParse_ChatsSubcommands(t *testing.T) {
	cases := []struct {
		argv []string
		sub  string
		id   string
	}{
		{[]string{"chats"}, "list", ""},
		{[]string{"chats", "show", "abc"}, "show", "abc"},
		{[]string{"chats", "delete", "abc"}, "delete", "abc"},
		{[]string{"chats", "export", "abc", "--format", "html"}, "export", "abc"},
	}
	for _, tc := range cases {
		cmd, args := parseFrom(tc.argv)
		if cmd != CmdChats {
			t.Errorf("%v: cmd = %v", tc.argv, cmd)
		}
		if args.Subcommand != tc.sub || args.ChatID != tc.id {
			t.Errorf("%v: sub = %q, id = %q", tc.argv, args.Subcommand, args.ChatID)
		}
	}
}

func TestParse_FormatFlagVariants(t *testing.T) {
	_, args := parseFrom([]string{"chats", "export", "abc", "--format=md", "-o", "out.md"})
	if args.Format != "md" || args.Output != "out.md" {
		t.Errorf("args = %+v", args)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := parseFrom([]string{"--json", "whoami"})
	if cmd != CmdWhoami || !args.JSON {
		t.Errorf("cmd = %v, args = %+v", cmd, args)
	}

	cmd, args = parseFrom([]string{"panel", "--watch"})
	if cmd != CmdPanel || !args.Watch {
		t.Errorf("cmd = %v, args = %+v", cmd, args)
	}
}

func TestUsage_NamesEveryCommand(t *testing.T) {
	usage := Usage()
	for _, word := range []string{"ask", "login", "register", "logout", "whoami", "chats", "panel", "doctor"} {
		if !strings.Contains(usage, word) {
			t.Errorf("usage missing %q", word)
		}
	}
}

// =============================================================================
// EXPORT FORMAT TESTS
// =============================================================================

func exportFixture() *model.ChatSession {
	chat := model.NewChatSession()
	chat.Title = "Prueba"
	chat.AddUserMessage("Hola")
	chat.AddAssistantMessage("**Hola.** ¿Cómo estás?")
	return chat
}

func TestExportText_StripsMarkup(t *testing.T) {
	out := exportText(exportFixture())
	if strings.Contains(out, "**") {
		t.Errorf("bold markers survived: %q", out)
	}
	if !strings.Contains(out, "Hola.") || !strings.Contains(out, "[Tú]") {
		t.Errorf("export = %q", out)
	}
}

func TestExportHTML_EscapedAndClassed(t *testing.T) {
	chat := model.NewChatSession()
	chat.AddUserMessage("<script>alert(1)</script>")
	out := exportHTML(chat)
	if strings.Contains(out, "<script>") {
		t.Error("user content not escaped")
	}
	if !strings.Contains(out, "user-message") {
		t.Errorf("missing class: %q", out)
	}
}

func TestExportHTML_RiskBadge(t *testing.T) {
	chat := model.NewChatSession()
	chat.AddUserMessage("hola")

	if out := exportHTML(chat); strings.Contains(out, "risk-badge") {
		t.Errorf("unannotated chat should carry no badge: %q", out)
	}

	chat.RiskLevel = model.RiskCritico
	out := exportHTML(chat)
	if !strings.Contains(out, `<span class="risk-badge risk-critico">Crítico</span>`) {
		t.Errorf("annotated chat should carry the badge: %q", out)
	}
}

func TestExportMarkdown_KeepsStructure(t *testing.T) {
	out := exportMarkdown(exportFixture())
	if !strings.Contains(out, "# Prueba") || !strings.Contains(out, "**Camila:**") {
		t.Errorf("export = %q", out)
	}
	if !strings.Contains(out, "**Hola.**") {
		t.Errorf("bold lost: %q", out)
	}
}
