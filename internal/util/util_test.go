// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"empty", "", 10, ""},
		{"shorter than max", "hola", 10, "hola"},
		{"exact length", "hola", 4, "hola"},
		{"truncated with ellipsis", "hola mundo", 7, "hola..."},
		{"accented runes intact", "artículo más largo", 10, "artícul..."},
		{"zero max", "hola", 0, ""},
		{"tiny max no ellipsis", "hola", 2, "ho"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.maxRunes)
			if got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	if got := Words(""); got != nil {
		t.Errorf("Words(\"\") = %v, want nil", got)
	}
	if got := Words("   "); got != nil {
		t.Errorf("Words(blank) = %v, want nil", got)
	}

	words := Words("Hola,  ¿cómo estás\nhoy?")
	if len(words) != 4 {
		t.Fatalf("Words returned %d words, want 4: %v", len(words), words)
	}
	if words[0] != "Hola," || words[3] != "hoy?" {
		t.Errorf("Words order wrong: %v", words)
	}
}

func TestJoinWords(t *testing.T) {
	words := []string{"una", "frase", "de", "prueba"}

	if got := JoinWords(words, 0); got != "" {
		t.Errorf("JoinWords(.., 0) = %q, want empty", got)
	}
	if got := JoinWords(words, 2); got != "una frase" {
		t.Errorf("JoinWords(.., 2) = %q", got)
	}
	// n past the end returns everything
	if got := JoinWords(words, 99); got != "una frase de prueba" {
		t.Errorf("JoinWords(.., 99) = %q", got)
	}
}

// =============================================================================
// DATE TESTS
// =============================================================================

func TestRelativeDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, ""},
		{"just now", now.Add(-30 * time.Second), "Ahora"},
		{"minutes", now.Add(-5 * time.Minute), "Hace 5 min"},
		{"hours", now.Add(-3 * time.Hour), "Hace 3h"},
		{"days", now.Add(-2 * 24 * time.Hour), "Hace 2d"},
		{"older than a week", now.Add(-10 * 24 * time.Hour), "05/06/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeDate(tt.t, now); got != tt.want {
				t.Errorf("RelativeDate = %q, want %q", got, tt.want)
			}
		})
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "creds.json")

	if err := AtomicWriteFile(path, []byte(`{"ok":true}`), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("file content = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	// Overwrite replaces content and leaves no temp files behind
	if err := AtomicWriteFile(path, []byte("nuevo"), 0o600); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "nuevo" {
		t.Errorf("overwrite content = %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry in dir, got %d", len(entries))
	}
}
