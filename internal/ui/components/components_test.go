// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	dark := true
	return styles.NewTheme(&dark)
}

// =============================================================================
// HISTORY LIST TESTS
// =============================================================================

func sessionsFixture(ids ...string) []*model.ChatSession {
	sessions := make([]*model.ChatSession, 0, len(ids))
	now := time.Now()
	for i, id := range ids {
		sessions = append(sessions, &model.ChatSession{
			ID:        id,
			Title:     "Conversación " + id,
			UpdatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return sessions
}

func TestHistoryList_CursorSurvivesRefresh(t *testing.T) {
	h := NewHistoryList()
	h.SetSessions(sessionsFixture("a", "b", "c"))
	h.MoveDown()
	h.MoveDown()
	if h.Selected().ID != "c" {
		t.Fatalf("selected = %q", h.Selected().ID)
	}

	// Refresh reorders; cursor follows the conversation, not the index
	h.SetSessions(sessionsFixture("x", "c", "a"))
	if h.Selected().ID != "c" {
		t.Errorf("after refresh selected = %q, want c", h.Selected().ID)
	}
}

func TestHistoryList_CursorBounds(t *testing.T) {
	h := NewHistoryList()
	h.SetSessions(sessionsFixture("a", "b"))
	h.MoveUp()
	if h.Selected().ID != "a" {
		t.Errorf("MoveUp at top moved: %q", h.Selected().ID)
	}
	h.MoveDown()
	h.MoveDown()
	h.MoveDown()
	if h.Selected().ID != "b" {
		t.Errorf("MoveDown past end: %q", h.Selected().ID)
	}
}

func TestHistoryList_DeleteConfirmation(t *testing.T) {
	h := NewHistoryList()
	h.SetSessions(sessionsFixture("a", "b"))

	if !h.RequestDelete() {
		t.Fatal("RequestDelete failed")
	}
	if !h.PendingDelete() {
		t.Fatal("not armed")
	}
	if id := h.ConfirmDelete(); id != "a" {
		t.Errorf("ConfirmDelete = %q", id)
	}
	if h.PendingDelete() {
		t.Error("still armed after confirm")
	}
}

func TestHistoryList_MoveDisarmsDelete(t *testing.T) {
	h := NewHistoryList()
	h.SetSessions(sessionsFixture("a", "b"))
	h.RequestDelete()
	h.MoveDown()
	if h.PendingDelete() {
		t.Error("cursor move should disarm the pending delete")
	}
}

func TestHistoryList_EmptyStateByAuth(t *testing.T) {
	theme := testTheme()

	h := NewHistoryList()
	h.SetAuthenticated(false)
	if out := h.View(theme); !strings.Contains(out, "Inicia sesión") {
		t.Errorf("anonymous empty state = %q", out)
	}

	h.SetAuthenticated(true)
	if out := h.View(theme); !strings.Contains(out, "Aún no tienes") {
		t.Errorf("authenticated empty state = %q", out)
	}
}

func TestHistoryList_ShowsRiskAnnotation(t *testing.T) {
	theme := testTheme()

	sessions := sessionsFixture("a", "b")
	sessions[0].RiskLevel = model.RiskAlto

	h := NewHistoryList()
	h.SetSize(30, 20)
	h.SetSessions(sessions)

	out := h.View(theme)
	if !strings.Contains(out, "Alto") {
		t.Errorf("annotated entry should show its risk label: %q", out)
	}
	if strings.Contains(out, "Mínimo") {
		t.Errorf("unannotated entries must show no label: %q", out)
	}
}

// =============================================================================
// QUOTA BADGE TESTS
// =============================================================================

func TestQuotaBadge(t *testing.T) {
	theme := testTheme()

	if out := QuotaBadge(theme, 3, true); out != "" {
		t.Errorf("authenticated badge = %q, want hidden", out)
	}
	if out := QuotaBadge(theme, 3, false); !strings.Contains(out, "3/5") {
		t.Errorf("badge = %q", out)
	}
	if out := QuotaBadge(theme, 0, false); !strings.Contains(out, "inicia sesión") {
		t.Errorf("exhausted badge = %q", out)
	}
}

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToast_UniqueIDs(t *testing.T) {
	a, cmd1 := NewErrorToast("uno")
	b, cmd2 := NewInfoToast("dos")
	if a.ID == b.ID {
		t.Error("toast IDs collide")
	}
	if cmd1 == nil || cmd2 == nil {
		t.Error("expiry command missing")
	}
	if a.Kind != ToastError || b.Kind != ToastInfo {
		t.Errorf("kinds = %v %v", a.Kind, b.Kind)
	}
}
