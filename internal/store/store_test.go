// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// CREDENTIALS TESTS
// =============================================================================

func TestCredentials_RoundTrip(t *testing.T) {
	s, err := NewWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// Fresh store reads as signed out
	creds := s.LoadCredentials()
	if creds.IsAuthenticated() {
		t.Error("fresh store should not be authenticated")
	}

	saved := &Credentials{
		Token: "tok-123",
		Account: &model.Account{
			ID:    "u1",
			Name:  "Ana",
			Email: "ana@example.com",
			Role:  model.AccountRoleUser,
		},
	}
	if err := s.SaveCredentials(saved); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}

	loaded := s.LoadCredentials()
	if !loaded.IsAuthenticated() {
		t.Fatal("saved credentials should authenticate")
	}
	if loaded.Token != "tok-123" || loaded.Account.Email != "ana@example.com" {
		t.Errorf("loaded = %+v", loaded)
	}

	// Token file permissions
	info, err := os.Stat(s.CredentialsPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("credentials mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestCredentials_CorruptFileReadsAsSignedOut(t *testing.T) {
	s, _ := NewWithDir(t.TempDir())
	if err := os.WriteFile(s.CredentialsPath(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	creds := s.LoadCredentials()
	if creds.IsAuthenticated() {
		t.Error("corrupt file should load as signed out")
	}
}

func TestCredentials_HalfWrittenStateIsSignedOut(t *testing.T) {
	s, _ := NewWithDir(t.TempDir())
	if err := os.WriteFile(s.CredentialsPath(), []byte(`{"token":"t"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if s.LoadCredentials().IsAuthenticated() {
		t.Error("token without account should read as signed out")
	}
}

func TestClearCredentials(t *testing.T) {
	s, _ := NewWithDir(t.TempDir())
	s.SaveCredentials(&Credentials{Token: "t", Account: &model.Account{ID: "u"}})

	if err := s.ClearCredentials(); err != nil {
		t.Fatalf("ClearCredentials: %v", err)
	}
	if s.LoadCredentials().IsAuthenticated() {
		t.Error("cleared store should be signed out")
	}
	// Clearing twice is fine
	if err := s.ClearCredentials(); err != nil {
		t.Errorf("second ClearCredentials: %v", err)
	}
}

// =============================================================================
// QUOTA TESTS
// =============================================================================

func TestQuota_MintsAndPersistsAnonymousID(t *testing.T) {
	s, _ := NewWithDir(t.TempDir())

	q1, err := s.LoadQuota()
	if err != nil {
		t.Fatal(err)
	}
	if q1.AnonymousID == "" {
		t.Fatal("LoadQuota should mint an anonymous ID")
	}
	if q1.Used != 0 {
		t.Errorf("fresh quota Used = %d", q1.Used)
	}

	q2, err := s.LoadQuota()
	if err != nil {
		t.Fatal(err)
	}
	if q2.AnonymousID != q1.AnonymousID {
		t.Error("anonymous ID should be stable across loads")
	}
}

func TestQuota_Counting(t *testing.T) {
	s, _ := NewWithDir(t.TempDir())
	q, _ := s.LoadQuota()

	q.Used = AnonymousLimit - 1
	if err := s.SaveQuota(q); err != nil {
		t.Fatal(err)
	}

	q, _ = s.LoadQuota()
	if q.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", q.Remaining())
	}
	if q.Exhausted() {
		t.Error("not exhausted at limit-1")
	}

	q.Used = AnonymousLimit + 3
	if q.Remaining() != 0 {
		t.Errorf("Remaining should clamp at 0, got %d", q.Remaining())
	}
	if !q.Exhausted() {
		t.Error("over the limit should be exhausted")
	}
}

func TestQuota_SurvivesLogout(t *testing.T) {
	s, _ := NewWithDir(t.TempDir())
	q, _ := s.LoadQuota()
	q.Used = 3
	s.SaveQuota(q)

	s.SaveCredentials(&Credentials{Token: "t", Account: &model.Account{ID: "u"}})
	s.ClearCredentials()

	q, _ = s.LoadQuota()
	if q.Used != 3 {
		t.Errorf("quota Used = %d after logout, want 3", q.Used)
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestCredentialsWatcher_SeesLoginAndLogout(t *testing.T) {
	s, _ := NewWithDir(t.TempDir())

	changes := make(chan *Credentials, 4)
	w, err := NewCredentialsWatcher(s, 50*time.Millisecond, func(c *Credentials) {
		changes <- c
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatal(err)
	}

	s.SaveCredentials(&Credentials{Token: "t", Account: &model.Account{ID: "u", Role: model.AccountRoleUser}})

	select {
	case c := <-changes:
		if !c.IsAuthenticated() {
			t.Error("watcher should observe the login")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for login event")
	}

	s.ClearCredentials()

	select {
	case c := <-changes:
		if c.IsAuthenticated() {
			t.Error("watcher should observe the logout")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for logout event")
	}
}

// =============================================================================
// HISTORY CACHE TESTS
// =============================================================================

func newTestCache(t *testing.T) *HistoryCache {
	t.Helper()
	cache, err := OpenHistoryCachePath(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func testSession(id, title string, updated time.Time) *model.ChatSession {
	return &model.ChatSession{
		ID:        id,
		Title:     title,
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
		Messages: []*model.Message{
			model.NewUserMessage("hola"),
			model.NewAssistantMessage("hola, cuéntame"),
		},
	}
}

func TestHistoryCache_ReplaceAndList(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	sessions := []*model.ChatSession{
		testSession("c1", "primero", now.Add(-time.Hour)),
		testSession("c2", "segundo", now),
	}
	if err := cache.Replace(ctx, sessions); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := cache.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d sessions", len(got))
	}
	if got[0].ID != "c2" {
		t.Errorf("List should order newest first, got %s", got[0].ID)
	}
	if len(got[0].Messages) != 2 {
		t.Errorf("messages not round-tripped: %d", len(got[0].Messages))
	}

	synced, err := cache.SyncedAt(ctx)
	if err != nil || synced.IsZero() {
		t.Errorf("SyncedAt after Replace = %v, %v", synced, err)
	}
}

func TestHistoryCache_PutGetDelete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	sess := testSession("c9", "puntual", time.Now())
	if err := cache.Put(ctx, sess); err != nil {
		t.Fatal(err)
	}

	got, err := cache.Get(ctx, "c9")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "puntual" {
		t.Errorf("Title = %q", got.Title)
	}

	// Update via Put
	sess.Title = "renombrado"
	sess.UpdatedAt = time.Now()
	if err := cache.Put(ctx, sess); err != nil {
		t.Fatal(err)
	}
	got, _ = cache.Get(ctx, "c9")
	if got.Title != "renombrado" {
		t.Errorf("updated Title = %q", got.Title)
	}

	if err := cache.Delete(ctx, "c9"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get(ctx, "c9"); err != ErrChatNotCached {
		t.Errorf("Get after delete = %v, want ErrChatNotCached", err)
	}
}

func TestHistoryCache_SkipsLocalDrafts(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	draft := model.NewChatSession()
	draft.AddUserMessage("sin id todavía")
	if err := cache.Put(ctx, draft); err != nil {
		t.Fatal(err)
	}

	got, err := cache.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("drafts without server ID should not be cached, got %d", len(got))
	}
}
