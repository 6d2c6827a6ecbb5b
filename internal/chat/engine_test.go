// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garcessebastian/camila-tui/internal/api"
	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/session"
	"github.com/garcessebastian/camila-tui/internal/store"
)

type testRig struct {
	engine *Engine
	ctrl   *session.Controller
	store  *store.Store
	cache  *store.HistoryCache
}

func newTestRig(t *testing.T, handler http.HandlerFunc) *testRig {
	t.Helper()

	st, err := store.NewWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctrl, err := session.NewController(st)
	if err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := api.DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Timeout = 2 * time.Second
	client := api.NewClientWithConfig(cfg, ctrl)
	ctrl.AttachClient(client)

	cache, err := store.OpenHistoryCache(st)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cache.Close() })

	engine := NewEngine(Config{
		RevealWords:     3,
		RevealInterval:  time.Millisecond,
		HistoryDebounce: 20 * time.Millisecond,
	}, client, ctrl, cache)

	return &testRig{engine: engine, ctrl: ctrl, store: st, cache: cache}
}

func replyHandler(reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat/message":
			w.Write([]byte(`{"response":"` + reply + `","chat":{"id":"c1","title":"t","updatedAt":"2025-06-01T10:00:00Z","messages":[]}}`))
		case "/api/chat/chats":
			w.Write([]byte(`{"chats":[{"id":"c1","title":"t","updatedAt":"2025-06-01T10:00:00Z"}]}`))
		default:
			w.Write([]byte(`{}`))
		}
	}
}

// =============================================================================
// SEND PIPELINE TESTS
// =============================================================================

func TestSend_EmptyRejected(t *testing.T) {
	rig := newTestRig(t, replyHandler("hola"))
	if _, err := rig.engine.Send(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v", err)
	}
}

func TestSend_AppendsAndReveals(t *testing.T) {
	rig := newTestRig(t, replyHandler("uno dos tres cuatro cinco"))

	outcome, err := rig.engine.Send(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if outcome.User.Content != "hola" {
		t.Errorf("User = %q", outcome.User.Content)
	}
	if outcome.Assistant.Content != "uno dos tres cuatro cinco" {
		t.Errorf("Assistant = %q", outcome.Assistant.Content)
	}
	if !rig.engine.RevealActive() {
		t.Fatal("reveal should be active after send")
	}

	// Step 1: 3 words
	visible, done := rig.engine.AdvanceReveal()
	if done {
		t.Fatal("should not finish on first step")
	}
	if visible != "uno dos tres" {
		t.Errorf("visible = %q", visible)
	}

	// Step 2: finishes
	visible, done = rig.engine.AdvanceReveal()
	if !done {
		t.Fatal("should finish on second step")
	}
	if visible != "uno dos tres cuatro cinco" {
		t.Errorf("final visible = %q", visible)
	}
	if rig.engine.RevealActive() {
		t.Error("reveal should be finished")
	}

	// Further calls stay done
	if _, done := rig.engine.AdvanceReveal(); !done {
		t.Error("post-finish advance should report done")
	}
}

func TestSend_AdoptsServerSession(t *testing.T) {
	rig := newTestRig(t, replyHandler("respuesta"))

	if _, err := rig.engine.Send(context.Background(), "hola"); err != nil {
		t.Fatal(err)
	}
	current := rig.engine.Current()
	if current.ID != "c1" {
		t.Errorf("current ID = %q, want server-assigned c1", current.ID)
	}
	if current.LastAssistantMessage() == nil {
		t.Error("adopted session should carry the reply")
	}
}

func TestSend_FailureKeepsOptimisticMessage(t *testing.T) {
	rig := newTestRig(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	})

	before, _ := rig.store.LoadQuota()

	_, err := rig.engine.Send(context.Background(), "hola")
	if err == nil {
		t.Fatal("Send should fail")
	}

	// The user's own text never disappears, even when the send fails.
	if rig.engine.Current().MessageCount() != 1 {
		t.Errorf("messages = %d, want the optimistic message kept", rig.engine.Current().MessageCount())
	}
	if last := rig.engine.Current().LastMessage(); last == nil || last.Content != "hola" {
		t.Errorf("last message = %+v", last)
	}

	// Debit-on-attempt: the failed send still cost a unit.
	after, _ := rig.store.LoadQuota()
	if after.Used != before.Used+1 {
		t.Errorf("quota Used = %d, want %d", after.Used, before.Used+1)
	}
}

func TestSend_QuotaExhaustedSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	rig := newTestRig(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{}`))
	})

	// Burn the anonymous allowance through the controller.
	for {
		if err := rig.ctrl.ConsumeQuota(); err != nil {
			break
		}
	}

	_, err := rig.engine.Send(context.Background(), "hola")
	if !errors.Is(err, session.ErrQuotaExhausted) {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 0 {
		t.Error("exhausted quota must not reach the network")
	}
	if rig.engine.Current().MessageCount() != 0 {
		t.Error("no optimistic message on quota failure")
	}
}

func TestSend_LimitReachedPassesThrough(t *testing.T) {
	rig := newTestRig(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"requiresAuth":true,"message":"Inicia sesión para continuar"}`))
	})

	_, err := rig.engine.Send(context.Background(), "hola")
	if !api.IsLimitReached(err) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "Inicia sesión") {
		t.Errorf("message = %q", err.Error())
	}

	// The server's verdict outranks the local counter.
	if got := rig.ctrl.QuotaRemaining(); got != 0 {
		t.Errorf("QuotaRemaining = %d, want 0 after the server reported the limit", got)
	}
	q, _ := rig.store.LoadQuota()
	if !q.Exhausted() {
		t.Error("exhausted counter should be persisted")
	}
}

func TestSend_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	rig := newTestRig(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/chat/message" {
			<-release
			w.Write([]byte(`{"response":"ok"}`))
			return
		}
		w.Write([]byte(`{}`))
	})

	firstDone := make(chan error, 1)
	go func() {
		_, err := rig.engine.Send(context.Background(), "primero")
		firstDone <- err
	}()

	// Wait until the first send is visibly in flight
	deadline := time.After(2 * time.Second)
	for !rig.engine.Sending() {
		select {
		case <-deadline:
			t.Fatal("first send never became in-flight")
		case <-time.After(time.Millisecond):
		}
	}

	if _, err := rig.engine.Send(context.Background(), "segundo"); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("overlapping send: err = %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Errorf("first send: %v", err)
	}
}

func TestSend_StaleReplyDropped(t *testing.T) {
	release := make(chan struct{})
	rig := newTestRig(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/chat/message" {
			<-release
			w.Write([]byte(`{"response":"tarde","chat":{"id":"c9","messages":[]}}`))
			return
		}
		w.Write([]byte(`{}`))
	})

	done := make(chan error, 1)
	go func() {
		_, err := rig.engine.Send(context.Background(), "hola")
		done <- err
	}()

	deadline := time.After(2 * time.Second)
	for !rig.engine.Sending() {
		select {
		case <-deadline:
			t.Fatal("send never became in-flight")
		case <-time.After(time.Millisecond):
		}
	}

	// User walks away to a new conversation mid-flight.
	rig.engine.NewChat()
	close(release)

	if err := <-done; !errors.Is(err, ErrStaleReply) {
		t.Errorf("err = %v, want stale", err)
	}
	current := rig.engine.Current()
	if current.ID == "c9" || current.MessageCount() != 0 {
		t.Errorf("stale reply contaminated the session: %+v", current)
	}
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestHistory_FallsBackToCache(t *testing.T) {
	rig := newTestRig(t, replyHandler("x"))
	ctx := context.Background()

	// Prime the cache via a successful fetch
	sessions, err := rig.engine.History(ctx)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("History: %v, %d", err, len(sessions))
	}

	// Point the engine at a dead server
	deadCfg := api.DefaultConfig()
	deadCfg.BaseURL = "http://127.0.0.1:1"
	deadCfg.Timeout = 300 * time.Millisecond
	rig.engine.client = api.NewClientWithConfig(deadCfg, rig.ctrl)

	sessions, err = rig.engine.History(ctx)
	if err != nil {
		t.Fatalf("offline History should serve cache: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "c1" {
		t.Errorf("cached sessions = %+v", sessions)
	}
}

func TestHistoryRefresh_DebouncedAfterSend(t *testing.T) {
	rig := newTestRig(t, replyHandler("ok"))

	got := make(chan []*model.ChatSession, 4)
	rig.engine.OnHistoryRefreshed(func(s []*model.ChatSession) { got <- s })

	if _, err := rig.engine.Send(context.Background(), "hola"); err != nil {
		t.Fatal(err)
	}

	select {
	case sessions := <-got:
		if len(sessions) != 1 {
			t.Errorf("refreshed sessions = %d", len(sessions))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("history refresh never fired")
	}
}

// =============================================================================
// CONVERSATION SWITCH TESTS
// =============================================================================

func TestOpenChat_FinishesRunningReveal(t *testing.T) {
	rig := newTestRig(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/chat/message":
			w.Write([]byte(`{"response":"una respuesta larga de varias palabras"}`))
		case strings.HasPrefix(r.URL.Path, "/api/chat/chats/"):
			w.Write([]byte(`{"chat":{"id":"c2","messages":[{"role":"user","content":"antes"}]}}`))
		default:
			w.Write([]byte(`{}`))
		}
	})
	ctx := context.Background()

	if _, err := rig.engine.Send(ctx, "hola"); err != nil {
		t.Fatal(err)
	}
	if !rig.engine.RevealActive() {
		t.Fatal("reveal should be running")
	}

	if err := rig.engine.OpenChat(ctx, "c2"); err != nil {
		t.Fatal(err)
	}
	if rig.engine.RevealActive() {
		t.Error("switching conversations should finish the reveal")
	}
	if rig.engine.Current().ID != "c2" {
		t.Errorf("current = %q", rig.engine.Current().ID)
	}
}

func TestDeleteChat_ResetsWhenActive(t *testing.T) {
	rig := newTestRig(t, replyHandler("ok"))
	ctx := context.Background()

	if _, err := rig.engine.Send(ctx, "hola"); err != nil {
		t.Fatal(err)
	}
	if rig.engine.Current().ID != "c1" {
		t.Fatal("expected adopted session c1")
	}

	if err := rig.engine.DeleteChat(ctx, "c1"); err != nil {
		t.Fatal(err)
	}
	current := rig.engine.Current()
	if current.ID != "" || current.MessageCount() != 0 {
		t.Errorf("after delete, current = %+v", current)
	}
}
