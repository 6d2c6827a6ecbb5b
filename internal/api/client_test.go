// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Timeout = 2 * time.Second
	return NewClientWithConfig(cfg, StaticCredentials{
		BearerToken: "tok-abc",
		DeviceID:    "anon_test_device",
	})
}

// =============================================================================
// REQUEST HEADER TESTS
// =============================================================================

func TestClient_SendsIdentityHeaders(t *testing.T) {
	var gotAnon, gotAuth, gotType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAnon = r.Header.Get("X-Anonymous-Id")
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	})

	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if gotAnon != "anon_test_device" {
		t.Errorf("X-Anonymous-Id = %q", gotAnon)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
}

func TestClient_NoBearerWhenSignedOut(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	client := NewClientWithConfig(cfg, StaticCredentials{DeviceID: "anon_x"})

	client.Health(context.Background())
	if gotAuth != "" {
		t.Errorf("signed-out request carried Authorization %q", gotAuth)
	}
}

// =============================================================================
// ERROR CLASSIFICATION TESTS
// =============================================================================

func TestClient_UnauthorizedFiresHookOnce(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	fired := 0
	client.OnUnauthorized(func() { fired++ })

	err := client.Health(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if fired != 1 {
		t.Errorf("hook fired %d times, want 1", fired)
	}
}

func TestClient_LimitReached(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"requiresAuth":true,"message":"Límite alcanzado, inicia sesión"}`))
	})

	_, err := client.SendMessage(context.Background(), "", "hola")
	if !IsLimitReached(err) {
		t.Fatalf("err = %v, want limit reached", err)
	}
	if err.Error() != "Límite alcanzado, inicia sesión" {
		t.Errorf("message = %q, want server text verbatim", err.Error())
	}
}

func TestClient_ForbiddenWithoutMarkerIsRequestFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"sin permiso"}`))
	})

	err := client.Health(context.Background())
	if IsLimitReached(err) {
		t.Fatal("403 without requiresAuth must not read as limit")
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Status != http.StatusForbidden {
		t.Errorf("err = %v", err)
	}
}

func TestClient_RequestFailedCarriesStatusAndMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"mensaje vacío"}`))
	})

	err := client.Health(context.Background())
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("err = %T", err)
	}
	if clientErr.Type != ErrTypeRequestFailed || clientErr.Status != 400 {
		t.Errorf("type=%v status=%d", clientErr.Type, clientErr.Status)
	}
	if clientErr.Message != "mensaje vacío" {
		t.Errorf("message = %q", clientErr.Message)
	}
}

func TestClient_NetworkError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1" // Nothing listens here
	cfg.Timeout = 500 * time.Millisecond
	client := NewClientWithConfig(cfg, StaticCredentials{DeviceID: "anon_x"})

	err := client.Health(context.Background())
	if !IsNetwork(err) && !IsTimeout(err) {
		t.Errorf("err = %v, want network or timeout", err)
	}
}

// =============================================================================
// ENVELOPE TESTS
// =============================================================================

func TestClient_UnwrapsDataEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"response":"hola"}}`))
	})

	result, err := client.SendMessage(context.Background(), "", "hola")
	if err != nil {
		t.Fatal(err)
	}
	if result.Reply != "hola" {
		t.Errorf("Reply = %q, want the envelope's data.response", result.Reply)
	}
	if result.Fallback {
		t.Error("Fallback should be false for a usable data.response")
	}
}

func TestClient_SuccessFalseIsRequestFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"algo salió mal"}`))
	})

	_, err := client.SendMessage(context.Background(), "", "hola")
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Type != ErrTypeRequestFailed {
		t.Fatalf("err = %v, want request failed", err)
	}
	if clientErr.Message != "algo salió mal" {
		t.Errorf("message = %q", clientErr.Message)
	}
}

func TestClient_BareBodyPassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"sin sobre"}`))
	})

	result, err := client.SendMessage(context.Background(), "", "hola")
	if err != nil {
		t.Fatal(err)
	}
	if result.Reply != "sin sobre" {
		t.Errorf("Reply = %q, want top-level body honored", result.Reply)
	}
}

// =============================================================================
// AUTH TESTS
// =============================================================================

func TestLogin_NormalizesAccount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"token":"t1","user":{"_id":"u7","name":"Ana","email":" Ana@Example.com ","role":"EXPERT"}}}`))
	})

	result, err := client.Login(context.Background(), "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token != "t1" {
		t.Errorf("Token = %q", result.Token)
	}
	if result.Account.ID != "u7" {
		t.Errorf("ID should come from _id, got %q", result.Account.ID)
	}
	if result.Account.Email != "ana@example.com" {
		t.Errorf("Email not normalized: %q", result.Account.Email)
	}
	if result.Account.Role != model.AccountRoleExpert {
		t.Errorf("Role = %q", result.Account.Role)
	}
}

func TestLogin_UnknownRoleDowngradesToUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"token":"t1","user":{"id":"u1","role":"wizard"}}}`))
	})

	result, err := client.Login(context.Background(), "x@y.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Account.Role != model.AccountRoleUser {
		t.Errorf("unknown role should map to user, got %q", result.Account.Role)
	}
}

func TestLogin_MissingTokenIsInvalidResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"user":{"id":"u1"}}}`))
	})

	_, err := client.Login(context.Background(), "x@y.com", "secret1")
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Type != ErrTypeInvalidResponse {
		t.Errorf("err = %v, want invalid response", err)
	}
}

// =============================================================================
// SEND MESSAGE TESTS
// =============================================================================

func TestSendMessage_DirectResponseField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"response":"Hola, cuéntame más","chat":{"id":"c1","messages":[]}}}`))
	})

	result, err := client.SendMessage(context.Background(), "", "hola")
	if err != nil {
		t.Fatal(err)
	}
	if result.Reply != "Hola, cuéntame más" {
		t.Errorf("Reply = %q", result.Reply)
	}
	if result.Fallback {
		t.Error("Fallback should be false")
	}
	if result.Chat == nil || result.Chat.ID != "c1" {
		t.Errorf("Chat = %+v", result.Chat)
	}
}

func TestSendMessage_ReplyFromChatMessages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"chat":{"_id":"c2","messages":[
			{"role":"user","content":"hola"},
			{"role":"assistant","text":"Aquí estoy"}
		]}}}`))
	})

	result, err := client.SendMessage(context.Background(), "c2", "hola")
	if err != nil {
		t.Fatal(err)
	}
	if result.Reply != "Aquí estoy" {
		t.Errorf("Reply = %q", result.Reply)
	}
	if result.Chat.ID != "c2" {
		t.Errorf("Chat ID = %q", result.Chat.ID)
	}
}

func TestSendMessage_FallbackApology(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"ok":true}}`))
	})

	result, err := client.SendMessage(context.Background(), "", "hola")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Fallback {
		t.Error("Fallback should be true")
	}
	if result.Reply != FallbackReply {
		t.Errorf("Reply = %q", result.Reply)
	}
}

// =============================================================================
// CHAT LIST TESTS
// =============================================================================

func TestListChats_WrappedAndSorted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("page = %q", got)
		}
		w.Write([]byte(`{"success":true,"data":{"chats":[
			{"id":"old","title":"viejo","updatedAt":"2025-01-01T10:00:00Z"},
			{"id":"new","title":"nuevo","updatedAt":"2025-06-01T10:00:00Z"},
			{"title":"sin id"}
		]}}`))
	})

	chats, err := client.ListChats(context.Background(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 2 {
		t.Fatalf("got %d chats, want 2 (row without id dropped)", len(chats))
	}
	if chats[0].ID != "new" {
		t.Errorf("newest first, got %q", chats[0].ID)
	}
}

func TestListChats_NormalizesRiskAnnotation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"chats":[
			{"id":"c1","riskLevel":"ALTO","updatedAt":"2025-06-01T10:00:00Z"},
			{"id":"c2","riskLevel":"wizard","updatedAt":"2025-05-01T10:00:00Z"}
		]}}`))
	})

	chats, err := client.ListChats(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if chats[0].RiskLevel != model.RiskAlto {
		t.Errorf("risk = %q, want normalized alto", chats[0].RiskLevel)
	}
	if chats[1].RiskLevel != "" {
		t.Errorf("unknown annotation should drop, got %q", chats[1].RiskLevel)
	}
}

func TestListChats_BareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"c1","updatedAt":"2025-01-01T00:00:00Z"}]`))
	})

	chats, err := client.ListChats(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 1 || chats[0].ID != "c1" {
		t.Errorf("chats = %+v", chats)
	}
}

// =============================================================================
// PANEL ENDPOINT TESTS
// =============================================================================

func TestExpertUpdates_SendsLastCheck(t *testing.T) {
	var gotLastCheck string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLastCheck = r.URL.Query().Get("lastCheck")
		w.Write([]byte(`{"success":true,"data":{"patients":[{"id":"p1","name":"Luis","riskLevel":"ALTO"}],
			"newUsers":[{"id":"p2","name":"Marta"}],
			"timestamp":"2025-06-01T10:00:00Z"}}`))
	})

	last := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	batch, err := client.ExpertUpdates(context.Background(), last)
	if err != nil {
		t.Fatal(err)
	}
	if gotLastCheck != "2025-06-01T09:00:00Z" {
		t.Errorf("lastCheck = %q", gotLastCheck)
	}
	if len(batch.Patients) != 2 {
		t.Fatalf("patients = %d, want merged 2", len(batch.Patients))
	}
	if batch.Patients[0].RiskLevel != model.RiskAlto {
		t.Errorf("risk level not normalized: %q", batch.Patients[0].RiskLevel)
	}
	if batch.Patients[1].RiskLevel != model.RiskMinimo {
		t.Errorf("missing risk level should default to minimo, got %q", batch.Patients[1].RiskLevel)
	}
}

func TestExpertPatients_PassesQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"patients":[]}`))
	})

	q := make(map[string][]string)
	q["riskLevel"] = []string{"alto"}
	if _, err := client.ExpertPatients(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "riskLevel=alto" {
		t.Errorf("query = %q", gotQuery)
	}
}

