// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// The backend has spoken several shapes over its life: Mongo-style "_id",
// messages keyed "content" or "text", timestamps as RFC 3339 strings or
// unix milliseconds. Everything is flattened here, once, so the rest of
// the client only ever sees model types.

// FallbackReply is shown when a send succeeds but no reply text can be
// found anywhere in the payload.
const FallbackReply = "Lo siento, no pude procesar la respuesta. Por favor, intenta de nuevo."

// =============================================================================
// FLEXIBLE FIELD TYPES
// =============================================================================

// flexTime accepts RFC 3339 strings, unix seconds, or unix milliseconds.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05.000Z0700", s); err == nil {
		t.Time = parsed
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// Heuristic: values past the year 33658 in seconds are milliseconds.
		if n > 1e12 {
			t.Time = time.UnixMilli(n)
		} else {
			t.Time = time.Unix(n, 0)
		}
		return nil
	}
	// Unparseable timestamps read as zero rather than failing the payload.
	t.Time = time.Time{}
	return nil
}

// =============================================================================
// WIRE SHAPES
// =============================================================================

type wireAccount struct {
	ID            string `json:"id"`
	AltID         string `json:"_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	InstitutionID string `json:"institutionId"`
}

type wireMessage struct {
	ID        string   `json:"id"`
	AltID     string   `json:"_id"`
	Role      string   `json:"role"`
	Sender    string   `json:"sender"`
	Content   string   `json:"content"`
	Text      string   `json:"text"`
	Timestamp flexTime `json:"timestamp"`
	CreatedAt flexTime `json:"createdAt"`
}

type wireChat struct {
	ID        string        `json:"id"`
	AltID     string        `json:"_id"`
	Title     string        `json:"title"`
	RiskLevel string        `json:"riskLevel"`
	Messages  []wireMessage `json:"messages"`
	CreatedAt flexTime      `json:"createdAt"`
	UpdatedAt flexTime      `json:"updatedAt"`
}

type wirePatient struct {
	ID           string   `json:"id"`
	AltID        string   `json:"_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	RiskLevel    string   `json:"riskLevel"`
	Status       string   `json:"status"`
	Program      string   `json:"program"`
	ProgramID    string   `json:"programId"`
	Grade        string   `json:"grade"`
	Department   string   `json:"department"`
	SessionCount int      `json:"sessionCount"`
	LastActivity flexTime `json:"lastActivity"`
}

// =============================================================================
// NORMALIZERS
// =============================================================================

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeAccount(w *wireAccount) *model.Account {
	return &model.Account{
		ID:            firstNonEmpty(w.ID, w.AltID),
		Name:          w.Name,
		Email:         strings.ToLower(strings.TrimSpace(w.Email)),
		Role:          normalizeRole(w.Role),
		InstitutionID: w.InstitutionID,
	}
}

// normalizeRole maps unknown roles to plain user so a surprising value
// can never unlock a dashboard.
func normalizeRole(role string) model.AccountRole {
	r := model.AccountRole(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return model.AccountRoleUser
	}
	return r
}

func normalizeMessage(w *wireMessage) *model.Message {
	role := model.Role(firstNonEmpty(w.Role, w.Sender))
	if role != model.RoleUser && role != model.RoleAssistant {
		role = model.RoleAssistant
	}
	ts := w.Timestamp.Time
	if ts.IsZero() {
		ts = w.CreatedAt.Time
	}
	msg := &model.Message{
		ID:        firstNonEmpty(w.ID, w.AltID),
		Role:      role,
		Content:   firstNonEmpty(w.Content, w.Text),
		Timestamp: ts,
	}
	if msg.ID == "" {
		msg.ID = model.NewMessage(role, "").ID
	}
	return msg
}

func normalizeChat(w *wireChat) *model.ChatSession {
	sess := &model.ChatSession{
		ID:        firstNonEmpty(w.ID, w.AltID),
		Title:     w.Title,
		CreatedAt: w.CreatedAt.Time,
		UpdatedAt: w.UpdatedAt.Time,
		Messages:  make([]*model.Message, 0, len(w.Messages)),
	}
	if risk := model.RiskLevel(strings.ToLower(w.RiskLevel)); risk.Valid() {
		sess.RiskLevel = risk
	}
	for i := range w.Messages {
		sess.Messages = append(sess.Messages, normalizeMessage(&w.Messages[i]))
	}
	if sess.Title == "" {
		for _, msg := range sess.Messages {
			if msg.Role == model.RoleUser && msg.Content != "" {
				sess.Title = msg.Preview(40)
				break
			}
		}
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = sess.CreatedAt
	}
	return sess
}

func normalizeChats(ws []wireChat) []*model.ChatSession {
	sessions := make([]*model.ChatSession, 0, len(ws))
	for i := range ws {
		sess := normalizeChat(&ws[i])
		if sess.ID == "" {
			continue // Skip rows with no identity
		}
		sessions = append(sessions, sess)
	}
	model.SortSessions(sessions)
	return sessions
}

func normalizePatient(w *wirePatient) model.PatientRecord {
	level := model.RiskLevel(strings.ToLower(strings.TrimSpace(w.RiskLevel)))
	if !level.Valid() {
		level = model.RiskMinimo
	}
	return model.PatientRecord{
		ID:           firstNonEmpty(w.ID, w.AltID),
		Name:         w.Name,
		Email:        strings.ToLower(strings.TrimSpace(w.Email)),
		RiskLevel:    level,
		Status:       firstNonEmpty(w.Status, "active"),
		Program:      firstNonEmpty(w.Program, w.ProgramID),
		Grade:        w.Grade,
		Department:   w.Department,
		SessionCount: w.SessionCount,
		LastActivity: w.LastActivity.Time,
	}
}

func normalizePatients(ws []wirePatient) []model.PatientRecord {
	patients := make([]model.PatientRecord, 0, len(ws))
	for i := range ws {
		p := normalizePatient(&ws[i])
		if p.ID == "" {
			continue
		}
		patients = append(patients, p)
	}
	return patients
}

// =============================================================================
// REPLY EXTRACTION
// =============================================================================

// sendEnvelope is the union of reply shapes the message endpoint returns.
type sendEnvelope struct {
	Response string          `json:"response"`
	Chat     json.RawMessage `json:"chat"`
}

// extractReply pulls the assistant's reply text and the updated chat out
// of a send payload. When no text can be found the fallback apology is
// returned with ok=false.
func extractReply(data []byte) (reply string, chat *model.ChatSession, ok bool) {
	var env sendEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return FallbackReply, nil, false
	}

	if len(env.Chat) > 0 {
		var wc wireChat
		if err := json.Unmarshal(env.Chat, &wc); err == nil {
			chat = normalizeChat(&wc)
		}
	}

	if env.Response != "" {
		return env.Response, chat, true
	}

	// Fall back to the last assistant message in the updated chat.
	if chat != nil {
		if last := chat.LastAssistantMessage(); last != nil && last.Content != "" {
			return last.Content, chat, true
		}
	}

	return FallbackReply, chat, false
}
