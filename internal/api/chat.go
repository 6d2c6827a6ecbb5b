// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// SendResult is the outcome of delivering one user message.
type SendResult struct {
	// Reply is the assistant's text, never empty: if the payload carried
	// none, this is the fallback apology and Fallback is true.
	Reply string

	// Chat is the updated server-side session when the payload included
	// it, else nil.
	Chat *model.ChatSession

	// Fallback marks a reply that had to be substituted.
	Fallback bool
}

// SendMessage delivers a user message. chatID may be empty to start a
// new conversation; the server assigns one and returns it inside Chat.
func (c *Client) SendMessage(ctx context.Context, chatID, content string) (*SendResult, error) {
	body := map[string]string{"message": content}
	if chatID != "" {
		body["chatId"] = chatID
	}

	var raw json.RawMessage
	if err := c.post(ctx, "/api/chat/message", body, &raw); err != nil {
		return nil, err
	}

	reply, chat, ok := extractReply(raw)
	return &SendResult{Reply: reply, Chat: chat, Fallback: !ok}, nil
}

// ListChats fetches the user's chat history, newest first.
func (c *Client) ListChats(ctx context.Context, page, limit int) ([]*model.ChatSession, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	// The list arrives either bare or wrapped in {"chats": [...]}.
	var raw json.RawMessage
	path := fmt.Sprintf("/api/chat/chats?page=%d&limit=%d", page, limit)
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}

	var ws []wireChat
	if err := json.Unmarshal(raw, &ws); err != nil {
		var wrapped struct {
			Chats []wireChat `json:"chats"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode chat list", Cause: err}
		}
		ws = wrapped.Chats
	}
	return normalizeChats(ws), nil
}

// GetChat fetches one full conversation.
func (c *Client) GetChat(ctx context.Context, chatID string) (*model.ChatSession, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/chat/chats/"+url.PathEscape(chatID), &raw); err != nil {
		return nil, err
	}

	var wc wireChat
	if err := json.Unmarshal(raw, &wc); err == nil && firstNonEmpty(wc.ID, wc.AltID) != "" {
		return normalizeChat(&wc), nil
	}
	var wrapped struct {
		Chat wireChat `json:"chat"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode chat", Cause: err}
	}
	return normalizeChat(&wrapped.Chat), nil
}

// DeleteChat removes a conversation server-side.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.delete(ctx, "/api/chat/chats/"+url.PathEscape(chatID))
}
