// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"time"
)

// MaxMessages is the maximum number of messages to keep in a chat session.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 1000

// =============================================================================
// CHAT SESSION TYPE
// =============================================================================

// ChatSession holds a complete conversation with the assistant, as the
// server knows it plus any local messages not yet confirmed.
type ChatSession struct {
	// Identity. ID is server-assigned; local drafts have an empty ID until
	// the first reply comes back.
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// RiskLevel is the server's risk annotation for the conversation,
	// empty when unannotated.
	RiskLevel RiskLevel `json:"riskLevel,omitempty"`

	Messages []*Message `json:"messages"`
}

// NewChatSession creates an empty local chat session.
func NewChatSession() *ChatSession {
	now := time.Now()
	return &ChatSession{
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message, refreshes the title, and prunes history.
func (c *ChatSession) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and adds a user message.
func (c *ChatSession) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and adds an assistant message.
func (c *ChatSession) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *ChatSession) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastAssistantMessage returns the most recent assistant message, or nil.
func (c *ChatSession) LastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// RemoveMessage removes a message by ID.
func (c *ChatSession) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// MessageCount returns the number of messages.
func (c *ChatSession) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *ChatSession) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Clone returns a deep copy of the session.
func (c *ChatSession) Clone() *ChatSession {
	clone := *c
	clone.Messages = make([]*Message, len(c.Messages))
	for i, msg := range c.Messages {
		m := *msg
		clone.Messages[i] = &m
	}
	return &clone
}

// updateTitle derives the title from the first user message when unset.
func (c *ChatSession) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			c.Title = msg.Preview(40)
			return
		}
	}
}

// pruneOldMessages drops the oldest messages past MaxMessages.
func (c *ChatSession) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	c.Messages = append([]*Message(nil), c.Messages[excess:]...)
}

// =============================================================================
// SESSION LISTS
// =============================================================================

// SortSessions orders sessions by UpdatedAt, newest first. Ties keep their
// relative order so reloads don't shuffle the history panel.
func SortSessions(sessions []*ChatSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}

// GenerateAnonymousID creates a device identity for unauthenticated use,
// in the form "anon_<timestamp>_<random>".
func GenerateAnonymousID() string {
	bytes := make([]byte, 6)
	rand.Read(bytes)
	return "anon_" + time.Now().UTC().Format("20060102150405") + "_" + hex.EncodeToString(bytes)
}
