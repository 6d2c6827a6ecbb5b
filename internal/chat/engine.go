// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/garcessebastian/camila-tui/internal/api"
	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/session"
	"github.com/garcessebastian/camila-tui/internal/store"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrEmptyMessage = errors.New("el mensaje está vacío")
	ErrSendInFlight = errors.New("ya hay un mensaje en curso")
	ErrStaleReply   = errors.New("la respuesta llegó para una conversación anterior")
)

// =============================================================================
// ENGINE CONFIGURATION
// =============================================================================

// Config tunes the engine. Zero values take defaults.
type Config struct {
	// RevealWords per reveal step (default: 3)
	RevealWords int
	// RevealInterval between steps (default: 40ms)
	RevealInterval time.Duration
	// HistoryDebounce is the settle delay before the post-send history
	// refresh (default: 500ms)
	HistoryDebounce time.Duration
	// RefreshTimeout bounds the background history fetch (default: 15s)
	RefreshTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.RevealWords <= 0 {
		c.RevealWords = 3
	}
	if c.RevealInterval <= 0 {
		c.RevealInterval = 40 * time.Millisecond
	}
	if c.HistoryDebounce <= 0 {
		c.HistoryDebounce = 500 * time.Millisecond
	}
	if c.RefreshTimeout <= 0 {
		c.RefreshTimeout = 15 * time.Second
	}
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine owns the active conversation. Safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	cfg    Config
	client *api.Client
	ctrl   *session.Controller
	cache  *store.HistoryCache // may be nil (no offline cache)

	current    *model.ChatSession
	sending    bool
	generation uint64

	reveal *revealState

	refreshTimer *time.Timer
	onHistory    func([]*model.ChatSession)
}

// NewEngine creates an engine starting on a fresh conversation. cache
// may be nil to disable offline mirroring.
func NewEngine(cfg Config, client *api.Client, ctrl *session.Controller, cache *store.HistoryCache) *Engine {
	cfg.setDefaults()
	return &Engine{
		cfg:     cfg,
		client:  client,
		ctrl:    ctrl,
		cache:   cache,
		current: model.NewChatSession(),
	}
}

// RevealInterval exposes the configured step delay for UI timers.
func (e *Engine) RevealInterval() time.Duration {
	return e.cfg.RevealInterval
}

// OnHistoryRefreshed registers the callback for post-send history
// refreshes. It runs on a background goroutine.
func (e *Engine) OnHistoryRefreshed(fn func([]*model.ChatSession)) {
	e.mu.Lock()
	e.onHistory = fn
	e.mu.Unlock()
}

// Current returns a deep copy of the active session for rendering.
func (e *Engine) Current() *model.ChatSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

// Sending reports whether a send is in flight.
func (e *Engine) Sending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sending
}

// =============================================================================
// CONVERSATION SWITCHING
// =============================================================================

// NewChat abandons the current conversation for a fresh one. Any reply
// still in flight becomes stale, and a running reveal is finished.
func (e *Engine) NewChat() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.finishRevealLocked()
	e.current = model.NewChatSession()
}

// OpenChat loads a conversation by ID, preferring the server and falling
// back to the offline cache when unreachable.
func (e *Engine) OpenChat(ctx context.Context, id string) error {
	sess, err := e.client.GetChat(ctx, id)
	if err != nil {
		if e.cache == nil || !(api.IsNetwork(err) || api.IsTimeout(err)) {
			return err
		}
		cached, cacheErr := e.cache.Get(ctx, id)
		if cacheErr != nil {
			return err // The network error is the more useful one
		}
		sess = cached
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.finishRevealLocked()
	e.current = sess
	return nil
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// SendOutcome reports one delivered message.
type SendOutcome struct {
	// User is the message as appended to the session.
	User *model.Message
	// Assistant is the reply now revealing in the session.
	Assistant *model.Message
	// Fallback marks a substituted apology reply.
	Fallback bool
}

// Send delivers one user message through the full pipeline. It blocks
// until the reply arrives; run it from a goroutine or tea.Cmd.
func (e *Engine) Send(ctx context.Context, text string) (*SendOutcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	e.mu.Lock()
	if e.sending {
		e.mu.Unlock()
		return nil, ErrSendInFlight
	}

	// Debit-on-attempt: the allowance is spent before the network call
	// and not refunded on failure.
	if err := e.ctrl.ConsumeQuota(); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.sending = true
	e.finishRevealLocked()
	gen := e.generation
	chatID := e.current.ID
	userMsg := e.current.AddUserMessage(text)
	e.mu.Unlock()

	result, err := e.client.SendMessage(ctx, chatID, text)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sending = false

	if gen != e.generation {
		// The user moved on while this was in flight. The session that
		// held the optimistic message is gone; drop the reply.
		return nil, ErrStaleReply
	}

	if err != nil {
		// The optimistic user message stays: sent text never disappears
		// from under the user, even on failure.
		if api.IsLimitReached(err) {
			e.ctrl.Exhaust()
		}
		return nil, err
	}

	var assistant *model.Message
	if result.Chat != nil && result.Chat.ID != "" {
		// Adopt the server's session as truth. If it already ends on the
		// assistant reply, reveal that; if it ends on the user message,
		// the reply text rode alongside and gets appended.
		e.current = result.Chat
		if last := e.current.LastMessage(); last != nil && last.Role == model.RoleAssistant && last.Content != "" {
			assistant = last
		} else {
			assistant = e.current.AddAssistantMessage(result.Reply)
		}
	} else {
		assistant = e.current.AddAssistantMessage(result.Reply)
	}

	e.startRevealLocked(assistant)
	e.scheduleHistoryRefreshLocked()

	return &SendOutcome{User: userMsg, Assistant: assistant, Fallback: result.Fallback}, nil
}
