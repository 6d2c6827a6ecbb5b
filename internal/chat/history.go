// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/garcessebastian/camila-tui/internal/api"
	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// HISTORY
// =============================================================================

// History fetches the chat list, newest first. When the server is
// unreachable it serves the offline cache instead; on success the cache
// is refreshed with the server's snapshot.
func (e *Engine) History(ctx context.Context) ([]*model.ChatSession, error) {
	sessions, err := e.client.ListChats(ctx, 1, 100)
	if err != nil {
		if e.cache != nil && (api.IsNetwork(err) || api.IsTimeout(err)) {
			cached, cacheErr := e.cache.List(ctx)
			if cacheErr == nil {
				return cached, nil
			}
		}
		return nil, err
	}

	if e.cache != nil {
		// Mirror best-effort; a cache failure never fails the fetch.
		_ = e.cache.Replace(ctx, sessions)
	}
	return sessions, nil
}

// DeleteChat removes a conversation server-side and from the cache. If
// it was the active conversation, the engine moves to a fresh one.
func (e *Engine) DeleteChat(ctx context.Context, id string) error {
	if err := e.client.DeleteChat(ctx, id); err != nil {
		return err
	}
	if e.cache != nil {
		_ = e.cache.Delete(ctx, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current.ID == id {
		e.generation++
		e.finishRevealLocked()
		e.current = model.NewChatSession()
	}
	return nil
}

// scheduleHistoryRefreshLocked arms the post-send settle timer. A send
// landing while the timer runs restarts it, so bursts collapse into one
// refresh. Caller holds e.mu.
func (e *Engine) scheduleHistoryRefreshLocked() {
	if e.onHistory == nil {
		return
	}
	if e.refreshTimer != nil {
		e.refreshTimer.Stop()
	}
	e.refreshTimer = time.AfterFunc(e.cfg.HistoryDebounce, e.runHistoryRefresh)
}

// runHistoryRefresh performs the deferred fetch. Errors are swallowed:
// the history panel simply keeps its previous contents.
func (e *Engine) runHistoryRefresh() {
	e.mu.Lock()
	fn := e.onHistory
	timeout := e.cfg.RefreshTimeout
	e.mu.Unlock()
	if fn == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sessions, err := e.History(ctx)
	if err != nil {
		return
	}
	fn(sessions)
}
