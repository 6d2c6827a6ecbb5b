// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrCacheClosed   = errors.New("history cache closed")
	ErrChatNotCached = errors.New("chat not in cache")
)

// =============================================================================
// SCHEMA
// =============================================================================

const cacheSchema = `
-- Chats table: one row per server-side chat session
CREATE TABLE IF NOT EXISTS chats (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    created_at INTEGER NOT NULL,  -- Unix timestamp
    updated_at INTEGER NOT NULL,  -- Unix timestamp
    messages   TEXT NOT NULL      -- JSON array of messages
);

CREATE INDEX IF NOT EXISTS idx_chats_updated_at ON chats(updated_at);

-- Metadata table for sync bookkeeping
CREATE TABLE IF NOT EXISTS metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;
`

// =============================================================================
// HISTORY CACHE
// =============================================================================

// HistoryCache mirrors the server-side chat list in a local SQLite
// database so history is readable offline and the panel paints before
// the first network refresh.
type HistoryCache struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenHistoryCache opens (creating if needed) the cache database inside
// the store's state directory.
func OpenHistoryCache(s *Store) (*HistoryCache, error) {
	return OpenHistoryCachePath(filepath.Join(s.BaseDir, "history.db"))
}

// OpenHistoryCachePath opens a cache at an explicit path.
func OpenHistoryCachePath(path string) (*HistoryCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history cache: %w", err)
	}

	// Single writer keeps modernc/sqlite happy under concurrency.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &HistoryCache{db: db}, nil
}

// Close releases the database handle.
func (h *HistoryCache) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Replace swaps the cached list for the given sessions in one
// transaction. Used after a full history fetch.
func (h *HistoryCache) Replace(ctx context.Context, sessions []*model.ChatSession) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return ErrCacheClosed
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chats`); err != nil {
		return err
	}
	for _, sess := range sessions {
		if err := upsertChat(ctx, tx, sess); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO metadata (key, value) VALUES ('synced_at', ?)`,
		fmt.Sprint(time.Now().Unix())); err != nil {
		return err
	}

	return tx.Commit()
}

// Put inserts or updates a single session.
func (h *HistoryCache) Put(ctx context.Context, sess *model.ChatSession) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return ErrCacheClosed
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertChat(ctx, tx, sess); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a session from the cache.
func (h *HistoryCache) Delete(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return ErrCacheClosed
	}
	_, err := h.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	return err
}

func upsertChat(ctx context.Context, tx *sql.Tx, sess *model.ChatSession) error {
	if sess.ID == "" {
		// Local drafts have no server identity yet; nothing to mirror.
		return nil
	}
	payload, err := json.Marshal(sess.Messages)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO chats (id, title, created_at, updated_at, messages)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at,
			messages = excluded.messages`,
		sess.ID, sess.Title, sess.CreatedAt.Unix(), sess.UpdatedAt.Unix(), string(payload))
	return err
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// List returns all cached sessions, newest first.
func (h *HistoryCache) List(ctx context.Context) ([]*model.ChatSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.db == nil {
		return nil, ErrCacheClosed
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at, messages
		FROM chats ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.ChatSession
	for rows.Next() {
		sess, err := scanChat(rows)
		if err != nil {
			continue // Skip corrupted rows
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Get returns one cached session by ID.
func (h *HistoryCache) Get(ctx context.Context, id string) (*model.ChatSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.db == nil {
		return nil, ErrCacheClosed
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, updated_at, messages
		FROM chats WHERE id = ?`, id)

	sess, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChatNotCached
	}
	return sess, err
}

// SyncedAt returns when the cache last held a full server snapshot,
// or the zero time if it never has.
func (h *HistoryCache) SyncedAt(ctx context.Context) (time.Time, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.db == nil {
		return time.Time{}, ErrCacheClosed
	}

	var value string
	err := h.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = 'synced_at'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}

	var unix int64
	if _, err := fmt.Sscan(value, &unix); err != nil {
		return time.Time{}, nil
	}
	return time.Unix(unix, 0), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (*model.ChatSession, error) {
	var (
		sess               model.ChatSession
		created, updated   int64
		payload            string
	)
	if err := row.Scan(&sess.ID, &sess.Title, &created, &updated, &payload); err != nil {
		return nil, err
	}
	sess.CreatedAt = time.Unix(created, 0)
	sess.UpdatedAt = time.Unix(updated, 0)
	if err := json.Unmarshal([]byte(payload), &sess.Messages); err != nil {
		return nil, err
	}
	if sess.Messages == nil {
		sess.Messages = make([]*model.Message, 0)
	}
	return &sess, nil
}
