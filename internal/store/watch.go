// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CREDENTIALS WATCHER
// =============================================================================

// CredentialsWatcher observes the state directory so one running client
// notices logins and logouts performed by another. Events for the
// credentials file are debounced and delivered to the callback with a
// freshly loaded snapshot.
type CredentialsWatcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(*Credentials)

	mu      sync.Mutex
	pending bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCredentialsWatcher creates a watcher. onChange runs on the watcher's
// goroutine; keep it short and hand longer work elsewhere.
func NewCredentialsWatcher(store *Store, debounce time.Duration, onChange func(*Credentials)) (*CredentialsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &CredentialsWatcher{
		store:    store,
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts observing the state directory. Watching the directory
// rather than the file survives the atomic rename dance the store uses
// for every write.
func (w *CredentialsWatcher) Watch() error {
	if err := w.watcher.Add(w.store.BaseDir); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources.
func (w *CredentialsWatcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *CredentialsWatcher) processEvents() {
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != credentialsFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.scheduleReload()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next poll or restart recovers.
		}
	}
}

// scheduleReload coalesces bursts of events (temp file create, rename,
// chmod) into a single callback.
func (w *CredentialsWatcher) scheduleReload() {
	w.mu.Lock()
	if w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = true
	w.mu.Unlock()

	time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.pending = false
		w.mu.Unlock()

		select {
		case <-w.ctx.Done():
			return
		default:
		}
		w.onChange(w.store.LoadCredentials())
	})
}
