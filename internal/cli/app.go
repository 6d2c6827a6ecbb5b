// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/garcessebastian/camila-tui/internal/api"
	engine "github.com/garcessebastian/camila-tui/internal/chat"
	"github.com/garcessebastian/camila-tui/internal/config"
	"github.com/garcessebastian/camila-tui/internal/session"
	"github.com/garcessebastian/camila-tui/internal/store"
	"github.com/garcessebastian/camila-tui/internal/ui/styles"
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// App holds the composed services every command runs against.
type App struct {
	Config *config.Config
	Store  *store.Store
	Ctrl   *session.Controller
	Client *api.Client
	Engine *engine.Engine
	Cache  *store.HistoryCache
	Theme  *styles.Theme

	watcher *store.CredentialsWatcher
}

// NewApp loads configuration and wires the service graph: store,
// session controller, API client (with the 401 hook attached), offline
// history cache, and the chat engine.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuración inválida: %w", err)
	}

	var st *store.Store
	if cfg.StateDir != "" {
		st, err = store.NewWithDir(cfg.StateDir)
	} else {
		st, err = store.New()
	}
	if err != nil {
		return nil, err
	}

	ctrl, err := session.NewController(st)
	if err != nil {
		return nil, err
	}

	clientCfg := api.DefaultConfig()
	clientCfg.BaseURL = cfg.Server.BaseURL
	clientCfg.Timeout = cfg.Timeout()
	client := api.NewClientWithConfig(clientCfg, ctrl)
	ctrl.AttachClient(client)

	// Cache failures degrade to online-only history.
	cache, _ := store.OpenHistoryCache(st)

	eng := engine.NewEngine(engine.Config{
		RevealWords:     cfg.Chat.RevealWords,
		RevealInterval:  cfg.RevealInterval(),
		HistoryDebounce: cfg.HistoryRefreshDelay(),
	}, client, ctrl, cache)

	var forceDark *bool
	if cfg.UI.Theme != "" {
		dark := cfg.UI.Theme == "dark"
		forceDark = &dark
	}

	return &App{
		Config: cfg,
		Store:  st,
		Ctrl:   ctrl,
		Client: client,
		Engine: eng,
		Cache:  cache,
		Theme:  styles.NewTheme(forceDark),
	}, nil
}

// WatchCredentials starts the state-file watcher so logins and logouts
// made by other processes are adopted live.
func (a *App) WatchCredentials() error {
	watcher, err := store.NewCredentialsWatcher(a.Store, 0, func(creds *store.Credentials) {
		a.Ctrl.AdoptExternal(creds)
	})
	if err != nil {
		return err
	}
	if err := watcher.Watch(); err != nil {
		return err
	}
	a.watcher = watcher
	return nil
}

// Close releases the cache and watcher.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.Cache != nil {
		a.Cache.Close()
	}
}
