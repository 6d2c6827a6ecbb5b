// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Connectivity and state diagnostics.
//
// "camila doctor" checks the backend health endpoint, the state
// directory, and the offline cache, and reports what works.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type doctorReport struct {
	ServerURL     string `json:"serverUrl"`
	ServerOK      bool   `json:"serverOk"`
	ServerError   string `json:"serverError,omitempty"`
	LatencyMs     int64  `json:"latencyMs,omitempty"`
	Authenticated bool   `json:"authenticated"`
	CacheOK       bool   `json:"cacheOk"`
	CachedChats   int    `json:"cachedChats"`
}

// HandleDoctor runs the diagnostics.
func HandleDoctor(app *App, args Args) int {
	report := doctorReport{
		ServerURL:     app.Client.BaseURL(),
		Authenticated: app.Ctrl.IsAuthenticated(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	if err := app.Client.Health(ctx); err != nil {
		report.ServerError = err.Error()
	} else {
		report.ServerOK = true
		report.LatencyMs = time.Since(start).Milliseconds()
	}

	if app.Cache != nil {
		if chats, err := app.Cache.List(ctx); err == nil {
			report.CacheOK = true
			report.CachedChats = len(chats)
		}
	}

	if args.JSON {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
		if !report.ServerOK {
			return 1
		}
		return 0
	}

	fmt.Println("Servidor: " + report.ServerURL)
	if report.ServerOK {
		fmt.Printf("%s conectado (%d ms)\n", app.Theme.SuccessStyle.Render("✓"), report.LatencyMs)
	} else {
		fmt.Printf("%s sin conexión: %s\n", errorStyle.Render("✗"), report.ServerError)
	}

	if report.Authenticated {
		fmt.Println(app.Theme.SuccessStyle.Render("✓") + " sesión activa")
	} else {
		fmt.Println(infoStyle.Render("· modo anónimo"))
	}

	if report.CacheOK {
		fmt.Printf("%s caché local (%d conversaciones)\n",
			app.Theme.SuccessStyle.Render("✓"), report.CachedChats)
	} else {
		fmt.Println(warningStyle.Render("! caché local no disponible"))
	}

	if !report.ServerOK {
		fmt.Fprintln(os.Stderr, infoStyle.Render("El historial en caché sigue disponible sin conexión."))
		return 1
	}
	return 0
}
