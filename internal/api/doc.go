// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the camila backend.
//
// Every request carries the device's anonymous ID and, when signed in,
// the bearer token; both come from an injected CredentialSource so the
// client never reads state off disk itself.
//
// Errors are classified into a small taxonomy the rest of the client
// switches on:
//
//   - ErrTypeNetwork: the server was unreachable or the request timed out
//   - ErrTypeUnauthorized: the token was rejected (401); the registered
//     OnUnauthorized hook has already fired
//   - ErrTypeLimitReached: the anonymous allowance is spent (403 with the
//     requiresAuth marker) and the server's message says what to do
//   - ErrTypeRequestFailed: any other non-2xx, with status and message
//
// Response bodies arrive in several historical shapes; normalize.go
// flattens them into the model types at this boundary so nothing
// downstream needs to know which shape the server spoke.
package api
