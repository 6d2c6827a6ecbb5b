// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client's identity: who is signed in, which
// anonymous device ID speaks for a signed-out user, and how much of the
// anonymous allowance is left.
//
// The Controller is the single writer of credential and quota state. It
// implements api.CredentialSource, so the HTTP client always reads
// identity through it, and it is the OnUnauthorized hook's target, so a
// rejected token clears state exactly once.
//
// # Quota Policy
//
// Anonymous messages follow the debit-on-attempt policy: the allowance
// is spent when a send is attempted, before the network call, and a
// failed send does not refund it. This errs on the side of under-serving
// rather than letting retries mint free messages.
//
// # Change Notification
//
// Register callbacks with OnChange to observe logins, logouts, and
// external credential changes (another process writing the state
// directory, surfaced through store.CredentialsWatcher).
package session
