// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides local persistence for the camila client.
//
// Three concerns live here:
//
//   - Credentials: the auth token, account snapshot, anonymous device ID,
//     and anonymous message count, kept in a JSON file under the state
//     directory. Writes are atomic and the file is chmod 0600 because it
//     carries a bearer token.
//
//   - Watching: a fsnotify watcher on the state directory so a second
//     running client sees logins and logouts made elsewhere, the same way
//     browser tabs observe each other's storage.
//
//   - History cache: an offline SQLite mirror of the server-side chat
//     list, so `camila chats` works without connectivity and the history
//     panel paints instantly before the network refresh lands.
//
// All values are snapshots: mutating a returned struct does not change
// what is on disk until it is saved back.
package store
