// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives a conversation with the assistant, independent of
// any UI. The Engine owns the current session and enforces the send
// pipeline:
//
//  1. reject empty input and overlapping sends (one in flight at a time)
//  2. spend the anonymous allowance (debit-on-attempt) before the network
//  3. append the user's message optimistically
//  4. deliver, then reconcile with the server's session or roll the
//     optimistic message back on failure
//
// Replies are not shown at once: a reveal uncovers a few words per tick,
// driven by the UI calling AdvanceReveal on its own timer, skippable via
// SkipReveal, and finishing exactly once however it ends.
//
// Every send bumps a generation counter. A response that lands after the
// user has switched or reset the conversation carries a stale generation
// and is dropped instead of contaminating the new session.
//
// After a successful send the engine refreshes the history list on a
// settle delay, mirrors it into the offline cache, and hands it to the
// registered callback. Refresh failures are silent; the panel just keeps
// its last contents.
package chat
