// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markup post-processes assistant replies. Replies arrive as
// lightly marked-up text: **bold** spans, bullet lines with • or -,
// section headings that end in a colon, and occasionally a booking
// suggestion with a markdown-style link to the scheduling site.
//
// Parse turns raw text into a small block structure once; RenderHTML and
// RenderTerminal then produce escaped HTML (for export) or styled
// terminal text from the same structure, so the two surfaces can never
// disagree about what a reply contains.
//
// Links are only honored when their origin is exactly the booking site
// (https scheme, sigepsi.garcessebastian.com host). Anything else is
// rendered as its label text with the target discarded.
package markup
