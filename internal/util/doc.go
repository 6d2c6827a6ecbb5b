// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the camila-tui application.
//
// This package contains common helper functions used throughout the
// application for string handling, date formatting, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - Words: whitespace splitting that preserves word order for staged reveal
//
// Date Formatting:
//   - RelativeDate: Spanish-language relative timestamps ("Hace 5 min")
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
