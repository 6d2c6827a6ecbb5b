// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the client:
// chat sessions and messages, user accounts and their roles, and the
// reporting types used by the role dashboards.
//
// # Key Types
//
// Chat:
//   - ChatSession: a conversation with the assistant, with history and metadata
//   - Message: a single user or assistant message
//
// Accounts:
//   - Account: the authenticated user, including AccountRole
//   - AccountRole: user, expert, institutional_admin, superadmin
//
// Dashboards:
//   - PatientRecord, Institution, RiskLevel, ChartData
//
// All types are plain data with small helper methods; behavior lives in
// the session, chat, and panel packages.
package model
