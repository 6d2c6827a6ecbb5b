// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package panel assembles the role-scoped staff dashboards.
//
// Each institution type carries a Schema declaring which segment filter
// it offers (university: program, school: grade, company and health
// center: department), the patient-table columns, and the chart labels.
// Filters, tables and charts all consume the same Schema, so switching
// institution type swaps the whole surface consistently: a FilterSet is
// always rebuilt from its Schema and can never emit a query parameter
// that belongs to another type.
//
// The Poller drives the expert panel's live view: it asks the
// updates/real-time endpoint for deltas since the last check on a fixed
// interval, merges new patients additively into the known list, and
// swallows failures so one bad poll never stops the next.
package panel
