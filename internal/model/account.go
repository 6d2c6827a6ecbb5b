// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// ACCOUNT ROLE TYPE
// =============================================================================

// AccountRole is the platform role attached to an authenticated account.
type AccountRole string

const (
	AccountRoleUser          AccountRole = "user"
	AccountRoleExpert        AccountRole = "expert"
	AccountRoleInstitutional AccountRole = "institutional_admin"
	AccountRoleSuperadmin    AccountRole = "superadmin"
)

// String returns the string representation of the role.
func (r AccountRole) String() string {
	return string(r)
}

// Valid reports whether the role is one the client knows how to route.
func (r AccountRole) Valid() bool {
	switch r {
	case AccountRoleUser, AccountRoleExpert, AccountRoleInstitutional, AccountRoleSuperadmin:
		return true
	}
	return false
}

// Destination names the post-login surface for the role. Unknown roles
// land in the chat, same as plain users.
type Destination string

const (
	DestChat               Destination = "chat"
	DestAdminPanel         Destination = "admin-panel"
	DestExpertPanel        Destination = "expert-panel"
	DestInstitutionalPanel Destination = "institutional-admin"
)

// Destination returns where the client should land after login.
func (r AccountRole) Destination() Destination {
	switch r {
	case AccountRoleSuperadmin:
		return DestAdminPanel
	case AccountRoleExpert:
		return DestExpertPanel
	case AccountRoleInstitutional:
		return DestInstitutionalPanel
	default:
		return DestChat
	}
}

// DisplayName returns a human-readable Spanish label for the role.
func (r AccountRole) DisplayName() string {
	switch r {
	case AccountRoleUser:
		return "Usuario"
	case AccountRoleExpert:
		return "Experto"
	case AccountRoleInstitutional:
		return "Admin institucional"
	case AccountRoleSuperadmin:
		return "Superadmin"
	default:
		return string(r)
	}
}

// =============================================================================
// ACCOUNT TYPE
// =============================================================================

// Account is the authenticated user as returned by the auth endpoints.
type Account struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Role          AccountRole `json:"role"`
	InstitutionID string      `json:"institutionId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt,omitempty"`
}

// IsStaff reports whether the account has access to any dashboard.
func (a *Account) IsStaff() bool {
	return a.Role == AccountRoleExpert ||
		a.Role == AccountRoleInstitutional ||
		a.Role == AccountRoleSuperadmin
}
