// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// =============================================================================
// TOKEN INTROSPECTION
// =============================================================================

// TokenInfo is what the client can read out of its own bearer token.
// The signature is NOT verified: the server owns validity, this is only
// for display (whoami, doctor) and for skipping requests that are
// certain to bounce.
type TokenInfo struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim has passed. Tokens
// without an exp claim never read as expired.
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

var ErrNotAToken = errors.New("stored credential is not a JWT")

// InspectToken decodes the claims of a JWT without verifying it.
func InspectToken(token string) (*TokenInfo, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, ErrNotAToken
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

// TokenInfo inspects the currently stored token. Returns ErrNotSignedIn
// when signed out.
func (c *Controller) TokenInfo() (*TokenInfo, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	return InspectToken(token)
}
