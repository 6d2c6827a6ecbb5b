// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Token   string
	Account *model.Account
}

type wireAuthResponse struct {
	Token string      `json:"token"`
	User  wireAccount `json:"user"`
}

// Login exchanges credentials for a token and account snapshot.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp wireAuthResponse
	if err := c.post(ctx, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return authResult(&resp)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var resp wireAuthResponse
	if err := c.post(ctx, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return authResult(&resp)
}

// Logout tells the server to invalidate the token. A network failure is
// not fatal: local credentials are cleared regardless by the caller.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/api/auth/logout", nil, nil)
}

// Profile fetches the current account. Useful to verify a stored token
// is still alive.
func (c *Client) Profile(ctx context.Context) (*model.Account, error) {
	var resp struct {
		User wireAccount `json:"user"`
	}
	if err := c.get(ctx, "/api/auth/profile", &resp); err != nil {
		return nil, err
	}
	return normalizeAccount(&resp.User), nil
}

// Terms fetches the current terms-and-conditions text. No auth required.
func (c *Client) Terms(ctx context.Context) (string, error) {
	var resp struct {
		Terms   string `json:"terms"`
		Content string `json:"content"`
	}
	if err := c.get(ctx, "/api/auth/terms", &resp); err != nil {
		return "", err
	}
	text := resp.Terms
	if text == "" {
		text = resp.Content
	}
	return text, nil
}

// RegisterInstitutionalAdmin creates an institutional admin account
// bound to an institution. Superadmin only; the new account is not
// signed in here.
func (c *Client) RegisterInstitutionalAdmin(ctx context.Context, name, email, password, institutionID string) (*model.Account, error) {
	body := map[string]string{
		"name":          name,
		"email":         email,
		"password":      password,
		"institutionId": institutionID,
	}

	var resp struct {
		User wireAccount `json:"user"`
	}
	if err := c.post(ctx, "/api/auth/register-institutional-admin", body, &resp); err != nil {
		return nil, err
	}
	return normalizeAccount(&resp.User), nil
}

// Health pings the backend. No auth required.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/api/health", nil)
}

func authResult(resp *wireAuthResponse) (*AuthResult, error) {
	if resp.Token == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "auth response carried no token"}
	}
	account := normalizeAccount(&resp.User)
	if account.ID == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "auth response carried no user"}
	}
	return &AuthResult{Token: resp.Token, Account: account}, nil
}
