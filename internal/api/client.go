// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// =============================================================================
// CREDENTIAL SOURCE
// =============================================================================

// CredentialSource supplies the per-request identity headers. The session
// controller implements it; tests use a literal.
type CredentialSource interface {
	// Token returns the bearer token, or "" when signed out.
	Token() string
	// AnonymousID returns the stable device identity. Always present.
	AnonymousID() string
}

// StaticCredentials is a fixed CredentialSource, mainly for tests and
// one-shot CLI commands.
type StaticCredentials struct {
	BearerToken string
	DeviceID    string
}

func (s StaticCredentials) Token() string       { return s.BearerToken }
func (s StaticCredentials) AnonymousID() string { return s.DeviceID }

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL of the camila backend, without a trailing slash
	BaseURL string

	// Timeout for requests (default: 30s)
	Timeout time.Duration

	// UserAgent sent with every request
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "https://camila.garcessebastian.com",
		Timeout:   30 * time.Second,
		UserAgent: "camila-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the camila backend.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	creds      CredentialSource

	// onUnauthorized fires once per rejected request, before the error is
	// returned. The session controller uses it to drop stale credentials.
	onUnauthorized func()
}

// NewClient creates a client with default configuration.
func NewClient(creds CredentialSource) *Client {
	return NewClientWithConfig(DefaultConfig(), creds)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig, creds CredentialSource) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://camila.garcessebastian.com"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "camila-tui"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		creds: creds,
	}
}

// OnUnauthorized registers the hook invoked when the server rejects the
// token. Must be set before the client is shared across goroutines.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured backend URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REQUEST CORE
// =============================================================================

// serverMessage is the error envelope most endpoints use for failures.
type serverMessage struct {
	Message      string `json:"message"`
	Error        string `json:"error"`
	RequiresAuth bool   `json:"requiresAuth"`
}

func (m *serverMessage) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

// doJSON performs a request and decodes the 2xx response body into out
// (which may be nil). All error classification happens here.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return &ClientError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if anonID := c.creds.AnonymousID(); anonID != "" {
		req.Header.Set("X-Anonymous-Id", anonID)
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeoutErr(err) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeNetwork, Message: ErrUnreachable.Message, Cause: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}

	if resp.StatusCode == http.StatusForbidden {
		var msg serverMessage
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil && msg.RequiresAuth {
			return LimitReached(msg.text())
		}
		return RequestFailed(resp.StatusCode, msg.text())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg serverMessage
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil && msg.text() != "" {
			return RequestFailed(resp.StatusCode, msg.text())
		}
		return RequestFailed(resp.StatusCode, resp.Status)
	}

	if out == nil {
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}

	// Success bodies arrive wrapped in {success, data, message}. Unwrap
	// once here so callers only ever see the data; a bare body (no
	// envelope) passes through untouched.
	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(payload, &env); err == nil {
		if env.Success != nil && !*env.Success {
			return RequestFailed(resp.StatusCode, env.Message)
		}
		if len(env.Data) > 0 && string(env.Data) != "null" {
			payload = env.Data
		}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// isTimeoutErr recognizes net timeouts hidden inside url.Error.
func isTimeoutErr(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// drainAndClose empties the body so the connection is reusable.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
