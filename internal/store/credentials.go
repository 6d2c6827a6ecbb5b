// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/util"
)

const (
	credentialsFile = "credentials.json"
	quotaFile       = "quota.json"

	// credentialsPerm keeps the bearer token out of other users' reach.
	credentialsPerm = 0o600
)

// AnonymousLimit is how many messages an unauthenticated device may send
// before the client stops calling the server and asks for a login.
const AnonymousLimit = 5

// =============================================================================
// TYPES
// =============================================================================

// Credentials is the persisted auth state. Both fields empty means signed out.
type Credentials struct {
	Token   string         `json:"token,omitempty"`
	Account *model.Account `json:"account,omitempty"`
}

// IsAuthenticated reports whether a token and account are both present.
func (c *Credentials) IsAuthenticated() bool {
	return c != nil && c.Token != "" && c.Account != nil
}

// QuotaState tracks anonymous usage for this device.
type QuotaState struct {
	AnonymousID string    `json:"anonymousId"`
	Used        int       `json:"used"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Remaining returns how many anonymous messages are left, never negative.
func (q *QuotaState) Remaining() int {
	left := AnonymousLimit - q.Used
	if left < 0 {
		return 0
	}
	return left
}

// Exhausted reports whether the anonymous allowance is used up.
func (q *QuotaState) Exhausted() bool {
	return q.Used >= AnonymousLimit
}

// =============================================================================
// STORE
// =============================================================================

// Store persists client state under a single directory,
// by default ~/.camila/.
type Store struct {
	BaseDir string
}

// New creates a store rooted at ~/.camila.
func New() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewWithDir(filepath.Join(homeDir, ".camila"))
}

// NewWithDir creates a store with a custom state directory.
func NewWithDir(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, err
	}
	return &Store{BaseDir: baseDir}, nil
}

// CredentialsPath returns the path of the credentials file. The watcher
// and tests need it; nothing else should touch the file directly.
func (s *Store) CredentialsPath() string {
	return filepath.Join(s.BaseDir, credentialsFile)
}

func (s *Store) quotaPath() string {
	return filepath.Join(s.BaseDir, quotaFile)
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// LoadCredentials reads the persisted auth state. A missing or unreadable
// file is not an error: it loads as signed out, matching how a fresh
// device behaves.
func (s *Store) LoadCredentials() *Credentials {
	data, err := os.ReadFile(s.CredentialsPath())
	if err != nil {
		return &Credentials{}
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupted state reads as absent rather than wedging the client.
		return &Credentials{}
	}
	// A token without an account (or vice versa) is half-written state;
	// treat it as signed out.
	if creds.Token == "" || creds.Account == nil {
		return &Credentials{}
	}
	return &creds
}

// SaveCredentials persists the auth state atomically with 0600 permissions.
func (s *Store) SaveCredentials(creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.CredentialsPath(), data, credentialsPerm)
}

// ClearCredentials removes the persisted auth state. Quota state is kept:
// signing out does not refresh the anonymous allowance.
func (s *Store) ClearCredentials() error {
	err := os.Remove(s.CredentialsPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// =============================================================================
// QUOTA
// =============================================================================

// LoadQuota reads the anonymous usage state, minting a device ID on first
// use. The minted ID is persisted immediately so concurrent processes
// converge on one identity.
func (s *Store) LoadQuota() (*QuotaState, error) {
	data, err := os.ReadFile(s.quotaPath())
	if err == nil {
		var q QuotaState
		if jsonErr := json.Unmarshal(data, &q); jsonErr == nil && q.AnonymousID != "" {
			return &q, nil
		}
	}

	q := &QuotaState{
		AnonymousID: model.GenerateAnonymousID(),
		UpdatedAt:   time.Now(),
	}
	if err := s.SaveQuota(q); err != nil {
		return nil, err
	}
	return q, nil
}

// SaveQuota persists the anonymous usage state atomically.
func (s *Store) SaveQuota(q *QuotaState) error {
	q.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.quotaPath(), data, 0o644)
}
