// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/garcessebastian/camila-tui/internal/api"
	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/store"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrEmailInvalid     = errors.New("ingresa un correo electrónico válido")
	ErrPasswordTooShort = errors.New("la contraseña debe tener al menos 6 caracteres")
	ErrNameRequired     = errors.New("ingresa tu nombre")
	ErrTermsNotAccepted = errors.New("debes aceptar los términos y condiciones")
	ErrNotSignedIn      = errors.New("no has iniciado sesión")
	ErrQuotaExhausted   = errors.New("has alcanzado el límite de mensajes anónimos")
)

// emailShape is deliberately loose: one @, something on both sides, a
// dot in the domain. The server is the real validator.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// =============================================================================
// QUOTA POLICY
// =============================================================================

// QuotaPolicy names when the anonymous allowance is debited.
type QuotaPolicy int

const (
	// DebitOnAttempt spends a unit before the network call and never
	// refunds it. The only policy currently implemented.
	DebitOnAttempt QuotaPolicy = iota
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns credential and quota state. Safe for concurrent use.
type Controller struct {
	mu    sync.RWMutex
	store *store.Store
	creds *store.Credentials
	quota *store.QuotaState

	policy QuotaPolicy

	client *api.Client

	// callbacks, invoked outside the lock
	onChange []func(*store.Credentials)
}

// NewController loads persisted state and returns a controller. The
// anonymous device ID is minted here on first run.
func NewController(st *store.Store) (*Controller, error) {
	quota, err := st.LoadQuota()
	if err != nil {
		return nil, err
	}
	return &Controller{
		store:  st,
		creds:  st.LoadCredentials(),
		quota:  quota,
		policy: DebitOnAttempt,
	}, nil
}

// AttachClient hands the controller the API client it drives auth calls
// through. Call once during wiring, before any operation.
func (c *Controller) AttachClient(client *api.Client) {
	c.client = client
	client.OnUnauthorized(c.HandleUnauthorized)
}

// OnChange registers a callback for credential transitions. Callbacks
// run synchronously on the goroutine that caused the change.
func (c *Controller) OnChange(fn func(*store.Credentials)) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}

func (c *Controller) notify(creds *store.Credentials) {
	c.mu.RLock()
	callbacks := make([]func(*store.Credentials), len(c.onChange))
	copy(callbacks, c.onChange)
	c.mu.RUnlock()
	for _, fn := range callbacks {
		fn(creds)
	}
}

// =============================================================================
// CREDENTIAL SOURCE
// =============================================================================

// Token implements api.CredentialSource.
func (c *Controller) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds.Token
}

// AnonymousID implements api.CredentialSource.
func (c *Controller) AnonymousID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quota.AnonymousID
}

// Account returns a copy of the signed-in account, or nil.
func (c *Controller) Account() *model.Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.creds.Account == nil {
		return nil
	}
	account := *c.creds.Account
	return &account
}

// IsAuthenticated reports whether a user is signed in.
func (c *Controller) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds.IsAuthenticated()
}

// Destination returns the surface the current identity should land on.
func (c *Controller) Destination() model.Destination {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.creds.IsAuthenticated() {
		return model.DestChat
	}
	return c.creds.Account.Role.Destination()
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login validates input locally, authenticates, and persists the result.
// termsAccepted mirrors the consent checkbox; the server is not called
// without it.
func (c *Controller) Login(ctx context.Context, email, password string, termsAccepted bool) (*model.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailShape.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if !termsAccepted {
		return nil, ErrTermsNotAccepted
	}

	result, err := c.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.adopt(result)
}

// Register validates input locally, creates the account, and signs in.
func (c *Controller) Register(ctx context.Context, name, email, password string, termsAccepted bool) (*model.Account, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, ErrNameRequired
	}
	if !emailShape.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if !termsAccepted {
		return nil, ErrTermsNotAccepted
	}

	result, err := c.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return c.adopt(result)
}

// adopt persists and publishes a fresh auth result. Signing in refunds
// the anonymous allowance: the counter resets to zero and is persisted,
// so the next signed-out session starts fresh.
func (c *Controller) adopt(result *api.AuthResult) (*model.Account, error) {
	creds := &store.Credentials{Token: result.Token, Account: result.Account}

	c.mu.Lock()
	c.creds = creds
	err := c.store.SaveCredentials(creds)
	if err == nil && c.quota.Used != 0 {
		c.quota.Used = 0
		err = c.store.SaveQuota(c.quota)
	}
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.notify(creds)
	account := *result.Account
	return &account, nil
}

// Logout clears local credentials and best-effort invalidates the token
// server-side. Local state is cleared even when the network call fails;
// the quota state survives, so signing out never refreshes the
// anonymous allowance.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.RLock()
	signedIn := c.creds.IsAuthenticated()
	c.mu.RUnlock()
	if !signedIn {
		return ErrNotSignedIn
	}

	// Server first, while the token still works. Errors are dropped.
	_ = c.client.Logout(ctx)

	return c.clearLocal()
}

// HandleUnauthorized drops local credentials after the server rejected
// the token. Wired to api.Client.OnUnauthorized.
func (c *Controller) HandleUnauthorized() {
	c.mu.RLock()
	signedIn := c.creds.IsAuthenticated()
	c.mu.RUnlock()
	if !signedIn {
		return
	}
	_ = c.clearLocal()
}

func (c *Controller) clearLocal() error {
	empty := &store.Credentials{}

	c.mu.Lock()
	c.creds = empty
	err := c.store.ClearCredentials()
	c.mu.Unlock()

	c.notify(empty)
	return err
}

// AdoptExternal replaces in-memory credentials with a snapshot loaded by
// the credentials watcher. No disk write happens: the other process
// already did it.
func (c *Controller) AdoptExternal(creds *store.Credentials) {
	if creds == nil {
		creds = &store.Credentials{}
	}
	c.mu.Lock()
	same := c.creds.Token == creds.Token
	if !same {
		c.creds = creds
	}
	c.mu.Unlock()

	if !same {
		c.notify(creds)
	}
}

// =============================================================================
// QUOTA OPERATIONS
// =============================================================================

// QuotaRemaining returns how many anonymous messages are left. Signed-in
// users are unmetered and always see the full allowance.
func (c *Controller) QuotaRemaining() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.creds.IsAuthenticated() {
		return store.AnonymousLimit
	}
	return c.quota.Remaining()
}

// ConsumeQuota applies the debit-on-attempt policy for one send. For a
// signed-in user it is a no-op. For an anonymous user it either debits
// one unit and persists, or returns ErrQuotaExhausted without calling
// anything.
func (c *Controller) ConsumeQuota() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds.IsAuthenticated() {
		return nil
	}
	if c.quota.Exhausted() {
		return ErrQuotaExhausted
	}
	c.quota.Used++
	return c.store.SaveQuota(c.quota)
}

// Exhaust forces the anonymous counter to its maximum and persists it.
// Called when the server reports the limit, which outranks whatever the
// local counter says. No-op for signed-in users.
func (c *Controller) Exhaust() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds.IsAuthenticated() || c.quota.Exhausted() {
		return
	}
	c.quota.Used = store.AnonymousLimit
	_ = c.store.SaveQuota(c.quota)
}
