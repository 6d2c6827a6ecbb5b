// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the camila API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Status  int // HTTP status for ErrTypeRequestFailed, else 0
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNetwork
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeLimitReached
	ErrTypeRequestFailed
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable  = &ClientError{Type: ErrTypeNetwork, Message: "no se pudo conectar con el servidor"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "la solicitud tardó demasiado"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "sesión expirada o inválida"}
)

// LimitReached builds the quota error carrying the server's own message,
// which the UI shows verbatim on the login prompt.
func LimitReached(message string) *ClientError {
	if message == "" {
		message = "Has alcanzado el límite de mensajes. Inicia sesión para continuar."
	}
	return &ClientError{Type: ErrTypeLimitReached, Message: message}
}

// RequestFailed builds the generic non-2xx error.
func RequestFailed(status int, message string) *ClientError {
	if message == "" {
		message = "la solicitud falló"
	}
	return &ClientError{Type: ErrTypeRequestFailed, Status: status, Message: message}
}

// =============================================================================
// ERROR CHECK HELPERS
// =============================================================================

func isType(err error, t ErrorType) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == t
	}
	return false
}

// IsNetwork checks whether the server was unreachable.
func IsNetwork(err error) bool { return isType(err, ErrTypeNetwork) }

// IsTimeout checks whether the request timed out.
func IsTimeout(err error) bool { return isType(err, ErrTypeTimeout) }

// IsUnauthorized checks whether the token was rejected.
func IsUnauthorized(err error) bool { return isType(err, ErrTypeUnauthorized) }

// IsLimitReached checks whether the anonymous allowance is spent.
func IsLimitReached(err error) bool { return isType(err, ErrTypeLimitReached) }
