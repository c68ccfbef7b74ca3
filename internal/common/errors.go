// Package common defines shared constants and sentinel errors used across
// client and server layers of sshm.io. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors: rejected before any state mutation.
	ErrorValidation    = errors.New("validation error")
	ErrorEmailTaken    = errors.New("email already exists")
	ErrorWeakPassword  = errors.New("weak password")
	ErrorInvalidEmail  = errors.New("invalid email format")
	ErrorMissingFields = errors.New("missing required fields")

	// Account state.
	ErrorAccountInactive = errors.New("account is not active")

	// Session lifecycle errors surfaced by the auth gateway.
	ErrSessionRequired = errors.New("session required")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidToken    = errors.New("invalid token")

	// ErrRateLimited marks an exceeded authentication-attempt window.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrSyncFailed wraps any failure inside the write-sync transaction.
	// The whole call rolls back; server state is unchanged.
	ErrSyncFailed = errors.New("sync failed")
)
