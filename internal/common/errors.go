// Package common defines shared constants and sentinel errors used across
// client and server layers of studysync. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Caller contract violations. These are the only errors the
	// synchronizer returns to its callers.
	ErrMissingCollection = errors.New("collection name is required")
	ErrMissingID         = errors.New("record id is required")
	ErrMissingOwner      = errors.New("authenticated owner is required")

	// Request validation errors.
	ErrInvalidOrderDirection = errors.New("invalid order direction")
	ErrInvalidOrderField     = errors.New("invalid order field")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
