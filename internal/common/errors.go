// Package common defines shared constants and sentinel errors used across
// the admin client layers. Callers should use errors.Is to match these
// values; typed errors from httpclient, imageenc and forms report them
// through their Is methods.
package common

import "errors"

var (
	// Resource-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrNotLoggedIn    = errors.New("not logged in")

	// Transport errors.
	ErrTimeout = errors.New("request timed out")

	// Client-side checks performed before any request is issued.
	ErrValidation = errors.New("validation error")

	// Returned by form controllers for transitions the state machine forbids.
	ErrInvalidTransition = errors.New("invalid form transition")
)
