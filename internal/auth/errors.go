package auth

import "errors"

var (
	ErrInvalidInput = errors.New("auth: invalid input")
	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("auth: resource conflict")
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrForbidden    = errors.New("auth: forbidden")
)

// ErrInvalidToken indicates the bearer token failed validation. Callers map it
// to the same unauthorized outcome as ErrUnauthorized; the distinction exists
// only for internal diagnostics.
var ErrInvalidToken = errors.New("auth: invalid token")
