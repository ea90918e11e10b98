package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrUnauthorized covers unknown email, wrong password, invalid token,
	// and revoked token uniformly so callers cannot probe which one it was.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)
