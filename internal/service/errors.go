package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	// ErrInvalidCode covers wrong, expired and already-used verification codes
	// alike; callers must not be able to tell which.
	ErrInvalidCode = errors.New("invalid or expired code")
)
