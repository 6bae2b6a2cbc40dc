// Package common defines sentinel errors shared by the repository, service
// and transport layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrValidation     = errors.New("validation error")
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("invalid username or password")

	// Token errors (missing, malformed, expired or badly signed).
	ErrInvalidToken = errors.New("invalid token")
)
