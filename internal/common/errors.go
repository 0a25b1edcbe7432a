// Package common defines sentinel errors shared by the repository, service and
// transport layers of usersvc. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Input errors (malformed or missing fields).
	ErrorValidation = errors.New("validation error")
)
