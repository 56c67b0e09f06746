// Package apperr defines the error conditions handlers translate into HTTP
// responses. Collaborator failures are wrapped with %w so errors.Is keeps
// working across layers.
package apperr

import "errors"

var (
	// ErrInvalidToken - an obfuscated id (or bearer token) failed to decode.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized - missing or malformed bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied - the caller is authenticated but may not act on
	// this resource. Distinct from ErrNotFound: the row may exist but is not
	// visible to the actor.
	ErrPermissionDenied = errors.New("you do not have permission to access")

	// ErrNotFound - a decoded id has no matching row.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFilter - a malformed filter parameter (e.g. a truck-type or
	// product-type list that is not valid JSON).
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrValidation - a create/update payload missing required fields.
	ErrValidation = errors.New("validation failed")
)
