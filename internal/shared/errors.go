package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrConflict indicates the record is referenced elsewhere and cannot
	// be changed or removed.
	ErrConflict = errors.New("record in use")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden indicates a denied authorization check.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates a missing or anonymous session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
