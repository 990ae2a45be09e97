package usecase

import "errors"

// Error taxonomy shared by every repository and service. Stores translate
// backend-specific failures into these before they cross the port boundary;
// the HTTP layer maps them to status codes.
var (
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("no copies available")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrBackendTimeout  = errors.New("backend timeout")
)
