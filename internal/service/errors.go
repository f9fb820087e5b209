package service

import "errors"

// Sentinel errors services return so handlers can pick the right HTTP
// status. Wrap with fmt.Errorf("%w: ...") to add detail.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid request")
	ErrUnauthorized = errors.New("invalid credentials")
)
