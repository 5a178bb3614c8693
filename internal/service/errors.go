package service

import "errors"

// Error taxonomy shared by all services. Handlers map these onto HTTP
// statuses; anything not matching is treated as an internal error and only a
// generic message is returned to the caller.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
