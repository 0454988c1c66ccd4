package service

import "errors"

// Sentinel errors shared by the service layer. Handlers map them onto HTTP
// status codes with errors.Is; messages wrapped around them reach the client
// verbatim, so they must not leak internals.
var (
	ErrNotFound           = errors.New("not found")
	ErrPermission         = errors.New("permission denied")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation error")
	ErrEventLimit         = errors.New("you can only create 1 event")
	ErrRateLimited        = errors.New("too many requests")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMailer             = errors.New("failed to send email, please try again later")
)
