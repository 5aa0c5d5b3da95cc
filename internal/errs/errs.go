package errs

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidPriority = errors.New("invalid priority")
)
