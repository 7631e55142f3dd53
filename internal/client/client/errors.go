package client

import "errors"

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotSignedIn    = errors.New("Not signed in.")
	ErrSessionInvalid = errors.New("Session invalid.")
)
