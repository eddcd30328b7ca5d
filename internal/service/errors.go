package service

import "errors"

var (
	// ErrNotFound is returned when a referenced movie or favorite does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstream wraps failures of the upstream catalog.
	ErrUpstream = errors.New("upstream catalog unavailable")
	// ErrInvalidCredentials is returned for a failed login.
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
)
