package domain

import "errors"

var (
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrProviderFailure    = errors.New("provider failure")
	ErrEmptyResponse      = errors.New("empty provider response")
)
