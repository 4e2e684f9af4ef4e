package services

import "errors"

var (
	ErrConflict              = errors.New("conflict")
	ErrMissingField          = errors.New("username and email are required")
	ErrNotFound              = errors.New("not found")
	ErrFileNotFound          = errors.New("file not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)
