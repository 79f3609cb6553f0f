package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Returned on any login failure: the caller must not be able to tell
	// a wrong password from an unknown username
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session is expired")

	ErrPostNotFound    = errors.New("post not found")
	ErrPostFieldsEmpty = errors.New("post title and content must not be empty")
)
