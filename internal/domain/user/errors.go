package user

import "errors"

var (
	// ErrUserNotFound indicates the user has never registered.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidInput indicates invalid user input.
	ErrInvalidInput = errors.New("invalid user input")
)
