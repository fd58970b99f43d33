package report

import "errors"

var (
	// ErrInvalidInput indicates invalid report input.
	ErrInvalidInput = errors.New("invalid report input")
	// ErrNoItems indicates a submission without any project items.
	ErrNoItems = errors.New("report has no items")
	// ErrInvalidHours indicates hours outside (0, MaxHours].
	ErrInvalidHours = errors.New("hours out of range")
)
