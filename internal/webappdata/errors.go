package webappdata

import "errors"

var (
	// ErrMalformed is returned for payloads that are not valid JSON for their type.
	ErrMalformed = errors.New("malformed web app payload")
	// ErrMissingType is returned when the type discriminator is absent.
	ErrMissingType = errors.New("web app payload has no type")
)
