package bot

import "errors"

var (
	// ErrUnknownType is returned for payload types the bot does not handle.
	ErrUnknownType = errors.New("unknown payload type")
	// ErrMalformedPayload is returned when payload JSON cannot be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrAdminOnly is returned when a non-admin sends an admin action.
	ErrAdminOnly = errors.New("admin only")
	// ErrNoData is returned when there is nothing to export.
	ErrNoData = errors.New("no data")
)
