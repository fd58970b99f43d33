package telegram

import "errors"

// ErrNoToken is returned when a client is created without a bot token.
var ErrNoToken = errors.New("telegram bot token not configured")
