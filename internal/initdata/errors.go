package initdata

import "errors"

var (
	ErrMalformed        = errors.New("malformed init data")
	ErrMissingHash      = errors.New("init data has no hash")
	ErrInvalidSignature = errors.New("init data signature mismatch")
	ErrExpired          = errors.New("init data expired")
	ErrNoUser           = errors.New("init data has no user")
)
