// Package initdata signs and verifies the init data a mini-app host passes
// to its web app, and turns it into the caller identity.
package initdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	tma "github.com/telegram-mini-apps/init-data-golang"
	"github.com/rpggio/timesheet/internal/domain/user"
)

const (
	keyHash     = "hash"
	keyAuthDate = "auth_date"
	keyUser     = "user"
)

// Data is verified init data.
type Data struct {
	User       user.Identity
	AuthDate   time.Time
	QueryID    string
	StartParam string
}

// Validator checks init data against a bot token.
type Validator struct {
	token  string
	maxAge time.Duration
}

// NewValidator creates a validator. A zero maxAge disables the age check.
func NewValidator(token string, maxAge time.Duration) *Validator {
	return &Validator{token: token, maxAge: maxAge}
}

// Validate verifies the signature and age of raw init data and decodes it.
func (v *Validator) Validate(raw string) (*Data, error) {
	if err := tma.Validate(raw, v.token, v.maxAge); err != nil {
		return nil, classify(err)
	}
	parsed, err := tma.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if parsed.User.ID == 0 {
		return nil, ErrNoUser
	}
	return &Data{
		User: user.Identity{
			ID:        parsed.User.ID,
			Username:  parsed.User.Username,
			FirstName: parsed.User.FirstName,
			LastName:  parsed.User.LastName,
		},
		AuthDate:   parsed.AuthDate(),
		QueryID:    parsed.QueryID,
		StartParam: parsed.StartParam,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, tma.ErrSignMissing):
		return fmt.Errorf("%w: %w", ErrMissingHash, err)
	case errors.Is(err, tma.ErrSignInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	case errors.Is(err, tma.ErrExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}

// Encode builds signed init data for a user, as a host would.
func Encode(identity user.Identity, authDate time.Time, token string) (string, error) {
	u, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("encoding user: %w", err)
	}
	hash := tma.Sign(map[string]string{keyUser: string(u)}, token, authDate)

	values := url.Values{}
	values.Set(keyUser, string(u))
	values.Set(keyAuthDate, strconv.FormatInt(authDate.Unix(), 10))
	values.Set(keyHash, hash)
	return values.Encode(), nil
}
