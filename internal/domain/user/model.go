package user

import "time"

// User is a person who opened the mini-app at least once.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Ref is the compact form handed to the mini-app for assignment screens.
type Ref struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Identity is the caller as reported by the host platform.
type Identity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName prefers the handle and falls back to the first name.
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return i.FirstName
}
