package project

import "time"

// Project is a unit of work that hours are reported against.
type Project struct {
	Abbr      string    `json:"abbr"`
	Full      string    `json:"full"`
	CreatedAt time.Time `json:"-"`
}

// Assignment restricts the catalog a user sees to a subset of abbreviations.
type Assignment struct {
	UserID int64    `json:"user_id"`
	Abbrs  []string `json:"abbrs"`
}
