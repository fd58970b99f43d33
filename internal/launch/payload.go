// Package launch builds and reads the parameters a mini-app is opened with.
package launch

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
)

// Launch parameter names.
const (
	ParamAdmin    = "admin"
	ParamProjects = "projects"
	ParamData     = "data"
)

// Payload is the full launch context prepared by the bot for one user.
type Payload struct {
	Admin       bool               `json:"admin"`
	UserID      int64              `json:"user_id"`
	Username    string             `json:"username"`
	Projects    project.Catalog    `json:"projects"`
	AllProjects project.Catalog    `json:"all_projects"`
	AllUsers    []user.Ref         `json:"all_users"`
	UserStats   report.UserStats   `json:"user_stats"`
	AdminStats  *report.AdminStats `json:"admin_stats"`
}

// Params encodes the payload as launch parameters. The admin flag and the
// user's catalog are also sent on their own for clients that only read those.
func (p Payload) Params() (url.Values, error) {
	projects, err := json.Marshal(p.Projects)
	if err != nil {
		return nil, fmt.Errorf("encoding projects: %w", err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding launch payload: %w", err)
	}

	params := url.Values{}
	params.Set(ParamAdmin, fmt.Sprintf("%t", p.Admin))
	params.Set(ParamProjects, url.PathEscape(string(projects)))
	params.Set(ParamData, url.PathEscape(string(data)))
	return params, nil
}

// BuildURL appends the payload's launch parameters to the web app location.
func BuildURL(base string, p Payload) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing web app url: %w", err)
	}
	params, err := p.Params()
	if err != nil {
		return "", err
	}

	query := u.Query()
	for key, values := range params {
		query[key] = values
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// ParseData decodes a URL-encoded JSON payload as carried by the data parameter.
func ParseData(raw string) (*Payload, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("unescaping launch payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal([]byte(decoded), &p); err != nil {
		return nil, fmt.Errorf("decoding launch payload: %w", err)
	}
	return &p, nil
}
