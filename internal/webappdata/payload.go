// Package webappdata defines the JSON payloads a mini-app hands back to the bot.
package webappdata

import (
	"encoding/json"
	"fmt"
)

// Type identifies the kind of payload.
type Type string

const (
	TypeReport         Type = "report"
	TypeAddProject     Type = "add_project"
	TypeRemoveProject  Type = "remove_project"
	TypeAssignProjects Type = "assign_projects"
)

// AdminOnly reports whether only administrators may send this type.
func (t Type) AdminOnly() bool {
	switch t {
	case TypeAddProject, TypeRemoveProject, TypeAssignProjects:
		return true
	}
	return false
}

// Envelope carries the type discriminator and the raw payload.
type Envelope struct {
	Type Type            `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// ReportItem is one project line of a multi-project report.
type ReportItem struct {
	Project     string  `json:"project"`
	ProjectAbbr string  `json:"project_abbr,omitempty"`
	Hours       float64 `json:"hours"`
}

// Report is a time report. Single-project reports fill Project, ProjectAbbr
// and Hours; multi-project reports fill Projects.
type Report struct {
	Type        Type         `json:"type"`
	Project     string       `json:"project,omitempty"`
	ProjectAbbr string       `json:"project_abbr,omitempty"`
	Hours       float64      `json:"hours,omitempty"`
	Projects    []ReportItem `json:"projects,omitempty"`
	Comments    string       `json:"comments"`
}

// singleReport is the wire shape of a single-project report. Its fields
// are always present, even when zero.
type singleReport struct {
	Type        Type    `json:"type"`
	Project     string  `json:"project"`
	ProjectAbbr string  `json:"project_abbr"`
	Hours       float64 `json:"hours"`
	Comments    string  `json:"comments"`
}

// MarshalJSON writes single-project reports with every project field set
// and multi-project reports with the projects list only.
func (r Report) MarshalJSON() ([]byte, error) {
	if len(r.Projects) > 0 {
		type multi Report
		return json.Marshal(multi(r))
	}
	return json.Marshal(singleReport{
		Type:        r.Type,
		Project:     r.Project,
		ProjectAbbr: r.ProjectAbbr,
		Hours:       r.Hours,
		Comments:    r.Comments,
	})
}

// Items flattens the report into its project lines.
func (r Report) Items() []ReportItem {
	if len(r.Projects) > 0 {
		return r.Projects
	}
	return []ReportItem{{Project: r.Project, ProjectAbbr: r.ProjectAbbr, Hours: r.Hours}}
}

// AddProject registers a new project.
type AddProject struct {
	Type Type   `json:"type"`
	Abbr string `json:"abbr"`
	Full string `json:"full"`
}

// RemoveProject deletes a project from the catalog.
type RemoveProject struct {
	Type Type   `json:"type"`
	Abbr string `json:"abbr"`
}

// AssignProjects restricts the catalog shown to a user.
type AssignProjects struct {
	Type     Type     `json:"type"`
	UserID   int64    `json:"user_id"`
	Username string   `json:"username,omitempty"`
	Abbrs    []string `json:"abbrs"`
}

// NewReport builds a single-project report payload.
func NewReport(project, abbr string, hours float64, comments string) Report {
	return Report{Type: TypeReport, Project: project, ProjectAbbr: abbr, Hours: hours, Comments: comments}
}

// NewAddProject builds a project registration payload.
func NewAddProject(abbr, full string) AddProject {
	return AddProject{Type: TypeAddProject, Abbr: abbr, Full: full}
}

// Decode reads the type discriminator of data and keeps the raw bytes for
// a later typed decode.
func Decode(data []byte) (Envelope, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if head.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return Envelope{Type: head.Type, Raw: json.RawMessage(data)}, nil
}

// Into decodes the raw payload into v.
func (e Envelope) Into(v any) error {
	if err := json.Unmarshal(e.Raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
