package miniapp

import (
	"strings"

	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/webappdata"
)

// EmptyComment is sent when the report has no comment.
const EmptyComment = "-"

// BuildReport turns a draft into a report payload.
func BuildReport(d Draft) (webappdata.Report, error) {
	if d.Selected == nil {
		return webappdata.Report{}, ErrNoProjectSelected
	}
	comment := d.Comment
	if comment == "" {
		comment = EmptyComment
	}
	return webappdata.NewReport(d.Selected.Full, d.Selected.Abbr, d.Quantity, comment), nil
}

// BuildNewProject validates a new project against the catalog and builds
// the registration payload. Validation failures come back as
// project.ValidationErrors holding every failed check.
func BuildNewProject(abbr, full string, catalog project.Catalog) (webappdata.AddProject, error) {
	abbr = project.NormalizeAbbr(abbr)
	full = strings.TrimSpace(full)
	if err := project.ValidateNew(abbr, full, catalog); err != nil {
		return webappdata.AddProject{}, err
	}
	return webappdata.NewAddProject(abbr, full), nil
}
