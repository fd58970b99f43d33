package miniapp

import (
	"testing"

	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/webappdata"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	_, err := BuildReport(NewDraft())
	require.ErrorIs(t, err, ErrNoProjectSelected)

	d := NewDraft()
	d.Select(project.Project{Abbr: "КП", Full: "Клиентская поддержка"})
	d.SetQuantity(8)

	rep, err := BuildReport(d)
	require.NoError(t, err)
	require.Equal(t, webappdata.TypeReport, rep.Type)
	require.Equal(t, "Клиентская поддержка", rep.Project)
	require.Equal(t, "КП", rep.ProjectAbbr)
	require.Equal(t, 8.0, rep.Hours)
	require.Equal(t, EmptyComment, rep.Comments)

	d.SetComment("тикеты")
	rep, err = BuildReport(d)
	require.NoError(t, err)
	require.Equal(t, "тикеты", rep.Comments)
}

func TestBuildNewProject(t *testing.T) {
	catalog := project.DemoCatalog()

	tests := []struct {
		name     string
		abbr     string
		full     string
		wantErrs []error
	}{
		{name: "valid", abbr: "ан", full: "Аналитика"},
		{name: "abbr too short", abbr: "A", full: "Аналитика", wantErrs: []error{project.ErrAbbrTooShort}},
		{name: "both short", abbr: "", full: "ab", wantErrs: []error{project.ErrAbbrTooShort, project.ErrNameTooShort}},
		{name: "duplicate abbr", abbr: "рс", full: "Совсем новый", wantErrs: []error{project.ErrDuplicateAbbr}},
		{name: "duplicate name", abbr: "НВ", full: "маркетинг", wantErrs: []error{project.ErrDuplicateName}},
		{name: "abbr wins on same entry", abbr: "ДЗ", full: "Дизайн", wantErrs: []error{project.ErrDuplicateAbbr}},
		{name: "short and duplicate", abbr: "X", full: "дизайн", wantErrs: []error{project.ErrAbbrTooShort, project.ErrDuplicateName}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := BuildNewProject(tt.abbr, tt.full, catalog)
			if len(tt.wantErrs) == 0 {
				require.NoError(t, err)
				require.Equal(t, webappdata.NewAddProject("АН", "Аналитика"), payload)
				return
			}
			require.Error(t, err)
			require.Equal(t, webappdata.AddProject{}, payload)
			verrs, ok := project.AsValidationErrors(err)
			require.True(t, ok)
			require.Len(t, verrs, len(tt.wantErrs))
			for _, want := range tt.wantErrs {
				require.ErrorIs(t, err, want)
			}
		})
	}
}
