package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleReports() []Report {
	base := time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC)
	return []Report{
		{UserID: 1, Username: "anna", Project: "Маркетинг", Hours: 2, Comments: "-", Date: "2025-03-14", CreatedAt: base},
		{UserID: 2, Username: "boris", Project: "Дизайн", Hours: 4, Comments: "макеты", Date: "2025-03-13", CreatedAt: base.Add(-24 * time.Hour)},
		{UserID: 1, Username: "anna", Project: "Дизайн", Hours: 1.5, Comments: "-", Date: "2025-03-14", CreatedAt: base.Add(time.Hour)},
	}
}

func TestUserStatsFor(t *testing.T) {
	stats := UserStatsFor(sampleReports(), 1)
	require.Equal(t, 3.5, stats.TotalHours)
	require.Equal(t, 2, stats.TotalReports)
	require.Equal(t, map[string]float64{"Маркетинг": 2, "Дизайн": 1.5}, stats.ByProject)

	empty := UserStatsFor(sampleReports(), 99)
	require.Zero(t, empty.TotalReports)
	require.NotNil(t, empty.ByProject)
}

func TestAdminStatsFor(t *testing.T) {
	stats := AdminStatsFor(sampleReports())
	require.Equal(t, 7.5, stats.TotalHours)
	require.Equal(t, 3, stats.TotalReports)
	require.Len(t, stats.Employees, 2)
	require.Equal(t, "anna", stats.Employees[0].Name)
	require.Equal(t, 3.5, stats.Employees[0].Hours)
	require.Equal(t, 5.5, stats.Projects["Дизайн"])

	require.Len(t, stats.RecentReports, 3)
	require.Equal(t, "10:05", stats.RecentReports[0].Time)
	require.Equal(t, "14.03.2025", stats.RecentReports[0].Date)
	require.Equal(t, "boris", stats.RecentReports[2].Employee)
}

func TestAdminStatsFor_RecentCapped(t *testing.T) {
	var reports []Report
	for i := 0; i < RecentLimit+5; i++ {
		reports = append(reports, Report{UserID: 1, Username: "anna", Project: "P", Hours: 1, CreatedAt: time.Unix(int64(i), 0)})
	}
	stats := AdminStatsFor(reports)
	require.Len(t, stats.RecentReports, RecentLimit)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReports()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeffДата,Сотрудник,Проект,Часы,Комментарий\n"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "2025-03-13,boris,Дизайн,4,макеты", lines[1])
	require.Equal(t, "2025-03-14,anna,Дизайн,1.5,-", lines[3])
}
