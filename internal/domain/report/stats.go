package report

import "sort"

// RecentLimit caps the recent report list in admin statistics.
const RecentLimit = 30

// UserStats summarises one user's reports.
type UserStats struct {
	TotalHours   float64            `json:"total_hours"`
	TotalReports int                `json:"total_reports"`
	ByProject    map[string]float64 `json:"by_project"`
}

// EmployeeStats summarises one employee for administrators.
type EmployeeStats struct {
	Name     string             `json:"name"`
	Hours    float64            `json:"hours"`
	Reports  int                `json:"reports"`
	Projects map[string]float64 `json:"projects"`
}

// RecentReport is a display-formatted report row.
type RecentReport struct {
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Employee string  `json:"employee"`
	Project  string  `json:"project"`
	Hours    float64 `json:"hours"`
	Comment  string  `json:"comment"`
}

// AdminStats aggregates every report.
type AdminStats struct {
	TotalHours    float64            `json:"total_hours"`
	TotalReports  int                `json:"total_reports"`
	Employees     []EmployeeStats    `json:"employees"`
	Projects      map[string]float64 `json:"projects"`
	RecentReports []RecentReport     `json:"recent_reports"`
}

// TotalHours sums the hours of reports.
func TotalHours(reports []Report) float64 {
	var total float64
	for _, r := range reports {
		total += r.Hours
	}
	return total
}

// UserStatsFor aggregates the reports belonging to userID.
func UserStatsFor(reports []Report, userID int64) UserStats {
	stats := UserStats{ByProject: map[string]float64{}}
	for _, r := range reports {
		if r.UserID != userID {
			continue
		}
		stats.TotalHours += r.Hours
		stats.TotalReports++
		stats.ByProject[projectKey(r)] += r.Hours
	}
	return stats
}

// AdminStatsFor aggregates all reports per employee and per project.
// Employees keep first-seen order.
func AdminStatsFor(reports []Report) AdminStats {
	stats := AdminStats{
		Projects:      map[string]float64{},
		Employees:     []EmployeeStats{},
		RecentReports: []RecentReport{},
	}
	index := map[string]int{}
	for _, r := range reports {
		name := r.Username
		if name == "" {
			name = "?"
		}
		i, ok := index[name]
		if !ok {
			i = len(stats.Employees)
			index[name] = i
			stats.Employees = append(stats.Employees, EmployeeStats{Name: name, Projects: map[string]float64{}})
		}
		emp := &stats.Employees[i]
		emp.Hours += r.Hours
		emp.Reports++
		emp.Projects[projectKey(r)] += r.Hours

		stats.Projects[projectKey(r)] += r.Hours
		stats.TotalHours += r.Hours
	}
	stats.TotalReports = len(reports)

	recent := make([]Report, len(reports))
	copy(recent, reports)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	for _, r := range recent {
		stats.RecentReports = append(stats.RecentReports, formatRecent(r))
	}
	return stats
}

func formatRecent(r Report) RecentReport {
	row := RecentReport{
		Employee: orDash(r.Username),
		Project:  projectKey(r),
		Hours:    r.Hours,
		Comment:  orDash(r.Comments),
	}
	if r.CreatedAt.IsZero() {
		row.Date = r.Date
		return row
	}
	row.Date = r.CreatedAt.Format("02.01.2006")
	row.Time = r.CreatedAt.Format("15:04")
	return row
}

func projectKey(r Report) string {
	return orDash(r.Project)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
