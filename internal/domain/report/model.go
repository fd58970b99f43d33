package report

import "time"

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Report is one entry of time spent on a project.
type Report struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Project     string    `json:"project"`
	ProjectAbbr string    `json:"project_abbr,omitempty"`
	Hours       float64   `json:"hours"`
	Comments    string    `json:"comments"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"datetime"`
}

// Item is a single project/hours pair of a submission.
type Item struct {
	Project     string  `json:"project"`
	ProjectAbbr string  `json:"project_abbr,omitempty"`
	Hours       float64 `json:"hours"`
}
