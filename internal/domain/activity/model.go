package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeUserRegistered   ActivityType = "user_registered"
	TypeReportAdded      ActivityType = "report_added"
	TypeProjectAdded     ActivityType = "project_added"
	TypeProjectRemoved   ActivityType = "project_removed"
	TypeProjectsAssigned ActivityType = "projects_assigned"
	TypeReminderSent     ActivityType = "reminder_sent"
	TypeReportsExported  ActivityType = "reports_exported"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
