package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/repository"
)

// ReportRepository implements report.Repository for SQLite
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report
func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	query := `
		INSERT INTO reports (
			id, user_id, username, project, project_abbr,
			hours, comments, date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rep.ID,
		rep.UserID,
		rep.Username,
		rep.Project,
		rep.ProjectAbbr,
		rep.Hours,
		rep.Comments,
		rep.Date,
		rep.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// List returns reports matching the given filters, oldest first
func (r *ReportRepository) List(ctx context.Context, opts report.ListOptions) ([]report.Report, error) {
	query := `
		SELECT
			id, user_id, username, project, project_abbr,
			hours, comments, date, created_at
		FROM reports
	`

	args := []interface{}{}
	conditions := []string{}

	if opts.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *opts.UserID)
	}
	if opts.Since != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, opts.Since)
	}
	if opts.Date != "" {
		conditions = append(conditions, "date = ?")
		args = append(args, opts.Date)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at ASC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []report.Report{}
	for rows.Next() {
		var rep report.Report
		if err := rows.Scan(
			&rep.ID,
			&rep.UserID,
			&rep.Username,
			&rep.Project,
			&rep.ProjectAbbr,
			&rep.Hours,
			&rep.Comments,
			&rep.Date,
			&rep.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return reports, nil
}

// DeleteForUser removes every report of a user
func (r *ReportRepository) DeleteForUser(ctx context.Context, userID int64) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}
