package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns the catalog in insertion order
func (r *ProjectRepository) List(ctx context.Context) (project.Catalog, error) {
	query := `
		SELECT abbr, full_name, created_at
		FROM projects
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	catalog := project.Catalog{}
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.Abbr, &p.Full, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		catalog = append(catalog, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return catalog, nil
}

// Create appends a project to the end of the catalog
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (abbr, full_name, position, created_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM projects), ?)
	`

	createdAt := proj.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, proj.Abbr, proj.Full, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	proj.CreatedAt = createdAt
	return nil
}

// Delete removes a project by abbreviation
func (r *ProjectRepository) Delete(ctx context.Context, abbr string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE abbr = ?`, abbr)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetAssignment returns the project subset assigned to a user
func (r *ProjectRepository) GetAssignment(ctx context.Context, userID int64) (*project.Assignment, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT abbrs FROM assignments WHERE user_id = ?`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	assignment := &project.Assignment{UserID: userID}
	if err := json.Unmarshal([]byte(raw), &assignment.Abbrs); err != nil {
		return nil, fmt.Errorf("failed to decode assignment: %w", err)
	}
	return assignment, nil
}

// SetAssignment replaces the project subset assigned to a user
func (r *ProjectRepository) SetAssignment(ctx context.Context, assignment *project.Assignment) error {
	abbrs := assignment.Abbrs
	if abbrs == nil {
		abbrs = []string{}
	}
	data, err := json.Marshal(abbrs)
	if err != nil {
		return fmt.Errorf("failed to encode assignment: %w", err)
	}

	query := `
		INSERT INTO assignments (user_id, abbrs, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET abbrs = excluded.abbrs, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, assignment.UserID, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to set assignment: %w", err)
	}
	return nil
}
