package sqlite

import (
	"database/sql"
	"fmt"

	"todolist/internal/domain"
)

// projectRow mirrors the projects table
type projectRow struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// taskRow mirrors the tasks table. Deadline is NULL when unset.
type taskRow struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	Status      string
	Deadline    sql.NullString
	CreatedAt   string
	UpdatedAt   string
}

func (r *projectRow) toDomain() (*domain.Project, error) {
	createdAt, err := ParseTimeFromDB(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("project %d created_at: %w", r.ID, err)
	}
	updatedAt, err := ParseTimeFromDB(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("project %d updated_at: %w", r.ID, err)
	}
	return &domain.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (r *taskRow) toDomain() (*domain.Task, error) {
	createdAt, err := ParseTimeFromDB(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("task %d created_at: %w", r.ID, err)
	}
	updatedAt, err := ParseTimeFromDB(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("task %d updated_at: %w", r.ID, err)
	}
	task := &domain.Task{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.Status(r.Status),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if r.Deadline.Valid {
		deadline, err := ParseTimeFromDB(r.Deadline.String)
		if err != nil {
			return nil, fmt.Errorf("task %d deadline: %w", r.ID, err)
		}
		task.Deadline = &deadline
	}
	return task, nil
}
