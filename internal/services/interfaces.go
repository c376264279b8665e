package services

import (
	"context"
	"time"

	"todolist/internal/domain"
)

// ProjectStats summarises the tasks of one project. StatusCount always
// holds an entry for every status, zero when no task has it.
type ProjectStats struct {
	Project     *domain.Project       `json:"project"`
	TotalTasks  int                   `json:"total_tasks"`
	StatusCount map[domain.Status]int `json:"status_count"`
}

// ProjectService handles project lifecycle operations
type ProjectService interface {
	// Project CRUD operations
	CreateProject(ctx context.Context, name, description string) (*domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	UpdateProject(ctx context.Context, id int64, name, description string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id int64) (bool, error)

	// Queries
	ProjectExists(ctx context.Context, id int64) (bool, error)
	GetProjectStats(ctx context.Context, id int64) (*ProjectStats, error)
}

// TaskService handles task lifecycle and status operations
type TaskService interface {
	// CreateTask adds a task in the todo state. The caller must have
	// confirmed that projectID refers to an existing project.
	CreateTask(ctx context.Context, projectID int64, title, description string, deadline *time.Time) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, title, description string, status domain.Status, deadline *time.Time) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)

	// Listing
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	GetTasksByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)
	GetTasksByStatus(ctx context.Context, projectID int64, status domain.Status) ([]*domain.Task, error)

	// Status workflow
	ChangeTaskStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
	GetOverdueTasks(ctx context.Context, projectID *int64) ([]*domain.Task, error)
}
