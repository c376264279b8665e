// Package repository defines the persistence gateway used by the services.
// Adapters live in the memory, sqlite and postgres subpackages.
package repository

import (
	"context"
	"time"

	"todolist/internal/domain"
)

// ProjectRepository stores projects.
//
// Get and GetByName return nil, nil when nothing matches. Update returns a
// NotFound error for an unknown ID. Delete removes the project together with
// every task that references it, atomically, and reports whether the
// project existed.
type ProjectRepository interface {
	Add(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Get(ctx context.Context, id int64) (*domain.Project, error)
	GetAll(ctx context.Context) ([]*domain.Project, error)
	GetByName(ctx context.Context, name string) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

// TaskRepository stores tasks.
//
// GetOverdue returns the tasks with a deadline strictly before now whose
// status is not done. A nil projectID means every project.
type TaskRepository interface {
	Add(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	GetAll(ctx context.Context) ([]*domain.Task, error)
	GetByParent(ctx context.Context, projectID int64) ([]*domain.Task, error)
	GetByStatus(ctx context.Context, projectID int64, status domain.Status) ([]*domain.Task, error)
	GetOverdue(ctx context.Context, now time.Time, projectID *int64) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	CountByParent(ctx context.Context, projectID int64) (int, error)
}

// Store groups the repositories backed by one storage handle.
type Store interface {
	Projects() ProjectRepository
	Tasks() TaskRepository
	Close() error
}
