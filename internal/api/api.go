// Package api composes the project and task services into the single entry
// point used by the CLI, the HTTP server and the overdue sweep.
package api

import (
	"context"
	"fmt"
	"time"

	"todolist/internal/config"
	"todolist/internal/domain"
	"todolist/internal/errors"
	"todolist/internal/repository"
	"todolist/internal/services"
	"todolist/internal/validation"
)

// ProjectPatch holds the project fields to change; nil fields keep their
// stored value.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// TaskPatch holds the task fields to change; nil fields keep their stored
// value. ClearDeadline removes the deadline and wins over Deadline.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *domain.Status
	Deadline      *time.Time
	ClearDeadline bool
}

// TaskFilter narrows ListTasks. A nil field does not filter.
type TaskFilter struct {
	ProjectID *int64
	Status    *domain.Status
}

// API defines every project and task operation exposed to the outer layers
type API interface {
	// ========== Project Operations ==========

	CreateProject(ctx context.Context, name, description string) (*domain.Project, error)
	// GetProject returns a NotFound error when the project does not exist
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	UpdateProject(ctx context.Context, id int64, patch ProjectPatch) (*domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error
	GetProjectStats(ctx context.Context, id int64) (*services.ProjectStats, error)

	// ========== Task Operations ==========

	// CreateTask checks that the project exists before creating the task
	CreateTask(ctx context.Context, projectID int64, title, description string, deadline *time.Time) (*domain.Task, error)
	// GetTask returns a NotFound error when the task does not exist
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*domain.Task, error)
	ChangeTaskStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	GetOverdueTasks(ctx context.Context, projectID *int64) ([]*domain.Task, error)
}

// apiImpl implements the API interface
type apiImpl struct {
	projects services.ProjectService
	tasks    services.TaskService
}

// New creates a new API over the given services
func New(projects services.ProjectService, tasks services.TaskService) API {
	return &apiImpl{
		projects: projects,
		tasks:    tasks,
	}
}

// NewFromStore builds both services over store and composes them
func NewFromStore(store repository.Store, cfg *config.Config, opts ...services.Option) API {
	return New(
		services.NewProjectService(store, cfg, opts...),
		services.NewTaskService(store, cfg, opts...),
	)
}

func projectNotFound(id int64) error {
	return errors.NewNotFoundError("project", fmt.Sprintf("%d", id))
}

func taskNotFound(id int64) error {
	return errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
}

// ========== Project Operations ==========

func (a *apiImpl) CreateProject(ctx context.Context, name, description string) (*domain.Project, error) {
	return a.projects.CreateProject(ctx, name, description)
}

func (a *apiImpl) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := a.projects.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, projectNotFound(id)
	}
	return project, nil
}

func (a *apiImpl) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return a.projects.ListProjects(ctx)
}

func (a *apiImpl) UpdateProject(ctx context.Context, id int64, patch ProjectPatch) (*domain.Project, error) {
	// 1. Load the current values
	project, err := a.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. Merge the patch
	name, description := project.Name, project.Description
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Description != nil {
		description = *patch.Description
	}

	// 3. Full update through the service
	return a.projects.UpdateProject(ctx, id, name, description)
}

func (a *apiImpl) DeleteProject(ctx context.Context, id int64) error {
	deleted, err := a.projects.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return projectNotFound(id)
	}
	return nil
}

func (a *apiImpl) GetProjectStats(ctx context.Context, id int64) (*services.ProjectStats, error) {
	return a.projects.GetProjectStats(ctx, id)
}

// ========== Task Operations ==========

func (a *apiImpl) CreateTask(ctx context.Context, projectID int64, title, description string, deadline *time.Time) (*domain.Task, error) {
	exists, err := a.projects.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, projectNotFound(projectID)
	}
	return a.tasks.CreateTask(ctx, projectID, title, description, deadline)
}

func (a *apiImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := a.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, taskNotFound(id)
	}
	return task, nil
}

func (a *apiImpl) ListTasks(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	switch {
	case filter.ProjectID != nil && filter.Status != nil:
		return a.tasks.GetTasksByStatus(ctx, *filter.ProjectID, *filter.Status)
	case filter.ProjectID != nil:
		return a.tasks.GetTasksByProject(ctx, *filter.ProjectID)
	}

	if filter.Status != nil {
		if err := validation.ValidateStatus(string(*filter.Status)); err != nil {
			return nil, errors.NewValidationError("invalid status", err)
		}
	}

	tasks, err := a.tasks.ListTasks(ctx)
	if err != nil || filter.Status == nil {
		return tasks, err
	}

	status := *filter.Status
	matching := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == status {
			matching = append(matching, task)
		}
	}
	return matching, nil
}

func (a *apiImpl) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*domain.Task, error) {
	// 1. Load the current values
	task, err := a.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. Merge the patch
	title, description, status, deadline := task.Title, task.Description, task.Status, task.Deadline
	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.Status != nil {
		status = *patch.Status
	}
	if patch.Deadline != nil {
		deadline = patch.Deadline
	}
	if patch.ClearDeadline {
		deadline = nil
	}

	// 3. Full update through the service
	return a.tasks.UpdateTask(ctx, id, title, description, status, deadline)
}

func (a *apiImpl) ChangeTaskStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	return a.tasks.ChangeTaskStatus(ctx, id, status)
}

func (a *apiImpl) DeleteTask(ctx context.Context, id int64) error {
	deleted, err := a.tasks.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return taskNotFound(id)
	}
	return nil
}

func (a *apiImpl) GetOverdueTasks(ctx context.Context, projectID *int64) ([]*domain.Task, error) {
	return a.tasks.GetOverdueTasks(ctx, projectID)
}
