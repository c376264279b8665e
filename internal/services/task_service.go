package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"todolist/internal/config"
	"todolist/internal/domain"
	"todolist/internal/errors"
	"todolist/internal/repository"
	"todolist/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks     repository.TaskRepository
	validator *validation.TaskValidator
	limits    config.LimitsConfig
	options
}

// NewTaskService creates a new TaskService instance. A nil cfg uses the
// defaults from config.NewConfig.
func NewTaskService(store repository.Store, cfg *config.Config, opts ...Option) TaskService {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	o := newOptions(opts)
	return &taskServiceImpl{
		tasks:     store.Tasks(),
		validator: validation.NewTaskValidatorWithConfig(cfg, o.now),
		limits:    cfg.Limits,
		options:   o,
	}
}

func taskNotFound(id int64) error {
	return errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
}

// CreateTask checks the per-project capacity, then validates and stores the task
func (t *taskServiceImpl) CreateTask(ctx context.Context, projectID int64, title, description string, deadline *time.Time) (*domain.Task, error) {
	count, err := t.tasks.CountByParent(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if count >= t.limits.MaxTasksPerProject {
		return nil, errors.NewCapacityExceededError("tasks in a project", t.limits.MaxTasksPerProject)
	}

	task, err := domain.NewTask(t.validator, projectID, title, description, deadline, t.now())
	if err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	created, err := t.tasks.Add(ctx, task)
	if err != nil {
		return nil, err
	}

	t.logger.WithFields(log.Fields{"task_id": created.ID, "project_id": projectID}).Debug("task created")
	return created, nil
}

// GetTask returns nil, nil when the task does not exist
func (t *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return t.tasks.Get(ctx, id)
}

// ListTasks returns every task ordered by ID
func (t *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return t.tasks.GetAll(ctx)
}

// GetTasksByProject returns the tasks of one project
func (t *taskServiceImpl) GetTasksByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	return t.tasks.GetByParent(ctx, projectID)
}

// GetTasksByStatus validates status before querying
func (t *taskServiceImpl) GetTasksByStatus(ctx context.Context, projectID int64, status domain.Status) ([]*domain.Task, error) {
	if err := t.validator.ValidateStatus(string(status)); err != nil {
		return nil, errors.NewValidationError("invalid status", err)
	}
	return t.tasks.GetByStatus(ctx, projectID, status)
}

// UpdateTask replaces every mutable field of the task
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id int64, title, description string, status domain.Status, deadline *time.Time) (*domain.Task, error) {
	task, err := t.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, taskNotFound(id)
	}

	if err := task.Update(t.validator, title, description, status, deadline, t.now()); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	updated, err := t.tasks.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	t.logger.WithField("task_id", id).Debug("task updated")
	return updated, nil
}

// ChangeTaskStatus moves the task to status. Any transition is allowed.
func (t *taskServiceImpl) ChangeTaskStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	task, err := t.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, taskNotFound(id)
	}

	previous := task.Status
	if err := task.ChangeStatus(t.validator, status, t.now()); err != nil {
		return nil, errors.NewValidationError("invalid status", err)
	}

	updated, err := t.tasks.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	t.logger.WithFields(log.Fields{"task_id": id, "from": previous, "to": status}).Debug("task status changed")
	return updated, nil
}

// DeleteTask reports whether the task existed
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id int64) (bool, error) {
	deleted, err := t.tasks.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		t.logger.WithField("task_id", id).Debug("task deleted")
	}
	return deleted, nil
}

// GetOverdueTasks returns unfinished tasks past their deadline at the
// service clock's current time. A nil projectID covers every project.
func (t *taskServiceImpl) GetOverdueTasks(ctx context.Context, projectID *int64) ([]*domain.Task, error) {
	return t.tasks.GetOverdue(ctx, t.now(), projectID)
}
