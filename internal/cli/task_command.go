package cli

import (
	"context"
	"time"

	"todolist/internal/api"
	"todolist/internal/domain"
)

// TaskCommand handles the task subcommands
type TaskCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewTaskCommand creates a new task command handler
func NewTaskCommand(app *App) *TaskCommand {
	return &TaskCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Create adds a task to a project. deadline may be empty.
func (c *TaskCommand) Create(ctx context.Context, projectID int64, title, description, deadline string) error {
	var due *time.Time
	if deadline != "" {
		parsed, err := parseDeadline(deadline, c.app.now())
		if err != nil {
			return c.errorHandler.Handle("create task", err)
		}
		due = &parsed
	}

	task, err := c.app.api.CreateTask(ctx, projectID, title, description, due)
	if err != nil {
		return c.errorHandler.Handle("create task", err)
	}
	c.app.printf("Created task %d in project %d: %s\n", task.ID, task.ProjectID, task.Title)
	return nil
}

// List prints the tasks matching filter
func (c *TaskCommand) List(ctx context.Context, filter api.TaskFilter) error {
	tasks, err := c.app.api.ListTasks(ctx, filter)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}
	printTasks(c.app.out, tasks)
	return nil
}

// Show prints one task
func (c *TaskCommand) Show(ctx context.Context, id int64) error {
	task, err := c.app.api.GetTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("show task", err)
	}
	printTask(c.app.out, task)
	return nil
}

// TaskUpdate carries the raw flag values of task update
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *string
	Deadline      *string
	ClearDeadline bool
}

// Update changes the fields set in update
func (c *TaskCommand) Update(ctx context.Context, id int64, update TaskUpdate) error {
	patch := api.TaskPatch{
		Title:         update.Title,
		Description:   update.Description,
		ClearDeadline: update.ClearDeadline,
	}
	if update.Status != nil {
		status := domain.Status(*update.Status)
		patch.Status = &status
	}
	if update.Deadline != nil && !update.ClearDeadline {
		parsed, err := parseDeadline(*update.Deadline, c.app.now())
		if err != nil {
			return c.errorHandler.Handle("update task", err)
		}
		patch.Deadline = &parsed
	}

	task, err := c.app.api.UpdateTask(ctx, id, patch)
	if err != nil {
		return c.errorHandler.Handle("update task", err)
	}
	c.app.printf("Updated task %d: %s [%s]\n", task.ID, task.Title, task.Status)
	return nil
}

// SetStatus moves a task to status
func (c *TaskCommand) SetStatus(ctx context.Context, id int64, status string) error {
	task, err := c.app.api.ChangeTaskStatus(ctx, id, domain.Status(status))
	if err != nil {
		return c.errorHandler.Handle("change task status", err)
	}
	c.app.printf("Task %d is now %s\n", task.ID, task.Status)
	return nil
}

// Delete removes one task
func (c *TaskCommand) Delete(ctx context.Context, id int64) error {
	if err := c.app.api.DeleteTask(ctx, id); err != nil {
		return c.errorHandler.Handle("delete task", err)
	}
	c.app.printf("Deleted task %d\n", id)
	return nil
}

// Overdue prints unfinished tasks past their deadline
func (c *TaskCommand) Overdue(ctx context.Context, projectID *int64) error {
	tasks, err := c.app.api.GetOverdueTasks(ctx, projectID)
	if err != nil {
		return c.errorHandler.Handle("list overdue tasks", err)
	}
	printTasks(c.app.out, tasks)
	return nil
}
