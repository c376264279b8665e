package sqlite

import (
	"context"
	"fmt"
	"time"

	"todolist/internal/domain"
	"todolist/internal/errors"
)

const taskColumns = `id, project_id, title, description, status, deadline, created_at, updated_at`

// TaskRepository implements repository.TaskRepository
type TaskRepository struct {
	store *Store
}

// Add inserts a task and returns it with its new ID
func (r *TaskRepository) Add(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO tasks (project_id, title, description, status, deadline, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.store.db, query,
		task.ProjectID, task.Title, task.Description, string(task.Status),
		FormatTimePtrForDB(task.Deadline), FormatTimeForDB(task.CreatedAt), FormatTimeForDB(task.UpdatedAt))
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, errors.NewNotFoundError("project", fmt.Sprintf("%d", task.ProjectID))
		}
		return nil, err
	}

	out := *task
	out.ID = id
	return &out, nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QueryOptional(ctx, r.store.db, query, ScanTask, "task", id)
}

// GetAll retrieves every task ordered by ID
func (r *TaskRepository) GetAll(ctx context.Context) ([]*domain.Task, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id ASC`
	return QueryMultiple(ctx, r.store.db, query, ScanTasks, "tasks")
}

// GetByParent retrieves the tasks of one project
func (r *TaskRepository) GetByParent(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY id ASC`
	return QueryMultiple(ctx, r.store.db, query, ScanTasks, "tasks", projectID)
}

// GetByStatus retrieves the tasks of one project that have status
func (r *TaskRepository) GetByStatus(ctx context.Context, projectID int64, status domain.Status) ([]*domain.Task, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? AND status = ? ORDER BY id ASC`
	return QueryMultiple(ctx, r.store.db, query, ScanTasks, "tasks", projectID, string(status))
}

// GetOverdue retrieves unfinished tasks whose deadline is before now
func (r *TaskRepository) GetOverdue(ctx context.Context, now time.Time, projectID *int64) ([]*domain.Task, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE deadline IS NOT NULL AND deadline < ? AND status != ?`
	args := []interface{}{FormatTimeForDB(now), string(domain.StatusDone)}

	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY deadline ASC, id ASC`

	return QueryMultiple(ctx, r.store.db, query, ScanTasks, "overdue tasks", args...)
}

// Update overwrites the mutable fields of a stored task
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	query := `
	UPDATE tasks
	SET title = ?, description = ?, status = ?, deadline = ?, updated_at = ?
	WHERE id = ?`

	err := ExecuteWithRowsAffected(ctx, r.store.db, query, "task", fmt.Sprintf("%d", task.ID),
		task.Title, task.Description, string(task.Status), FormatTimePtrForDB(task.Deadline),
		FormatTimeForDB(task.UpdatedAt), task.ID)
	if err != nil {
		return nil, err
	}

	out := *task
	return &out, nil
}

// Delete removes a task and reports whether it existed
func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	err := ExecuteWithRowsAffected(ctx, r.store.db, `DELETE FROM tasks WHERE id = ?`, "task", fmt.Sprintf("%d", id), id)
	if errors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of stored tasks
func (r *TaskRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	return QueryCount(ctx, r.store.db, `SELECT COUNT(*) FROM tasks`)
}

// CountByParent returns the number of tasks in one project
func (r *TaskRepository) CountByParent(ctx context.Context, projectID int64) (int, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	return QueryCount(ctx, r.store.db, `SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID)
}
