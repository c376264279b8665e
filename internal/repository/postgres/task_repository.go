package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"todolist/internal/domain"
	"todolist/internal/errors"
)

type taskRepository struct {
	store *Store
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (r *taskRepository) Add(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	const q = `
insert into tasks (project_id, title, description, status, deadline, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7)
returning ` + taskColumns

	t, err := scanTask(r.store.pool.QueryRow(ctx, q, task.ProjectID, task.Title, task.Description,
		string(task.Status), utcPtr(task.Deadline), task.CreatedAt.UTC(), task.UpdatedAt.UTC()))
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return nil, errors.NewNotFoundError("project", idString(task.ProjectID))
		}
		return nil, handleError("insert task", err)
	}
	return t, nil
}

func (r *taskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	t, err := scanTask(r.store.pool.QueryRow(ctx, `select `+taskColumns+` from tasks where id = $1`, id))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, handleError("select task", err)
	}
	return t, nil
}

func (r *taskRepository) query(ctx context.Context, operation, q string, args ...any) ([]*domain.Task, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	rows, err := r.store.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, handleError(operation, err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, handleError(operation, err)
	}
	return tasks, nil
}

func (r *taskRepository) GetAll(ctx context.Context) ([]*domain.Task, error) {
	return r.query(ctx, "list tasks", `select `+taskColumns+` from tasks order by id`)
}

func (r *taskRepository) GetByParent(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	return r.query(ctx, "list project tasks",
		`select `+taskColumns+` from tasks where project_id = $1 order by id`, projectID)
}

func (r *taskRepository) GetByStatus(ctx context.Context, projectID int64, status domain.Status) ([]*domain.Task, error) {
	return r.query(ctx, "list tasks by status",
		`select `+taskColumns+` from tasks where project_id = $1 and status = $2 order by id`, projectID, string(status))
}

func (r *taskRepository) GetOverdue(ctx context.Context, now time.Time, projectID *int64) ([]*domain.Task, error) {
	q := `select ` + taskColumns + ` from tasks where deadline is not null and deadline < $1 and status <> $2`
	args := []any{now.UTC(), string(domain.StatusDone)}
	if projectID != nil {
		q += fmt.Sprintf(` and project_id = $%d`, len(args)+1)
		args = append(args, *projectID)
	}
	q += ` order by deadline, id`
	return r.query(ctx, "list overdue tasks", q, args...)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	const q = `
update tasks
set title = $2, description = $3, status = $4, deadline = $5, updated_at = $6
where id = $1
returning ` + taskColumns

	t, err := scanTask(r.store.pool.QueryRow(ctx, q, task.ID, task.Title, task.Description,
		string(task.Status), utcPtr(task.Deadline), task.UpdatedAt.UTC()))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NewNotFoundError("task", idString(task.ID))
	}
	if err != nil {
		return nil, handleError("update task", err)
	}
	return t, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	ct, err := r.store.pool.Exec(ctx, `delete from tasks where id = $1`, id)
	if err != nil {
		return false, handleError("delete task", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *taskRepository) count(ctx context.Context, q string, args ...any) (int, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	var n int
	if err := r.store.pool.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, handleError("count tasks", err)
	}
	return n, nil
}

func (r *taskRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `select count(*) from tasks`)
}

func (r *taskRepository) CountByParent(ctx context.Context, projectID int64) (int, error) {
	return r.count(ctx, `select count(*) from tasks where project_id = $1`, projectID)
}
