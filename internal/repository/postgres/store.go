// Package postgres is a repository.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	_ "embed"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"todolist/internal/domain"
	"todolist/internal/errors"
	"todolist/internal/repository"
)

//go:embed schema.sql
var schema string

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Options bounds the time spent in individual statements. Zero disables
// the corresponding timeout.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// Store implements repository.Store on a pgx connection pool
type Store struct {
	pool     *pgxpool.Pool
	opts     Options
	projects *projectRepository
	tasks    *taskRepository
}

var _ repository.Store = (*Store)(nil)

// New connects to databaseURL and creates the schema when missing
func New(ctx context.Context, databaseURL string, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.NewDatabaseError("open pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewDatabaseError("ping", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.NewDatabaseError("apply schema", err)
	}
	return NewFromPool(pool, opts), nil
}

// NewFromPool wraps an existing pool. The schema must already exist.
func NewFromPool(pool *pgxpool.Pool, opts Options) *Store {
	s := &Store{pool: pool, opts: opts}
	s.projects = &projectRepository{store: s}
	s.tasks = &taskRepository{store: s}
	return s
}

// Projects returns the project repository
func (s *Store) Projects() repository.ProjectRepository {
	return s.projects
}

// Tasks returns the task repository
func (s *Store) Tasks() repository.TaskRepository {
	return s.tasks
}

// Close releases the pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.opts.QueryTimeout)
}

func (s *Store) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.opts.WriteTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func handleError(operation string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		timeoutErr := errors.NewTimeoutError(operation, nil)
		timeoutErr.Cause = err
		return timeoutErr
	}
	return errors.NewDatabaseError(operation, err)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func idString(id int64) string {
	return fmt.Sprintf("%d", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

const projectColumns = `id, name, description, created_at, updated_at`

const taskColumns = `id, project_id, title, description, status, deadline, created_at, updated_at`

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status string
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status, &t.Deadline, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.Status(status)
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()
	out := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
