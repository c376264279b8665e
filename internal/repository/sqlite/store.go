package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"todolist/internal/errors"
	"todolist/internal/logging"
	"todolist/internal/repository"
	"todolist/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Options bounds the time spent in individual statements. Zero disables
// the corresponding timeout.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// Store implements repository.Store on a SQLite database
type Store struct {
	db       *sql.DB
	opts     Options
	projects *ProjectRepository
	tasks    *TaskRepository
}

var _ repository.Store = (*Store)(nil)

// New creates a new SQLite store with no statement timeouts
func New(dbPath string) (*Store, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions opens dbPath, enables foreign keys and runs migrations
func NewWithOptions(dbPath string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dbPath))
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// Every connection to :memory: is a separate database
	if isMemoryPath(dbPath) {
		db.SetMaxOpenConns(1)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("enable foreign keys", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	logging.Debugf("sqlite store opened at %s\n", dbPath)

	s := &Store{db: db, opts: opts}
	s.projects = &ProjectRepository{store: s}
	s.tasks = &TaskRepository{store: s}
	return s, nil
}

// Projects returns the project repository
func (s *Store) Projects() repository.ProjectRepository {
	return s.projects
}

// Tasks returns the task repository
func (s *Store) Tasks() repository.TaskRepository {
	return s.tasks
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle so tests can inspect rows directly
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.opts.QueryTimeout)
}

func (s *Store) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.opts.WriteTimeout)
}

// withTx runs fn in a transaction, rolling back when fn fails
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func isMemoryPath(dbPath string) bool {
	return strings.HasPrefix(dbPath, ":memory:") || strings.Contains(dbPath, "mode=memory")
}

func withForeignKeys(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)"
}
